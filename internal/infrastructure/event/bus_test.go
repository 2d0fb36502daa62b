package event

import (
	"context"
	"sync"
	"testing"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.events
}

func TestInMemoryEventBus_TypedSubscription(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	assigned := &recordingHandler{}
	bus.Subscribe(assigned, identity.EventTypeGrantAssigned)

	userID := uuid.New()
	err := bus.Publish(context.Background(),
		identity.NewGrantAssignedEvent(userID, 1, identity.PermissionFullAccess),
		identity.NewGrantRevokedEvent(userID, 2),
	)
	require.NoError(t, err)

	got := assigned.received()
	require.Len(t, got, 1)
	assert.Equal(t, identity.EventTypeGrantAssigned, got[0].EventType())
	assert.Equal(t, userID, got[0].AggregateID())
}

func TestInMemoryEventBus_WildcardReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	audit := &recordingHandler{}
	bus.Subscribe(audit)

	userID := uuid.New()
	err := bus.Publish(context.Background(),
		identity.NewGrantAssignedEvent(userID, 1, identity.PermissionViewOnly),
		identity.NewGrantRevokedEvent(userID, 1),
	)
	require.NoError(t, err)
	assert.Len(t, audit.received(), 2)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{identity.EventTypeGrantRevoked}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	err := bus.Publish(context.Background(), identity.NewGrantRevokedEvent(uuid.New(), 1))
	require.NoError(t, err)
	assert.Empty(t, h.received())
}

func TestInMemoryEventBus_PanickingHandlerIsIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	bad := &recordingHandler{panics: true}
	good := &recordingHandler{}
	bus.Subscribe(bad, identity.EventTypeGrantAssigned)
	bus.Subscribe(good, identity.EventTypeGrantAssigned)

	err := bus.Publish(context.Background(),
		identity.NewGrantAssignedEvent(uuid.New(), 1, identity.PermissionFullAccess))
	require.NoError(t, err)
	assert.Len(t, good.received(), 1)
}
