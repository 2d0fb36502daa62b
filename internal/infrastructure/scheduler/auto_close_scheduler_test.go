package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseCloseTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		hour    int
		minute  int
		wantErr bool
	}{
		{name: "default close time", value: "23:55", hour: 23, minute: 55},
		{name: "midnight", value: "00:00", hour: 0, minute: 0},
		{name: "single digit hour", value: "9:30", hour: 9, minute: 30},
		{name: "missing minute", value: "23", wantErr: true},
		{name: "hour out of range", value: "24:00", wantErr: true},
		{name: "minute out of range", value: "23:60", wantErr: true},
		{name: "not a time", value: "late", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := parseCloseTime(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestAutoCloseScheduler_StartStop(t *testing.T) {
	t.Run("disabled scheduler never starts its loop", func(t *testing.T) {
		config := DefaultAutoCloseSchedulerConfig(time.UTC)
		config.Enabled = false
		s := NewAutoCloseScheduler(nil, nil, zap.NewNop(), config)

		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.isRunning)
		require.NoError(t, s.Stop(context.Background()))
	})

	t.Run("rejects a malformed close time", func(t *testing.T) {
		config := DefaultAutoCloseSchedulerConfig(time.UTC)
		config.CloseTime = "25:99"
		s := NewAutoCloseScheduler(nil, nil, zap.NewNop(), config)

		assert.Error(t, s.Start(context.Background()))
	})

	t.Run("start and stop round trip", func(t *testing.T) {
		config := DefaultAutoCloseSchedulerConfig(time.UTC)
		s := NewAutoCloseScheduler(nil, nil, zap.NewNop(), config)

		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.isRunning)

		// Starting twice is a no-op
		require.NoError(t, s.Start(context.Background()))

		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(stopCtx))
		assert.False(t, s.isRunning)
	})
}

func TestSystemPrincipal(t *testing.T) {
	system := systemPrincipal()

	assert.True(t, system.IsAdmin())
	assert.True(t, system.CanAccess(42, "full_access"))
	assert.Equal(t, "system", system.Username)
}
