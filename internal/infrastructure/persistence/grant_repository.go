package persistence

import (
	"context"
	"errors"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGrantRepository implements identity.GrantRepository using GORM
type GormGrantRepository struct {
	db *gorm.DB
}

// NewGormGrantRepository creates a new GormGrantRepository
func NewGormGrantRepository(db *gorm.DB) *GormGrantRepository {
	return &GormGrantRepository{db: db}
}

// FindByUser returns all grants held by a user
func (r *GormGrantRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.BranchGrant, error) {
	var grantModels []models.BranchGrantModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("branch_id ASC").
		Find(&grantModels).Error; err != nil {
		return nil, err
	}
	return toGrants(grantModels), nil
}

// FindByUserAndBranch returns the user's grant on a branch, nil when absent
func (r *GormGrantRepository) FindByUserAndBranch(ctx context.Context, userID uuid.UUID, branchID int64) (*identity.BranchGrant, error) {
	var model models.BranchGrantModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	grant := model.ToDomain()
	return &grant, nil
}

// Upsert creates the grant or updates its level when the (user, branch)
// pair already exists
func (r *GormGrantRepository) Upsert(ctx context.Context, grant *identity.BranchGrant) error {
	var model models.BranchGrantModel
	model.FromDomain(*grant)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "updated_at"}),
	}).Create(&model).Error
}

// Delete removes the user's grant on a branch
func (r *GormGrantRepository) Delete(ctx context.Context, userID uuid.UUID, branchID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		Delete(&models.BranchGrantModel{}).Error
}

// ReplaceAll atomically replaces every grant the user holds with the given
// set. Delete and insert run in one transaction so readers never observe a
// partial grant set.
func (r *GormGrantRepository) ReplaceAll(ctx context.Context, userID uuid.UUID, grants []identity.BranchGrant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.BranchGrantModel{}).Error; err != nil {
			return err
		}
		if len(grants) == 0 {
			return nil
		}
		grantModels := make([]models.BranchGrantModel, len(grants))
		for i, grant := range grants {
			grantModels[i].FromDomain(grant)
		}
		return tx.Create(&grantModels).Error
	})
}

// FindAllGrouped returns all grants keyed by user, for the admin overview
func (r *GormGrantRepository) FindAllGrouped(ctx context.Context) (map[uuid.UUID][]identity.BranchGrant, error) {
	var grantModels []models.BranchGrantModel
	if err := r.db.WithContext(ctx).
		Order("user_id ASC, branch_id ASC").
		Find(&grantModels).Error; err != nil {
		return nil, err
	}
	grouped := make(map[uuid.UUID][]identity.BranchGrant)
	for i := range grantModels {
		grant := grantModels[i].ToDomain()
		grouped[grant.UserID] = append(grouped[grant.UserID], grant)
	}
	return grouped, nil
}

func toGrants(grantModels []models.BranchGrantModel) []identity.BranchGrant {
	grants := make([]identity.BranchGrant, len(grantModels))
	for i := range grantModels {
		grants[i] = grantModels[i].ToDomain()
	}
	return grants
}
