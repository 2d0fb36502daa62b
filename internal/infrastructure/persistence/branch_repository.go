package persistence

import (
	"context"
	"errors"

	"github.com/coffeecommand/backend/internal/domain/branch"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBranchRepository implements branch.Repository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// Create persists a new branch and writes the assigned ID back
func (r *GormBranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	var model models.BranchModel
	model.FromDomain(b)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	b.ID = model.ID
	return nil
}

// Update updates an existing branch
func (r *GormBranchRepository) Update(ctx context.Context, b *branch.Branch) error {
	var model models.BranchModel
	model.FromDomain(b)
	result := r.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a branch by ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id int64) (*branch.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns all active branches in creation order
func (r *GormBranchRepository) FindActive(ctx context.Context) ([]*branch.Branch, error) {
	var branchModels []models.BranchModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&branchModels).Error; err != nil {
		return nil, err
	}
	return toBranches(branchModels), nil
}

// FindAll returns all branches, active or not, in creation order
func (r *GormBranchRepository) FindAll(ctx context.Context) ([]*branch.Branch, error) {
	var branchModels []models.BranchModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&branchModels).Error; err != nil {
		return nil, err
	}
	return toBranches(branchModels), nil
}

// FindByIDs returns the branches with the given IDs in creation order.
// IDs that match no branch are simply absent from the result.
func (r *GormBranchRepository) FindByIDs(ctx context.Context, ids []int64) ([]*branch.Branch, error) {
	if len(ids) == 0 {
		return []*branch.Branch{}, nil
	}
	var branchModels []models.BranchModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&branchModels).Error; err != nil {
		return nil, err
	}
	return toBranches(branchModels), nil
}

func toBranches(branchModels []models.BranchModel) []*branch.Branch {
	branches := make([]*branch.Branch, len(branchModels))
	for i := range branchModels {
		branches[i] = branchModels[i].ToDomain()
	}
	return branches
}
