package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/models"
)

// StaffRepository defines data operations for teacher and admin accounts.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (models.Staff, error)
	GetByEmail(ctx context.Context, email string) (models.Staff, error)
	ListByRole(ctx context.Context, role string) ([]models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, staff *models.Staff) error
	Delete(ctx context.Context, id string) error
}

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		return models.Staff{}, err
	}

	return staff, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).First(&staff, "email = ?", email).Error; err != nil {
		return models.Staff{}, err
	}

	return staff, nil
}

func (r *staffRepository) ListByRole(ctx context.Context, role string) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("display_name").
		Find(&staff).Error; err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepository) Update(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Staff{}, "id = ?", id).Error
}
