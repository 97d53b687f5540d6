package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/models"
)

// ClassRepository defines data operations for classes.
type ClassRepository interface {
	GetByID(ctx context.Context, id string) (models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	ClearTeacher(ctx context.Context, teacherID string) error
	Delete(ctx context.Context, id string) error
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates the repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) GetByID(ctx context.Context, id string) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, "id = ?", id).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) List(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).Order("id").Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) ClearTeacher(ctx context.Context, teacherID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("teacher_id = ?", teacherID).
		Update("teacher_id", "").Error
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Class{}, "id = ?", id).Error
}
