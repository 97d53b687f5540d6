package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/models"
)

// QuestionRepository defines data operations for questionnaire questions.
// Listing methods return questions in insertion order; the questionnaire flow
// never re-sorts them.
type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Question, error)
	ListByStatus(ctx context.Context, status string) ([]models.Question, error)
	ListByCreator(ctx context.Context, staffID string) ([]models.Question, error)
	CountByCreator(ctx context.Context, staffID string) (int64, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) ListByStatus(ctx context.Context, status string) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) ListByCreator(ctx context.Context, staffID string) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", staffID).
		Order("id").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) CountByCreator(ctx context.Context, staffID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("created_by = ?", staffID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}
