package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/models"
)

// SubmissionRepository defines data operations for diary submissions.
type SubmissionRepository interface {
	ListByParticipant(ctx context.Context, code string) ([]models.Submission, error)
	ListByClass(ctx context.Context, classID string) ([]models.Submission, error)
	ListAll(ctx context.Context) ([]models.Submission, error)
	CountByClassAndDate(ctx context.Context, classID, date string) (int64, error)
	Create(ctx context.Context, submission *models.Submission) error
	DeleteByClass(ctx context.Context, classID string) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) ListByParticipant(ctx context.Context, code string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("participant_code = ?", code).
		Order("date").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByClass(ctx context.Context, classID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Joins("JOIN participants ON participants.code = submissions.participant_code").
		Where("participants.class_id = ?", classID).
		Order("submissions.participant_code, submissions.date").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListAll(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Order("participant_code, date").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) CountByClassAndDate(ctx context.Context, classID, date string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Joins("JOIN participants ON participants.code = submissions.participant_code").
		Where("participants.class_id = ? AND submissions.date = ?", classID, date).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) DeleteByClass(ctx context.Context, classID string) error {
	return r.db.WithContext(ctx).
		Where("participant_code IN (?)",
			r.db.Model(&models.Participant{}).Select("code").Where("class_id = ?", classID),
		).
		Delete(&models.Submission{}).Error
}
