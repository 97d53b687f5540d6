package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/models"
)

// ParticipantUpdate carries the counter fields changed by an accepted
// submission. Fields left nil are not touched (partial-field merge).
type ParticipantUpdate struct {
	LastSubmissionDate *string
	Streak             *int
	CompletedDays      *int
	Coins              *int
	Inventory          []string
}

// ParticipantRepository defines data operations for participants.
type ParticipantRepository interface {
	GetByCode(ctx context.Context, code string) (models.Participant, error)
	ListByClass(ctx context.Context, classID string) ([]models.Participant, error)
	ListCodes(ctx context.Context) ([]string, error)
	Create(ctx context.Context, participant *models.Participant) error
	CreateBatch(ctx context.Context, participants []models.Participant) error
	Update(ctx context.Context, code string, update ParticipantUpdate) error
	DeleteByClass(ctx context.Context, classID string) error
}

type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository instantiates the repository.
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) GetByCode(ctx context.Context, code string) (models.Participant, error) {
	var participant models.Participant
	if err := r.db.WithContext(ctx).First(&participant, "code = ?", code).Error; err != nil {
		return models.Participant{}, err
	}

	return participant, nil
}

func (r *participantRepository) ListByClass(ctx context.Context, classID string) ([]models.Participant, error) {
	var participants []models.Participant
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("code").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *participantRepository) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}

	return codes, nil
}

func (r *participantRepository) Create(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *participantRepository) CreateBatch(ctx context.Context, participants []models.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&participants).Error
}

func (r *participantRepository) Update(ctx context.Context, code string, update ParticipantUpdate) error {
	fields := map[string]interface{}{}
	if update.LastSubmissionDate != nil {
		fields["last_submission_date"] = *update.LastSubmissionDate
	}
	if update.Streak != nil {
		fields["streak"] = *update.Streak
	}
	if update.CompletedDays != nil {
		fields["completed_days"] = *update.CompletedDays
	}
	if update.Coins != nil {
		fields["coins"] = *update.Coins
	}
	if update.Inventory != nil {
		fields["inventory"] = datatypes.JSONSlice[string](update.Inventory)
	}

	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("code = ?", code).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *participantRepository) DeleteByClass(ctx context.Context, classID string) error {
	return r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Delete(&models.Participant{}).Error
}
