package dto

import (
	"time"

	"github.com/sleepquest/diary-api/internal/models"
)

// QuestionCreateRequest is a teacher's proposal for a new questionnaire item.
type QuestionCreateRequest struct {
	Text            string   `json:"text" validate:"required,max=500"`
	Emoji           string   `json:"emoji" validate:"omitempty,max=8"`
	Type            string   `json:"type" validate:"required,oneof=text number radio yesno time"`
	Options         []string `json:"options" validate:"omitempty,max=6,dive,required"`
	OptionsEmoji    []string `json:"options_emoji" validate:"omitempty,max=6"`
	Unit            string   `json:"unit" validate:"omitempty,max=32"`
	ClassIDs        []string `json:"class_ids" validate:"required,min=1,dive,required"`
	TargetDay       int      `json:"target_day" validate:"omitempty,min=0"`
	ConditionalOn   string   `json:"conditional_on" validate:"omitempty,max=32"`
	ConditionValues []string `json:"condition_values" validate:"omitempty,dive,required"`
}

// QuestionReviewRequest records an admin decision on a pending question.
type QuestionReviewRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// QuestionResponse is the API shape of a questionnaire item.
type QuestionResponse struct {
	ID              uint       `json:"id"`
	Text            string     `json:"text"`
	Emoji           string     `json:"emoji"`
	Type            string     `json:"type"`
	Options         []string   `json:"options,omitempty"`
	OptionsEmoji    []string   `json:"options_emoji,omitempty"`
	Unit            string     `json:"unit,omitempty"`
	Status          string     `json:"status"`
	ClassIDs        []string   `json:"class_ids"`
	TargetDay       int        `json:"target_day,omitempty"`
	ConditionalOn   string     `json:"conditional_on,omitempty"`
	ConditionValues []string   `json:"condition_values,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewQuestionResponse maps a question model to its API shape.
func NewQuestionResponse(q models.Question) QuestionResponse {
	return QuestionResponse{
		ID:              q.ID,
		Text:            q.Text,
		Emoji:           q.Emoji,
		Type:            q.Type,
		Options:         q.Options,
		OptionsEmoji:    q.OptionsEmoji,
		Unit:            q.Unit,
		Status:          q.Status,
		ClassIDs:        q.ClassIDs,
		TargetDay:       q.TargetDay,
		ConditionalOn:   q.ConditionalOn,
		ConditionValues: q.ConditionValues,
		CreatedBy:       q.CreatedBy,
		ReviewedAt:      q.ReviewedAt,
		CreatedAt:       q.CreatedAt,
	}
}

// NewQuestionResponseSlice maps a slice of questions preserving order.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, NewQuestionResponse(q))
	}
	return responses
}
