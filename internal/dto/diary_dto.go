package dto

import (
	"time"

	"github.com/sleepquest/diary-api/internal/models"
)

// DiaryStatusResponse summarises a participant's progress and whether a new
// entry may be written today.
type DiaryStatusResponse struct {
	Streak             int     `json:"streak"`
	CompletedDays      int     `json:"completed_days"`
	Coins              int     `json:"coins"`
	CanSubmitToday     bool    `json:"can_submit_today"`
	LastSubmissionDate *string `json:"last_submission_date"`
}

// SubmitRequest carries the answers for today's diary entry, keyed by
// question identifier.
type SubmitRequest struct {
	Answers map[string]interface{} `json:"answers" validate:"required"`
}

// SubmitResponse reports the counters after an accepted submission.
type SubmitResponse struct {
	Date          string `json:"date"`
	Streak        int    `json:"streak"`
	CompletedDays int    `json:"completed_days"`
	Coins         int    `json:"coins"`
}

// SubmissionResponse is one historical diary entry.
type SubmissionResponse struct {
	Date        string                 `json:"date"`
	SubmittedAt time.Time              `json:"submitted_at"`
	Answers     map[string]interface{} `json:"answers"`
}

// NewSubmissionResponse maps a submission model to its API shape.
func NewSubmissionResponse(s models.Submission) SubmissionResponse {
	return SubmissionResponse{
		Date:        s.Date,
		SubmittedAt: s.SubmittedAt,
		Answers:     s.Answers,
	}
}

// NewSubmissionResponseSlice maps a slice of submissions.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, s := range submissions {
		responses = append(responses, NewSubmissionResponse(s))
	}
	return responses
}
