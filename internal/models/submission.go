package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is one diary entry for one participant on one calendar day. The
// unique index over (participant_code, date) is what makes a same-day
// duplicate a rejected write instead of a second record.
type Submission struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ParticipantCode string            `gorm:"size:6;uniqueIndex:idx_submissions_participant_date;not null" json:"participant_code"`
	Date            string            `gorm:"size:10;uniqueIndex:idx_submissions_participant_date;not null" json:"date"`
	Answers         datatypes.JSONMap `gorm:"type:json" json:"answers"`
	SubmittedAt     time.Time         `json:"submitted_at"`
	CreatedAt       time.Time         `json:"created_at"`
}
