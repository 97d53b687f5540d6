package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question lifecycle states. A question is created pending by a teacher and
// reviewed exactly once by an admin; only approved questions reach students.
const (
	QuestionStatusPending  = "pending"
	QuestionStatusApproved = "approved"
	QuestionStatusRejected = "rejected"
)

// Question input types.
const (
	QuestionTypeText   = "text"
	QuestionTypeNumber = "number"
	QuestionTypeRadio  = "radio"
	QuestionTypeYesNo  = "yesno"
	QuestionTypeTime   = "time"
)

// AllClassesMarker in ClassIDs targets a question at every class.
const AllClassesMarker = "all"

// Question is a questionnaire item proposed by a teacher.
type Question struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Text            string                      `gorm:"size:500;not null" json:"text"`
	Emoji           string                      `gorm:"size:8" json:"emoji"`
	Type            string                      `gorm:"size:16;not null" json:"type"`
	Options         datatypes.JSONSlice[string] `json:"options"`
	OptionsEmoji    datatypes.JSONSlice[string] `json:"options_emoji"`
	Unit            string                      `gorm:"size:32" json:"unit"`
	Status          string                      `gorm:"size:16;index;not null;default:pending" json:"status"`
	ClassIDs        datatypes.JSONSlice[string] `json:"class_ids"`
	TargetDay       int                         `gorm:"not null;default:0" json:"target_day"`
	ConditionalOn   string                      `gorm:"size:32" json:"conditional_on"`
	ConditionValues datatypes.JSONSlice[string] `json:"condition_values"`
	CreatedBy       string                      `gorm:"size:36;index" json:"created_by"`
	ReviewedBy      string                      `gorm:"size:36" json:"reviewed_by"`
	ReviewedAt      *time.Time                  `json:"reviewed_at"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// TargetsClass reports whether the question is visible to members of classID.
func (q Question) TargetsClass(classID string) bool {
	for _, id := range q.ClassIDs {
		if id == AllClassesMarker || id == classID {
			return true
		}
	}
	return false
}

// IsReviewed reports whether an admin already decided on this question.
func (q Question) IsReviewed() bool {
	return q.Status != QuestionStatusPending
}
