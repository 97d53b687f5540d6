package models

import "time"

// Staff roles.
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// RoleParticipant is not a staff role; it marks student JWTs in the auth layer.
const RoleParticipant = "participant"

// Staff is a teacher or admin account with email/password credentials, as
// opposed to participants who authenticate with anonymous codes.
type Staff struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	DisplayName  string    `gorm:"size:128" json:"display_name"`
	Role         string    `gorm:"size:16;not null" json:"role"`
	ClassID      string    `gorm:"size:64" json:"class_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
