package models

import "time"

// Class groups participants under one teacher. The ID is the normalized class
// name (class_<number>).
type Class struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	TeacherID string    `gorm:"size:36;index" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
