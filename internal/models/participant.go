package models

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultClassID is assigned to participants that were never linked to a class.
const DefaultClassID = "default"

// DefaultInventory lists the cosmetic unlocks every participant starts with.
var DefaultInventory = []string{"skin_default", "weapon_blaster"}

// Participant is a student identified by an anonymous 6-character code. The
// code doubles as login credential and primary key.
type Participant struct {
	Code               string                      `gorm:"primaryKey;size:6" json:"code"`
	ClassID            string                      `gorm:"size:64;index;not null;default:default" json:"class_id"`
	LastSubmissionDate *string                     `gorm:"size:10" json:"last_submission_date"`
	Streak             int                         `gorm:"not null;default:0" json:"streak"`
	CompletedDays      int                         `gorm:"not null;default:0" json:"completed_days"`
	Coins              int                         `gorm:"not null;default:0" json:"coins"`
	Inventory          datatypes.JSONSlice[string] `json:"inventory"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// InventoryItems returns the owned items, guaranteeing the default unlocks are
// always present.
func (p Participant) InventoryItems() []string {
	items := make([]string, 0, len(p.Inventory)+len(DefaultInventory))
	seen := make(map[string]struct{}, len(p.Inventory)+len(DefaultInventory))

	for _, item := range DefaultInventory {
		items = append(items, item)
		seen[item] = struct{}{}
	}

	for _, item := range p.Inventory {
		if _, ok := seen[item]; ok {
			continue
		}
		items = append(items, item)
		seen[item] = struct{}{}
	}

	return items
}
