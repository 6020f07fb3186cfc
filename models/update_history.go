package models

import (
	"time"

	"gorm.io/datatypes"
)

// Mögliche Status-Werte für UpdateHistory.
const (
	UpdateStatusSuccess = "success"
	UpdateStatusFailed  = "failed"
)

// UpdateHistory ist das append-only Protokoll aller Scrape-Läufe. Die Tabelle
// überlebt den kompletten Rebuild.
type UpdateHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UpdateTime time.Time `json:"update_time"`
	Status     string    `json:"status" gorm:"index;not null"`

	ErrorKind    string         `json:"error_kind,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty" gorm:"type:text"`
	Details      datatypes.JSON `json:"details,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (UpdateHistory) TableName() string {
	return "update_history"
}
