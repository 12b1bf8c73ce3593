package models

import (
	"time"
)

// AdUnit tracks a placed ad slot and its raw impression/click tallies.
// Revenue math lives outside this service.
type AdUnit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Position    string    `gorm:"size:50" json:"position"` // e.g. "sidebar", "header"
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	AdCode      string    `gorm:"type:text" json:"ad_code"`
	CustomAd    string    `gorm:"type:text" json:"custom_ad"`
	Impressions int       `gorm:"default:0" json:"impressions"`
	Clicks      int       `gorm:"default:0" json:"clicks"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
