package models

import (
	"strconv"

	"gorm.io/gorm"
)

// SettingRiderLinkExpiryHours controls how long a rider pickup link stays
// valid after assignment.
const SettingRiderLinkExpiryHours = "rider_link_expiry_hours"

const DefaultRiderLinkExpiryHours = 96

type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

// GetSettingInt reads an integer setting, falling back when the row is
// missing or malformed.
func GetSettingInt(db *gorm.DB, key string, fallback int) int {
	var setting Setting
	if err := db.First(&setting, "key = ?", key).Error; err != nil {
		return fallback
	}
	v, err := strconv.Atoi(setting.Value)
	if err != nil {
		return fallback
	}
	return v
}
