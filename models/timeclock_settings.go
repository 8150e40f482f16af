package models

import "time"

// OvertimeSettings tek satırlık fazla mesai eşikleri (saat).
type OvertimeSettings struct {
	BaseModel
	DailyThresholdHours   float64 `gorm:"type:numeric(6,2);not null;default:8" json:"dailyThresholdHours"`
	WeeklyThresholdHours  float64 `gorm:"type:numeric(6,2);not null;default:40" json:"weeklyThresholdHours"`
	MonthlyThresholdHours float64 `gorm:"type:numeric(6,2);not null;default:160" json:"monthlyThresholdHours"`
}

// LocationSettings tek satırlık lokasyon ayarları; gün/hafta sınırları bu saat dilimine göre hesaplanır.
type LocationSettings struct {
	BaseModel
	LocationName string       `gorm:"type:varchar(150);not null;default:'Main Location'" json:"locationName"`
	Timezone     string       `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	WeekStartDay time.Weekday `gorm:"not null;default:1" json:"weekStartDay"`
}

func DefaultOvertimeSettings() OvertimeSettings {
	return OvertimeSettings{DailyThresholdHours: 8, WeeklyThresholdHours: 40, MonthlyThresholdHours: 160}
}

func DefaultLocationSettings() LocationSettings {
	return LocationSettings{LocationName: "Main Location", Timezone: "UTC", WeekStartDay: time.Monday}
}

// Location saat dilimini yükler, geçersizse UTC döner.
func (l LocationSettings) Location() *time.Location {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
