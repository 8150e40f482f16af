package models

import "time"

type TimeEntrySource string

const (
	TimeEntrySourceKiosk TimeEntrySource = "kiosk"
	TimeEntrySourceAdmin TimeEntrySource = "admin"
)

// TimeEntry bir giriş/çıkış çifti. ClockOut nil ise kayıt açıktır.
// Çalışan başına tek açık kayıt kuralı servis katmanında uygulanır.
type TimeEntry struct {
	BaseModel
	EmployeeID uint            `gorm:"index;not null" json:"employeeId"`
	ClockIn    time.Time       `gorm:"index;not null" json:"clockIn"`
	ClockOut   *time.Time      `gorm:"index" json:"clockOut,omitempty"`
	JobID      *uint           `gorm:"index" json:"jobId,omitempty"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	Source     TimeEntrySource `gorm:"type:varchar(10);not null;default:'kiosk'" json:"source"`

	Employee *Employee `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"employee,omitempty"`
	Job      *Job      `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"job,omitempty"`
}

func (t TimeEntry) IsOpen() bool {
	return t.ClockOut == nil
}

// Duration açık kayıtlar için now'a kadar geçen süreyi verir.
func (t TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if t.ClockOut != nil {
		end = *t.ClockOut
	}
	if end.Before(t.ClockIn) {
		return 0
	}
	return end.Sub(t.ClockIn)
}
