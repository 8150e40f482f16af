package models

// Employee saat kartı kiosku kullanan çalışan. EmployeeNumber otomatik artar.
type Employee struct {
	BaseModel
	EmployeeNumber uint   `gorm:"uniqueIndex;not null" json:"employeeNumber"`
	FirstName      string `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName       string `gorm:"type:varchar(100);not null" json:"lastName"`
	PinHash        string `gorm:"type:varchar(255);not null" json:"-"`
	PinLookup      string `gorm:"type:varchar(64);index" json:"-"` // HMAC-SHA256(PIN), arama için
	IsActive       bool   `gorm:"default:true;index" json:"isActive"`
	DefaultJobID   *uint  `gorm:"index" json:"defaultJobId,omitempty"`

	DefaultJob *Job `gorm:"foreignKey:DefaultJobID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"defaultJob,omitempty"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
