package phorest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout API'nin tarih parametreleri ve alanları için kullandığı biçim.
const DateLayout = "2006-01-02"

type Branch struct {
	BranchID string `json:"branchId"`
	Name     string `json:"name"`
}

type Staff struct {
	StaffID   string `json:"staffId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type Appointment struct {
	AppointmentID   string              `json:"appointmentId"`
	BranchID        string              `json:"branchId"`
	AppointmentDate string              `json:"appointmentDate"`
	StartTime       string              `json:"startTime"`
	Price           decimal.NullDecimal `json:"price"`
	StaffID         string              `json:"staffId"`
	ClientID        string              `json:"clientId"`
	ServiceID       string              `json:"serviceId"`
	ServiceName     string              `json:"serviceName"`
	State           string              `json:"state"`
	ActivationState string              `json:"activationState"`
	Deleted         bool                `json:"deleted"`
}

// IsCanceled iptal edilmiş randevuları tanır.
func (a Appointment) IsCanceled() bool {
	return strings.EqualFold(a.ActivationState, "CANCELED") || strings.EqualFold(a.State, "CANCELED")
}

// Date randevu gününü döndürür; ayrıştırılamazsa false.
func (a Appointment) Date() (time.Time, bool) {
	return ParseDate(a.AppointmentDate)
}

type Client struct {
	ClientID   string `json:"clientId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FirstVisit string `json:"firstVisit"`
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FirstVisitDate ilk ziyaret tarihini döndürür; yoksa veya bozuksa false.
func (c Client) FirstVisitDate() (time.Time, bool) {
	return ParseDate(c.FirstVisit)
}

// ParseDate "2006-01-02" veya RFC3339 zaman damgasının gün kısmını UTC gece yarısı olarak ayrıştırır.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, raw[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type pageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type branchPage struct {
	Embedded struct {
		Branches []Branch `json:"branches"`
	} `json:"_embedded"`
	Page pageInfo `json:"page"`
}

type staffPage struct {
	Embedded struct {
		Staffs []Staff `json:"staffs"`
	} `json:"_embedded"`
	Page pageInfo `json:"page"`
}

type appointmentPage struct {
	Embedded struct {
		Appointments []Appointment `json:"appointments"`
	} `json:"_embedded"`
	Page pageInfo `json:"page"`
}

type clientPage struct {
	Embedded struct {
		Clients []Client `json:"clients"`
	} `json:"_embedded"`
	Page pageInfo `json:"page"`
}
