// Package commission ilk ziyaret komisyonlarını şube → stilist → müşteri → hizmet
// hiyerarşisinde toplar. Ağ veya veritabanı erişimi yoktur.
package commission

import (
	"sort"
	"strings"
	"time"

	"salonsuite/pkg/phorest"

	"github.com/shopspring/decimal"
)

// DefaultRate ilk ziyaret komisyon oranı (%20).
var DefaultRate = decimal.RequireFromString("0.20")

const unknownStylist = "Unknown stylist"

// Input toplama için gereken ham veriler.
type Input struct {
	Start        time.Time
	End          time.Time
	Rate         decimal.Decimal
	Branches     []phorest.Branch
	Staff        map[string][]phorest.Staff // branchID -> personel
	Appointments []phorest.Appointment
	Clients      []phorest.Client
}

type ServiceLine struct {
	AppointmentID string          `json:"appointmentId"`
	ServiceID     string          `json:"serviceId,omitempty"`
	ServiceName   string          `json:"serviceName"`
	Date          string          `json:"date"`
	Price         decimal.Decimal `json:"price"`
	Commission    decimal.Decimal `json:"commission"`
}

type ClientTotal struct {
	ClientID   string          `json:"clientId"`
	Name       string          `json:"name"`
	FirstVisit string          `json:"firstVisit"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
	Services   []ServiceLine   `json:"services"`
}

type StylistTotal struct {
	StaffID    string          `json:"staffId"`
	Name       string          `json:"name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
	Clients    []ClientTotal   `json:"clients"`
}

type BranchTotal struct {
	BranchID   string          `json:"branchId"`
	Name       string          `json:"name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
	Stylists   []StylistTotal  `json:"stylists"`
}

// Result iç içe toplama sonucu; önbellek satırına JSON olarak yazılır.
type Result struct {
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	Rate             decimal.Decimal `json:"rate"`
	GeneratedAt      time.Time       `json:"generatedAt"`
	Cached           bool            `json:"cached"`
	Revenue          decimal.Decimal `json:"revenue"`
	Commission       decimal.Decimal `json:"commission"`
	AppointmentCount int             `json:"appointmentCount"`
	ClientCount      int             `json:"clientCount"`
	Branches         []BranchTotal   `json:"branches"`
}

// Billable iptal, silinmiş, müşterisiz veya fiyatsız randevuları eler.
func Billable(a phorest.Appointment) bool {
	if a.Deleted || a.IsCanceled() || strings.TrimSpace(a.ClientID) == "" {
		return false
	}
	return a.Price.Valid && a.Price.Decimal.IsPositive()
}

// CommissionFor fiyat × oran, kuruşa yuvarlanmış.
func CommissionFor(price, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(rate).Round(2)
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

// QualifyingClients ilk ziyareti [start, end] içinde olan müşterileri döndürür.
// İlk ziyaret tarihi olmayan müşteriler atlanır.
func QualifyingClients(clients []phorest.Client, start, end time.Time) map[string]phorest.Client {
	out := make(map[string]phorest.Client)
	for _, c := range clients {
		first, ok := c.FirstVisitDate()
		if !ok {
			continue
		}
		if inRange(first, start, end) {
			out[c.ClientID] = c
		}
	}
	return out
}

// Aggregate uygun randevuları toplar. Sonuç sıralaması deterministiktir.
func Aggregate(in Input, now time.Time) *Result {
	rate := in.Rate
	if rate.IsZero() {
		rate = DefaultRate
	}
	qualifying := QualifyingClients(in.Clients, in.Start, in.End)

	branchNames := make(map[string]string, len(in.Branches))
	for _, b := range in.Branches {
		branchNames[b.BranchID] = b.Name
	}
	staffNames := make(map[string]string)
	for _, list := range in.Staff {
		for _, s := range list {
			staffNames[s.StaffID] = s.FullName()
		}
	}

	type clientAcc struct {
		total ClientTotal
	}
	type stylistAcc struct {
		total   StylistTotal
		clients map[string]*clientAcc
	}
	type branchAcc struct {
		total    BranchTotal
		stylists map[string]*stylistAcc
	}

	branches := make(map[string]*branchAcc)
	result := &Result{
		StartDate:   in.Start.Format(phorest.DateLayout),
		EndDate:     in.End.Format(phorest.DateLayout),
		Rate:        rate,
		GeneratedAt: now.UTC(),
		Revenue:     decimal.Zero,
		Commission:  decimal.Zero,
		Branches:    []BranchTotal{},
	}
	seenClients := make(map[string]bool)

	for _, a := range in.Appointments {
		if !Billable(a) {
			continue
		}
		client, ok := qualifying[a.ClientID]
		if !ok {
			continue
		}
		date, ok := a.Date()
		if !ok || !inRange(date, in.Start, in.End) {
			continue
		}

		price := a.Price.Decimal
		commission := CommissionFor(price, rate)

		b, ok := branches[a.BranchID]
		if !ok {
			name := branchNames[a.BranchID]
			if name == "" {
				name = a.BranchID
			}
			b = &branchAcc{
				total:    BranchTotal{BranchID: a.BranchID, Name: name, Revenue: decimal.Zero, Commission: decimal.Zero},
				stylists: make(map[string]*stylistAcc),
			}
			branches[a.BranchID] = b
		}

		s, ok := b.stylists[a.StaffID]
		if !ok {
			name := staffNames[a.StaffID]
			if name == "" {
				name = unknownStylist
			}
			s = &stylistAcc{
				total:   StylistTotal{StaffID: a.StaffID, Name: name, Revenue: decimal.Zero, Commission: decimal.Zero},
				clients: make(map[string]*clientAcc),
			}
			b.stylists[a.StaffID] = s
		}

		c, ok := s.clients[a.ClientID]
		if !ok {
			first, _ := client.FirstVisitDate()
			c = &clientAcc{total: ClientTotal{
				ClientID:   client.ClientID,
				Name:       client.FullName(),
				FirstVisit: first.Format(phorest.DateLayout),
				Revenue:    decimal.Zero,
				Commission: decimal.Zero,
			}}
			s.clients[a.ClientID] = c
		}

		c.total.Services = append(c.total.Services, ServiceLine{
			AppointmentID: a.AppointmentID,
			ServiceID:     a.ServiceID,
			ServiceName:   a.ServiceName,
			Date:          date.Format(phorest.DateLayout),
			Price:         price,
			Commission:    commission,
		})
		c.total.Revenue = c.total.Revenue.Add(price)
		c.total.Commission = c.total.Commission.Add(commission)
		s.total.Revenue = s.total.Revenue.Add(price)
		s.total.Commission = s.total.Commission.Add(commission)
		b.total.Revenue = b.total.Revenue.Add(price)
		b.total.Commission = b.total.Commission.Add(commission)
		result.Revenue = result.Revenue.Add(price)
		result.Commission = result.Commission.Add(commission)
		result.AppointmentCount++
		seenClients[a.ClientID] = true
	}
	result.ClientCount = len(seenClients)

	for _, b := range branches {
		for _, s := range b.stylists {
			for _, c := range s.clients {
				sort.SliceStable(c.total.Services, func(i, j int) bool {
					x, y := c.total.Services[i], c.total.Services[j]
					if x.Date != y.Date {
						return x.Date < y.Date
					}
					if x.ServiceName != y.ServiceName {
						return x.ServiceName < y.ServiceName
					}
					return x.AppointmentID < y.AppointmentID
				})
				s.total.Clients = append(s.total.Clients, c.total)
			}
			sort.Slice(s.total.Clients, func(i, j int) bool {
				return byNameThenID(s.total.Clients[i].Name, s.total.Clients[i].ClientID, s.total.Clients[j].Name, s.total.Clients[j].ClientID)
			})
			b.total.Stylists = append(b.total.Stylists, s.total)
		}
		sort.Slice(b.total.Stylists, func(i, j int) bool {
			return byNameThenID(b.total.Stylists[i].Name, b.total.Stylists[i].StaffID, b.total.Stylists[j].Name, b.total.Stylists[j].StaffID)
		})
		result.Branches = append(result.Branches, b.total)
	}
	sort.Slice(result.Branches, func(i, j int) bool {
		return byNameThenID(result.Branches[i].Name, result.Branches[i].BranchID, result.Branches[j].Name, result.Branches[j].BranchID)
	})
	return result
}

func byNameThenID(nameA, idA, nameB, idB string) bool {
	if nameA != nameB {
		return nameA < nameB
	}
	return idA < idB
}
