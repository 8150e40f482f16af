// Package hours zaman kayıtlarından günlük, haftalık ve aylık saat toplamlarını
// ve fazla mesai bayraklarını hesaplar.
package hours

import (
	"math"
	"sort"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

type Thresholds struct {
	Daily   float64
	Weekly  float64
	Monthly float64
}

type Employee struct {
	ID     uint
	Number uint
	Name   string
}

type Entry struct {
	EmployeeID uint
	ClockIn    time.Time
	ClockOut   *time.Time
}

type Options struct {
	Location     *time.Location
	WeekStartDay time.Weekday
	Thresholds   Thresholds
	Now          time.Time
}

// Bucket bir gün, hafta veya ay için toplam.
type Bucket struct {
	Key           string  `json:"key"`   // 2024-01-05 | hafta başlangıcı | 2024-01
	Start         string  `json:"start"` // dahil
	End           string  `json:"end"`   // dahil
	Hours         float64 `json:"hours"`
	Overtime      bool    `json:"overtime"`
	OvertimeHours float64 `json:"overtimeHours"`
	Open          bool    `json:"open"`
	EntryCount    int     `json:"entryCount"`
}

type EmployeeReport struct {
	EmployeeID     uint     `json:"employeeId"`
	EmployeeNumber uint     `json:"employeeNumber"`
	Name           string   `json:"name"`
	Daily          []Bucket `json:"daily"`
	Weekly         []Bucket `json:"weekly"`
	Monthly        []Bucket `json:"monthly"`
	TotalHours     float64  `json:"totalHours"`
	Open           bool     `json:"open"`
}

type Report struct {
	Timezone     string           `json:"timezone"`
	WeekStartDay time.Weekday     `json:"weekStartDay"`
	Thresholds   Thresholds       `json:"thresholds"`
	GeneratedAt  time.Time        `json:"generatedAt"`
	Employees    []EmployeeReport `json:"employees"`
	TotalHours   float64          `json:"totalHours"`
}

// Round2 saatleri iki ondalığa yuvarlar.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LocalDay t'nin yerel takvim gününün başlangıcı.
func LocalDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

// WeekStart gün için haftanın ilk günü.
func WeekStart(day time.Time, start time.Weekday) time.Time {
	offset := (int(day.Weekday()) - int(start) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func MonthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}

type accumulator struct {
	start, end time.Time
	total      time.Duration
	open       bool
	count      int
}

type bucketSet map[string]*accumulator

func (b bucketSet) add(key string, start, end time.Time, d time.Duration, open bool) {
	acc, ok := b[key]
	if !ok {
		acc = &accumulator{start: start, end: end}
		b[key] = acc
	}
	acc.total += d
	acc.count++
	acc.open = acc.open || open
}

func (b bucketSet) buckets(threshold float64) []Bucket {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		acc := b[k]
		h := Round2(acc.total.Hours())
		bucket := Bucket{
			Key:        k,
			Start:      acc.start.Format(dayLayout),
			End:        acc.end.Format(dayLayout),
			Hours:      h,
			Open:       acc.open,
			EntryCount: acc.count,
		}
		if threshold > 0 && h > threshold {
			bucket.Overtime = true
			bucket.OvertimeHours = Round2(h - threshold)
		}
		out = append(out, bucket)
	}
	return out
}

// Build raporu oluşturur. Kayıtlar giriş saatinin yerel gününe atanır; açık kayıtlar
// opts.Now'a kadar sayılır.
func Build(opts Options, employees []Employee, entries []Entry) *Report {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	type sets struct {
		daily, weekly, monthly bucketSet
		total                  time.Duration
		open                   bool
	}
	byEmployee := make(map[uint]*sets)

	for _, e := range entries {
		end := now
		open := e.ClockOut == nil
		if !open {
			end = *e.ClockOut
		}
		d := end.Sub(e.ClockIn)
		if d < 0 {
			d = 0
		}

		s, ok := byEmployee[e.EmployeeID]
		if !ok {
			s = &sets{daily: bucketSet{}, weekly: bucketSet{}, monthly: bucketSet{}}
			byEmployee[e.EmployeeID] = s
		}
		day := LocalDay(e.ClockIn, loc)
		week := WeekStart(day, opts.WeekStartDay)
		month := MonthStart(day)

		s.daily.add(day.Format(dayLayout), day, day, d, open)
		s.weekly.add(week.Format(dayLayout), week, week.AddDate(0, 0, 6), d, open)
		s.monthly.add(month.Format(monthLayout), month, month.AddDate(0, 1, -1), d, open)
		s.total += d
		s.open = s.open || open
	}

	known := make(map[uint]Employee, len(employees))
	for _, emp := range employees {
		known[emp.ID] = emp
	}

	report := &Report{
		Timezone:     loc.String(),
		WeekStartDay: opts.WeekStartDay,
		Thresholds:   opts.Thresholds,
		GeneratedAt:  now,
		Employees:    make([]EmployeeReport, 0, len(byEmployee)),
	}
	var grand time.Duration
	for id, s := range byEmployee {
		emp, ok := known[id]
		if !ok {
			emp = Employee{ID: id}
		}
		report.Employees = append(report.Employees, EmployeeReport{
			EmployeeID:     id,
			EmployeeNumber: emp.Number,
			Name:           emp.Name,
			Daily:          s.daily.buckets(opts.Thresholds.Daily),
			Weekly:         s.weekly.buckets(opts.Thresholds.Weekly),
			Monthly:        s.monthly.buckets(opts.Thresholds.Monthly),
			TotalHours:     Round2(s.total.Hours()),
			Open:           s.open,
		})
		grand += s.total
	}
	sort.Slice(report.Employees, func(i, j int) bool {
		a, b := report.Employees[i], report.Employees[j]
		if a.EmployeeNumber != b.EmployeeNumber {
			return a.EmployeeNumber < b.EmployeeNumber
		}
		return a.EmployeeID < b.EmployeeID
	})
	report.TotalHours = Round2(grand.Hours())
	return report
}
