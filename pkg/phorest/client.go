// Package phorest salon yönetim API'sinin (Phorest third-party API) ihtiyaç duyulan
// uçları için ince bir istemcidir. Tüm çağrılar sıralıdır; sayfalama ve toplu
// sorgu sınırları istemci içinde uygulanır.
package phorest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"salonsuite/configs/configslog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	DefaultPageSize       = 100
	MaxClientBatchSize    = 100
	MaxAppointmentWindow  = 31 // gün, uç başına izin verilen en uzun aralık
	defaultRequestTimeout = 30 * time.Second
)

var (
	ErrRequestBudgetExceeded = errors.New("phorest: istek bütçesi aşıldı")
	ErrUnexpectedStatus      = errors.New("phorest: beklenmeyen HTTP durumu")
)

// Config istemci ayarları.
type Config struct {
	BaseURL    string // örn. https://api-gateway-eu.phorest.com/third-party-api-server/api
	BusinessID string
	Username   string
	Password   string
	PageSize   int
	Timeout    time.Duration
}

// APIClient Phorest HTTP istemcisi.
type APIClient struct {
	cfg Config
}

func NewClient(cfg Config) (*APIClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("phorest: base URL zorunlu")
	}
	if strings.TrimSpace(cfg.BusinessID) == "" {
		return nil, errors.New("phorest: business ID zorunlu")
	}
	if cfg.PageSize <= 0 || cfg.PageSize > DefaultPageSize {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &APIClient{cfg: cfg}, nil
}

type budgetKey struct{}

type requestBudget struct {
	remaining int
}

// WithRequestBudget bir hesaplama boyunca yapılabilecek en fazla istek sayısını context'e bağlar.
func WithRequestBudget(ctx context.Context, max int) context.Context {
	return context.WithValue(ctx, budgetKey{}, &requestBudget{remaining: max})
}

func takeBudget(ctx context.Context) error {
	b, ok := ctx.Value(budgetKey{}).(*requestBudget)
	if !ok {
		return nil
	}
	if b.remaining <= 0 {
		return ErrRequestBudgetExceeded
	}
	b.remaining--
	return nil
}

func (c *APIClient) businessPath(parts ...string) string {
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, "business", url.PathEscape(c.cfg.BusinessID))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return c.cfg.BaseURL + "/" + strings.Join(escaped, "/")
}

// get tek bir GET isteği yapar ve JSON gövdesini out'a çözer.
func (c *APIClient) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := takeBudget(ctx); err != nil {
		return err
	}

	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	agent := fiber.Get(target)
	agent.BasicAuth(c.cfg.Username, c.cfg.Password)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Timeout(c.cfg.Timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		configslog.Log.Error("Phorest isteği başarısız", zap.String("endpoint", endpoint), zap.Errors("errors", errs))
		return fmt.Errorf("phorest: istek başarısız: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		configslog.Log.Warn("Phorest beklenmeyen durum döndürdü", zap.String("endpoint", endpoint), zap.Int("status", code))
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("phorest: yanıt çözülemedi: %w", err)
	}
	return nil
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

func lastPage(p pageInfo) bool {
	return p.TotalPages == 0 || p.Number+1 >= p.TotalPages
}

// ListBranches işletmenin tüm şubelerini döndürür.
func (c *APIClient) ListBranches(ctx context.Context) ([]Branch, error) {
	var branches []Branch
	for page := 0; ; page++ {
		var resp branchPage
		if err := c.get(ctx, c.businessPath("branch"), pageQuery(page, c.cfg.PageSize), &resp); err != nil {
			return nil, err
		}
		branches = append(branches, resp.Embedded.Branches...)
		if lastPage(resp.Page) {
			return branches, nil
		}
	}
}

// ListStaff şubedeki personeli döndürür.
func (c *APIClient) ListStaff(ctx context.Context, branchID string) ([]Staff, error) {
	var staff []Staff
	for page := 0; ; page++ {
		var resp staffPage
		if err := c.get(ctx, c.businessPath("branch", branchID, "staff"), pageQuery(page, c.cfg.PageSize), &resp); err != nil {
			return nil, err
		}
		staff = append(staff, resp.Embedded.Staffs...)
		if lastPage(resp.Page) {
			return staff, nil
		}
	}
}

// ListAppointments [from, to] (dahil) aralığındaki randevuları döndürür.
// Aralık 31 günlük pencerelere bölünür.
func (c *APIClient) ListAppointments(ctx context.Context, branchID string, from, to time.Time) ([]Appointment, error) {
	var appointments []Appointment
	for _, w := range SplitRange(from, to, MaxAppointmentWindow) {
		for page := 0; ; page++ {
			q := pageQuery(page, c.cfg.PageSize)
			q.Set("from_date", w[0].Format(DateLayout))
			q.Set("to_date", w[1].Format(DateLayout))

			var resp appointmentPage
			if err := c.get(ctx, c.businessPath("branch", branchID, "appointment"), q, &resp); err != nil {
				return nil, err
			}
			for _, a := range resp.Embedded.Appointments {
				if a.BranchID == "" {
					a.BranchID = branchID
				}
				appointments = append(appointments, a)
			}
			if lastPage(resp.Page) {
				break
			}
		}
	}
	return appointments, nil
}

// GetClients müşterileri en fazla 100'lük gruplar halinde getirir.
func (c *APIClient) GetClients(ctx context.Context, clientIDs []string) ([]Client, error) {
	var clients []Client
	for _, batch := range Chunk(clientIDs, MaxClientBatchSize) {
		q := url.Values{}
		for _, id := range batch {
			q.Add("client_id", id)
		}
		q.Set("size", strconv.Itoa(MaxClientBatchSize))

		var resp clientPage
		if err := c.get(ctx, c.businessPath("client-batch"), q, &resp); err != nil {
			return nil, err
		}
		clients = append(clients, resp.Embedded.Clients...)
	}
	return clients, nil
}

// SplitRange [from, to] aralığını en fazla maxDays günlük ardışık pencerelere böler.
func SplitRange(from, to time.Time, maxDays int) [][2]time.Time {
	if to.Before(from) || maxDays <= 0 {
		return nil
	}
	var windows [][2]time.Time
	start := from
	for !start.After(to) {
		end := start.AddDate(0, 0, maxDays-1)
		if end.After(to) {
			end = to
		}
		windows = append(windows, [2]time.Time{start, end})
		start = end.AddDate(0, 0, 1)
	}
	return windows
}

// Chunk değerleri size uzunluğunda gruplara ayırır.
func Chunk(values []string, size int) [][]string {
	if size <= 0 {
		return nil
	}
	var out [][]string
	for i := 0; i < len(values); i += size {
		end := i + size
		if end > len(values) {
			end = len(values)
		}
		out = append(out, values[i:end])
	}
	return out
}
