package handlers

import (
	"fmt"
	"strconv"
	"time"

	"salonsuite/middlewares"
	"salonsuite/pkg/queryparams"
	"salonsuite/pkg/xlsxexport"
	"salonsuite/repositories"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler çalışan, iş, kayıt, ayar ve rapor yönetimi. Yalnızca yöneticiler.
type AdminHandler struct {
	employees services.IEmployeeService
	jobs      services.IJobService
	entries   services.ITimeEntryService
	settings  services.ITimeClockSettingsService
	reports   services.IHoursReportService
}

func NewAdminHandler(
	employees services.IEmployeeService,
	jobs services.IJobService,
	entries services.ITimeEntryService,
	settings services.ITimeClockSettingsService,
	reports services.IHoursReportService,
) *AdminHandler {
	return &AdminHandler{employees: employees, jobs: jobs, entries: entries, settings: settings, reports: reports}
}

func actorID(c *fiber.Ctx) uint {
	if user, ok := middlewares.CurrentUser(c); ok {
		return user.ID
	}
	return 0
}

// --- Çalışanlar ---

func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("employee_number")
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	result, err := h.employees.List(c.UserContext(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *AdminHandler) GetEmployee(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	emp, err := h.employees.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(emp)
}

func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	var input services.EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	emp, err := h.employees.Create(c.UserContext(), actorID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(emp)
}

func (h *AdminHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var input services.EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	emp, err := h.employees.Update(c.UserContext(), actorID(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(emp)
}

func (h *AdminHandler) DeactivateEmployee(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.employees.Deactivate(c.UserContext(), actorID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- İşler ---

func (h *AdminHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobs.List(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": jobs})
}

func (h *AdminHandler) CreateJob(c *fiber.Ctx) error {
	var input services.JobInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	job, err := h.jobs.Create(c.UserContext(), actorID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *AdminHandler) UpdateJob(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var input services.JobInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	job, err := h.jobs.Update(c.UserContext(), actorID(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(job)
}

func (h *AdminHandler) DeactivateJob(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.jobs.Deactivate(c.UserContext(), actorID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Kayıtlar ---

// parseInstant RFC3339 veya YYYY-MM-DD (UTC gece yarısı) kabul eder.
func parseInstant(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a date or RFC3339 timestamp", raw)
	}
	return &t, nil
}

func optionalEmployeeID(c *fiber.Ctx) (*uint, error) {
	raw := c.Query("employeeId")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("invalid employeeId")
	}
	id := uint(v)
	return &id, nil
}

func (h *AdminHandler) ListEntries(c *fiber.Ctx) error {
	var filter repositories.TimeEntryFilter
	var err error
	if filter.EmployeeID, err = optionalEmployeeID(c); err != nil {
		return badRequest(c, err.Error())
	}
	if filter.From, err = parseInstant(c.Query("from")); err != nil {
		return badRequest(c, err.Error())
	}
	if filter.To, err = parseInstant(c.Query("to")); err != nil {
		return badRequest(c, err.Error())
	}
	filter.OnlyOpen = c.QueryBool("open", false)
	entries, err := h.entries.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": entries})
}

func (h *AdminHandler) CreateEntry(c *fiber.Ctx) error {
	var input services.TimeEntryInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	entry, err := h.entries.Create(c.UserContext(), actorID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *AdminHandler) UpdateEntry(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var input services.TimeEntryInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	entry, err := h.entries.Update(c.UserContext(), actorID(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func (h *AdminHandler) DeleteEntry(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.entries.Delete(c.UserContext(), actorID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Ayarlar ---

func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

func (h *AdminHandler) UpdateOvertime(c *fiber.Ctx) error {
	var input services.OvertimeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	overtime, err := h.settings.UpdateOvertime(c.UserContext(), actorID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overtime)
}

func (h *AdminHandler) UpdateLocation(c *fiber.Ctx) error {
	var input services.LocationInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	location, err := h.settings.UpdateLocation(c.UserContext(), actorID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(location)
}

// --- Raporlar ---

func (h *AdminHandler) HoursReport(c *fiber.Ctx) error {
	employeeID, err := optionalEmployeeID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	report, err := h.reports.HoursReport(c.UserContext(), c.Query("from"), c.Query("to"), employeeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *AdminHandler) ExportHoursReport(c *fiber.Ctx) error {
	employeeID, err := optionalEmployeeID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	from, to := c.Query("from"), c.Query("to")
	data, err := h.reports.ExportHoursReport(c.UserContext(), from, to, employeeID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxexport.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="hours_%s_%s.xlsx"`, from, to))
	return c.Send(data)
}
