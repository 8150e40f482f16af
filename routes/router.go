package routes

import (
	"time"

	"salonsuite/configs"
	"salonsuite/configs/configslog"
	home_handlers "salonsuite/handlers/home"
	"salonsuite/middlewares"
	"salonsuite/pkg/commission"
	"salonsuite/pkg/storage"
	"salonsuite/repositories"
	"salonsuite/services"
	"salonsuite/utils"
	"salonsuite/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services rotaların kullandığı servisler. main ve handler testleri aynı kurulumu paylaşır.
type Services struct {
	Auth       services.IAuthService
	Users      services.IUserService
	Commission services.ICommissionService
	Kiosk      services.IKioskService
	Employees  services.IEmployeeService
	Jobs       services.IJobService
	Entries    services.ITimeEntryService
	Settings   services.ITimeClockSettingsService
	Reports    services.IHoursReportService
	Envelopes  services.IEnvelopeService
	Signing    services.ISigningService
	Templates  services.ITemplateService

	MaxUploadBytes int64
	KioskRateLimit int
}

// Options ortamdan okunan uygulama ayarları.
type Options struct {
	CommissionRate     decimal.Decimal
	CommissionCacheTTL time.Duration
	BaseURL            string
	MaxUploadBytes     int64
	KioskRateLimit     int // IP başına dakikalık kiosk isteği
}

const DefaultKioskRateLimit = 30

func OptionsFromEnv() Options {
	rate, err := decimal.NewFromString(configs.GetEnv("COMMISSION_RATE", commission.DefaultRate.String()))
	if err != nil || !rate.IsPositive() {
		configslog.Log.Warn("Geçersiz COMMISSION_RATE, varsayılan kullanılıyor", zap.Error(err))
		rate = commission.DefaultRate
	}
	return Options{
		CommissionRate:     rate,
		CommissionCacheTTL: time.Duration(configs.GetEnvInt("COMMISSION_CACHE_TTL_MINUTES", 60)) * time.Minute,
		BaseURL:            configs.GetEnv("APP_BASE_URL", "http://localhost:"+configs.GetEnv("APP_PORT", "3000")),
		MaxUploadBytes:     int64(configs.GetEnvInt("MAX_UPLOAD_MB", 25)) << 20,
		KioskRateLimit:     configs.GetEnvInt("KIOSK_RATE_LIMIT_PER_MINUTE", DefaultKioskRateLimit),
	}
}

func NewServices(db *gorm.DB, store storage.ObjectStorage, salon services.SalonDataSource, opts Options) *Services {
	return &Services{
		Auth:  services.NewAuthService(db),
		Users: services.NewUserService(db),
		Commission: services.NewCommissionService(salon, repositories.NewCommissionCacheRepository(db), services.CommissionServiceOptions{
			Rate:     opts.CommissionRate,
			CacheTTL: opts.CommissionCacheTTL,
		}),
		Kiosk:     services.NewKioskService(db),
		Employees: services.NewEmployeeService(db),
		Jobs:      services.NewJobService(db),
		Entries:   services.NewTimeEntryService(db),
		Settings:  services.NewTimeClockSettingsService(db),
		Reports:   services.NewHoursReportService(db),
		Envelopes: services.NewEnvelopeService(db, store, services.EnvelopeServiceOptions{
			BaseURL:        opts.BaseURL,
			MaxUploadBytes: opts.MaxUploadBytes,
		}),
		Signing:        services.NewSigningService(db, store),
		Templates:      services.NewTemplateService(db, store),
		MaxUploadBytes: opts.MaxUploadBytes,
		KioskRateLimit: opts.KioskRateLimit,
	}
}

// NewApp şablon motoru, gövde sınırı ve tüm rotalarla fiber uygulamasını kurar.
func NewApp(svc *Services, store *session.Store) *fiber.App {
	bodyLimit := int(svc.MaxUploadBytes) + 1<<20
	if bodyLimit < 4<<20 {
		bodyLimit = 4 << 20
	}
	app := fiber.New(fiber.Config{
		AppName:      "salonsuite",
		Views:        views.NewEngine(!configs.IsProduction()),
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})
	SetupRoutes(app, svc, store)
	return app
}

const internalErrorMessage = "internal server error"

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	msg := err.Error()
	if code >= fiber.StatusInternalServerError {
		// 5xx ayrıntıları yalnızca loga gider.
		configslog.Log.Error("İşlenmeyen hata", zap.String("path", c.Path()), zap.Error(err))
		msg = internalErrorMessage
	}
	if middlewares.WantsJSON(c) {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	return c.Status(code).SendString(msg)
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, svc *Services, store *session.Store) {
	// --- Genel Middleware'ler ---
	app.Use(recoverMiddleware.New()) // Panic yakalama
	app.Use(logger.New())            // İstek loglama
	app.Use(initializeSession(store))

	homeHandler := home_handlers.NewHomeHandler()
	app.Get("/healthz", homeHandler.Health)
	app.Get("/", homeHandler.Root)

	authRequired := middlewares.NewAuthMiddleware(svc.Auth)

	// --- Rota Grupları ---
	registerAuthRoutes(app, svc, authRequired)
	app.Get("/home", authRequired, middlewares.StatusMiddleware, homeHandler.Home)
	registerCommissionRoutes(app, svc, authRequired)
	registerTimeClockRoutes(app, svc, authRequired)
	registerESignRoutes(app, svc, authRequired)
	registerAdminRoutes(app, svc, authRequired)

	// --- 404 Handler ---
	// En sonda, eşleşmeyen tüm rotaları yakalar.
	app.Use(homeHandler.NotFound)
}

// initializeSession oturum deposunu sonraki handler'lar için Locals'a koyar.
func initializeSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(utils.LocalsSessionStoreKey, store)
		return c.Next()
	}
}
