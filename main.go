package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // saat dilimi veritabanı olmayan imajlar için

	"salonsuite/configs"
	"salonsuite/configs/configslog"
	"salonsuite/pkg/phorest"
	"salonsuite/pkg/storage"
	"salonsuite/routes"

	"go.uber.org/zap"
)

func main() {
	configs.LoadEnv()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	configs.InitDB()
	defer configs.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewFromEnv(ctx)
	if err != nil {
		configslog.Log.Fatal("Nesne deposu başlatılamadı", zap.Error(err))
	}

	salon, err := phorest.NewClient(phorest.Config{
		BaseURL:    configs.GetEnv("PHOREST_BASE_URL", ""),
		BusinessID: configs.GetEnv("PHOREST_BUSINESS_ID", ""),
		Username:   configs.GetEnv("PHOREST_USERNAME", ""),
		Password:   configs.GetEnv("PHOREST_PASSWORD", ""),
		PageSize:   configs.GetEnvInt("PHOREST_PAGE_SIZE", phorest.DefaultPageSize),
		Timeout:    time.Duration(configs.GetEnvInt("PHOREST_TIMEOUT_SECONDS", 30)) * time.Second,
	})
	if err != nil {
		configslog.Log.Fatal("Phorest istemcisi oluşturulamadı", zap.Error(err))
	}

	svc := routes.NewServices(configs.GetDB(), store, salon, routes.OptionsFromEnv())
	app := routes.NewApp(svc, configs.SetupSession())

	addr := ":" + configs.GetEnv("APP_PORT", "3000")
	go func() {
		configslog.SLog.Infof("Sunucu %s adresinde dinleniyor", addr)
		if err := app.Listen(addr); err != nil {
			configslog.Log.Error("Sunucu durdu", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	configslog.SLog.Info("Kapatma sinyali alındı, sunucu kapatılıyor...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
	}
}
