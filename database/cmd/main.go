package main

import (
	"flag"
	"os"

	"salonsuite/configs"
	"salonsuite/configs/configslog"
	"salonsuite/database"
)

func main() {
	configs.LoadEnv()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "Veritabanı migrasyonlarını çalıştır")
	seedFlag := flag.Bool("seed", false, "Seeder'ları çalıştır (yönetici, ayarlar, varsayılan iş)")
	flag.Parse()

	configs.InitDB()
	defer configs.CloseDB()

	configslog.SLog.Info("Veritabanı başlatma işlemi çalıştırılıyor...")
	if err := database.Initialize(configs.GetDB(), *migrateFlag, *seedFlag); err != nil {
		configslog.SyncLogger()
		os.Exit(1)
	}
	configslog.SLog.Info("Veritabanı başlatma işlemi tamamlandı.")
}
