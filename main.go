package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/novus318/resoi.server/config"
	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/router"
	"github.com/novus318/resoi.server/services"
	"github.com/novus318/resoi.server/utils"
	"github.com/novus318/resoi.server/ws"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	utils.JWTSecret = []byte(cfg.JWTSecret)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	autoMigrate(db)

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	gateway := services.NewPhonePeService(&services.PhonePeConfig{
		MerchantID: cfg.MerchantID,
		SaltKey:    cfg.SaltKey,
		SaltIndex:  cfg.SaltIndex,
		BaseURL:    cfg.GatewayBaseURL,
		AppBaseURL: cfg.AppBaseURL,
	})

	svc := services.NewOrderService(db, gateway, hub)

	reconciler := services.NewPaymentReconciler(svc, cfg.ReconcileInterval)
	reconciler.Start()
	defer reconciler.Stop()

	r := router.SetupRouter(db, svc, hub)

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.AdminUser{},
		&models.Table{},
		&models.Order{},
		&models.CartItem{},
		&models.Staff{},
		&models.StaffTransaction{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
