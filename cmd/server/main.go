package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"adaayam_back_end/internal/config"
	"adaayam_back_end/internal/database"
	"adaayam_back_end/internal/handlers"
	"adaayam_back_end/internal/middleware"
	"adaayam_back_end/internal/orders"
	"adaayam_back_end/internal/payment"
	"adaayam_back_end/internal/repository"
	"adaayam_back_end/internal/routes"
	"adaayam_back_end/internal/services"
	"adaayam_back_end/internal/utils"
)

func main() {
	config.Load()
	cfg := config.New()

	if cfg.MidtransServerKey == "" {
		log.Fatal("❌ Impossible d'initialiser Midtrans : clé serveur manquante")
	}

	conns, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Échec connexion bases de données: %v", err)
	}
	defer conns.Close()

	// Dépendances explicites, construites une fois puis injectées.
	userRepo := repository.NewUserRepository(conns)
	productRepo := repository.NewProductRepository(conns)
	orderRepo := repository.NewOrderRepository(conns)
	auditRepo := repository.NewAuditRepository(conns)

	gateway := payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction)
	var mailer orders.Mailer
	if cfg.SMTPHost != "" {
		mailer = utils.NewSMTPMailer(cfg)
	} else {
		log.Println("⚠️ SMTP non configuré — e-mails de confirmation désactivés")
	}

	manager := orders.NewManager(orderRepo, productRepo, userRepo, gateway, mailer)

	productIndex := services.NewProductIndex(conns.Elastic)
	imageStore := services.NewImageStore(conns.MinIO, cfg.MinIOEndpoint, cfg.MinIOBucket)

	auth := middleware.NewAuth(cfg.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(conns.Redis)

	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(userRepo, cfg.JWTSecret),
		Products:   handlers.NewProductHandler(productRepo, productIndex, imageStore, auditRepo, conns.Redis),
		Cart:       handlers.NewCartHandler(conns.Redis),
		Orders:     handlers.NewOrderHandler(manager, conns.Redis),
		AdminOrder: handlers.NewAdminOrderHandler(manager, auditRepo),
		Webhook:    handlers.NewWebhookHandler(manager),
	}

	r := gin.Default()
	routes.RegisterRoutes(r, auth, rateLimiter, h)

	log.Println("🚀 Serveur Ada Ayam lancé sur le port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Serveur arrêté: %v", err)
	}
}
