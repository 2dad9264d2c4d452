package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/carvio/carvio-backend/internal/config"
	"github.com/carvio/carvio-backend/internal/database"
	"github.com/carvio/carvio-backend/internal/handlers"
	"github.com/carvio/carvio-backend/internal/middleware"
	"github.com/carvio/carvio-backend/internal/routes"
	"github.com/carvio/carvio-backend/internal/services"
	"github.com/carvio/carvio-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// The signing key is the one piece of configuration the process
	// cannot run without.
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required. Generate one with: openssl rand -base64 32")
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoClient, db, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.DisconnectMongo(mongoClient)

	// Ensure unique name/email indexes and listing search indexes
	indexCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := store.EnsureUserIndexes(indexCtx, db); err != nil {
		log.Fatal("Failed to ensure user indexes: ", err)
	}
	if err := store.EnsureCarIndexes(indexCtx, db); err != nil {
		log.Fatal("Failed to ensure car indexes: ", err)
	}
	log.Println("✅ MongoDB indexes ensured")

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer redisClient.Close()

	// Connect to PostgreSQL (abuse audit)
	log.Printf("Connecting to PostgreSQL...")
	pg, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL: ", err)
	}
	defer pg.Close()

	// Initialize Cloudinary service (optional: uploads disabled without it)
	var uploads *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		uploads, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Image uploads will not be available")
			uploads = nil
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Image uploads will not be available")
	}

	// Mailer (optional: welcome mail dropped without SMTP config)
	var mailer services.Mailer = services.NewDisabledMailer()
	if cfg.SMTPHost != "" && cfg.SMTPFrom != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
		log.Println("✅ SMTP mailer configured")
	} else {
		log.Println("Warning: SMTP not configured. Outbound mail will be dropped")
	}

	// Abuse audit: violations recorded to Postgres, swept hourly
	audit := services.NewAuditService(pg)
	audit.StartCleanup(1*time.Hour, 6*time.Hour)
	log.Println("✅ Violation cleanup service started (removes violations older than 6 hours)")

	// Wire components; everything is constructed here and injected
	users := store.NewMongoUserStore(db)
	cars := store.NewMongoCarStore(db)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	favorites := services.NewFavoriteService(users, cars)
	cache := services.NewCacheService(redisClient)
	carService := services.NewCarService(cars, cache)

	h := handlers.New(users, carService, favorites, tokens, mailer, uploads,
		cfg.SessionTTL, cfg.IsProduction())
	gate := middleware.NewSessionGate(tokens, users)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders -> GlobalRateLimit -> LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimit(redisClient, audit))
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h, gate)

	log.Println("📋 Registered routes:")
	log.Println("  GET   /health")
	log.Println("  POST  /signup")
	log.Println("  POST  /login")
	log.Println("  POST  /logout")
	log.Println("  GET   /getUser")
	log.Println("  PATCH /favoriteCar/{carID}")
	log.Println("  GET   /favorites")
	log.Println("  GET   /cars")
	log.Println("  POST  /cars")
	log.Println("  GET   /cars/{carID}")

	log.Printf("🚀 Carvio backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
