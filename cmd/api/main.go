package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/telehealth-companion/booking-service/internal/adapters/handler"
	"github.com/telehealth-companion/booking-service/internal/adapters/middleware"
	"github.com/telehealth-companion/booking-service/internal/adapters/repository"
	"github.com/telehealth-companion/booking-service/internal/adapters/verify"
	"github.com/telehealth-companion/booking-service/internal/config"
	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/services"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Authenticated with Redis successfully")

	accountRepo := repository.NewAccountRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	tokenStore := repository.NewRedisTokenStore(redisClient)

	accountService := services.NewAccountService(accountRepo, services.PlaintextVerifier{}, cfg.JWTPrivateKey)
	bookingService := services.NewBookingService(bookingRepo, accountRepo)
	calendarService := services.NewCalendarService()
	botVerifier := verify.NewRecaptchaVerifier(cfg.RecaptchaSecretKey)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, tokenStore)

	accountHandler := handler.NewAccountHandler(accountService, botVerifier, tokenStore)
	bookingHandler := handler.NewBookingHandler(bookingService, calendarService, botVerifier)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	patient := []domain.Kind{domain.KindPatient}
	doctor := []domain.Kind{domain.KindDoctor}
	anyKind := []domain.Kind{domain.KindPatient, domain.KindDoctor}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Accounts
	mux.HandleFunc("POST /api/users/signup", accountHandler.SignupPatient)
	mux.HandleFunc("POST /api/users/login", accountHandler.LoginPatient)
	mux.HandleFunc("POST /api/doctors/signup", accountHandler.SignupDoctor)
	mux.HandleFunc("POST /api/doctors/login", accountHandler.LoginDoctor)
	mux.HandleFunc("POST /api/check-email", accountHandler.CheckEmail)
	mux.HandleFunc("POST /api/logout", authMiddleware.Require(anyKind, accountHandler.Logout))
	mux.HandleFunc("GET /api/doctors", accountHandler.ListDoctors)
	mux.HandleFunc("GET /api/doctors/{id}", accountHandler.GetDoctor)
	mux.HandleFunc("GET /api/users/{id}", accountHandler.GetUser)

	// Bookings
	mux.HandleFunc("GET /api/test-types", bookingHandler.TestTypes)
	mux.HandleFunc("POST /api/bookings", authMiddleware.Require(patient, bookingHandler.Create))
	mux.HandleFunc("GET /api/bookings/user/{userId}", authMiddleware.Require(patient, bookingHandler.ListForUser))
	mux.HandleFunc("GET /api/bookings/doctor/{doctorId}", authMiddleware.Require(doctor, bookingHandler.ListForDoctor))
	mux.HandleFunc("GET /api/bookings/calendar/{id}", authMiddleware.Require(anyKind, bookingHandler.Calendar))
	mux.HandleFunc("GET /api/bookings/calendar-links/{id}", authMiddleware.Require(anyKind, bookingHandler.CalendarLinks))

	// Legacy unprefixed aliases. The /api prefix is canonical; these
	// stay only for clients built against the old route set.
	mux.HandleFunc("GET /doctors", accountHandler.ListDoctors)
	mux.HandleFunc("GET /test-types", bookingHandler.TestTypes)
	mux.HandleFunc("POST /bookings", authMiddleware.Require(patient, bookingHandler.Create))
	mux.HandleFunc("GET /bookings/user/{userId}", authMiddleware.Require(patient, bookingHandler.ListForUser))
	mux.HandleFunc("GET /bookings/doctor/{doctorId}", authMiddleware.Require(doctor, bookingHandler.ListForDoctor))

	var root http.Handler = mux
	root = middleware.Metrics(root)
	root = middleware.CORS(cfg.AllowedOrigins)(root)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, root); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
