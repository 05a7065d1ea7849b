package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"coachpulse/internal/advisor"
	"coachpulse/internal/analysis"
	"coachpulse/internal/db"
	"coachpulse/internal/gamification"
	"coachpulse/internal/handlers"
	mw "coachpulse/internal/middleware"
	"coachpulse/internal/store"
)

func mustGetenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		slog.Error("failed to build request logger", slog.Any("err", err))
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	port := mustGetenv("PORT", "8080")
	achievementsFile := mustGetenv("ACHIEVEMENTS_FILE", "config/achievements.json")

	dbConn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		slog.Error("failed to ping db", slog.Any("err", err))
		os.Exit(1)
	}
	if err := db.RunMigrations(dbConn); err != nil {
		slog.Error("failed migrations", slog.Any("err", err))
		os.Exit(1)
	}

	templates, err := gamification.LoadTemplates(achievementsFile)
	if err != nil {
		slog.Error("failed to load achievement templates", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("achievement templates loaded", slog.Int("count", len(templates)))

	var provider analysis.Provider
	if advisorURL := os.Getenv("ADVISOR_URL"); advisorURL != "" {
		provider = &advisor.Client{BaseURL: advisorURL, APIKey: os.Getenv("ADVISOR_API_KEY")}
		slog.Info("advisory provider configured", slog.String("url", advisorURL))
	}

	records := store.NewRecordStore(dbConn)
	gamStore := store.NewGamificationStore(dbConn)
	ledger := gamification.NewLedger(gamStore)
	engine := gamification.NewEngine(templates, gamStore, ledger)
	scorer := analysis.NewScorer(provider)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(zapLogger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(dbConn, []byte(jwtSecret))
	clientHandler := handlers.NewClientHandler(dbConn)
	checkinHandler := handlers.NewCheckinHandler(dbConn)
	completionHandler := handlers.NewCompletionHandler(dbConn)
	bodyCompHandler := handlers.NewBodyCompHandler(dbConn, records)
	analysisHandler := handlers.NewAnalysisHandler(records, scorer)
	gamificationHandler := handlers.NewGamificationHandler(records, engine, ledger)
	dashboardHandler := handlers.NewDashboardHandler(dbConn, records, ledger)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/me", clientHandler.GetMe)
			pr.Put("/me", clientHandler.UpdateMe)
			pr.Post("/checkins", checkinHandler.Upsert)
			pr.Get("/checkins", checkinHandler.List)
			pr.Delete("/checkins", checkinHandler.Delete)
			pr.Post("/completions", completionHandler.Upsert)
			pr.Post("/body-composition", bodyCompHandler.Upsert)
			pr.Get("/body-composition", bodyCompHandler.List)
			pr.Get("/body-composition/compare", bodyCompHandler.Compare)
			pr.Get("/analysis/trends", analysisHandler.Trends)
			pr.Get("/analysis/progress", analysisHandler.Progress)
			pr.Post("/gamification/check", gamificationHandler.Check)
			pr.Get("/gamification/achievements", gamificationHandler.ListAchievements)
			pr.Get("/gamification/points", gamificationHandler.Points)
			pr.Post("/gamification/points", gamificationHandler.EarnPoints)
			pr.Get("/gamification/points/history", gamificationHandler.PointsHistory)
			pr.Get("/dashboard", dashboardHandler.Get)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		slog.Info("server starting", slog.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("err", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	slog.Info("server stopped")
}
