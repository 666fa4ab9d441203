package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"catan-tracker/internal/auth"
	"catan-tracker/internal/config"
	"catan-tracker/internal/db"
	"catan-tracker/internal/handlers"
	"catan-tracker/internal/middleware"
	"catan-tracker/internal/store"
	"catan-tracker/internal/tracker"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting tracker server in %s mode", cfg.Environment)

	// Connect to MongoDB
	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	log.Printf("Connected to MongoDB database: %s", cfg.MongoDB.Database)

	// Initialize auth services
	jwtService := auth.NewJWTService(cfg.JWT.Secret)
	passwordService := auth.NewPasswordService()

	// Initialize the tracker over the Mongo-backed store
	gameTracker := tracker.New(store.New(mongodb))

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Create handlers; the websocket handler must subscribe before Start
	wsHandler := handlers.NewWebSocketHandler(gameTracker)
	gamesHandler := handlers.NewGamesHandler(gameTracker)
	statsHandler := handlers.NewStatsHandler(gameTracker)
	streaksHandler := handlers.NewStreaksHandler(gameTracker)
	authHandler := handlers.NewAuthHandler(jwtService, passwordService, cfg.Editor.PasswordHash)

	// Load the game log and begin watching for upstream changes
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := gameTracker.Start(startCtx); err != nil {
		startCancel()
		log.Fatalf("Failed to start tracker: %v", err)
	}
	startCancel()
	defer gameTracker.Stop()

	// Set up router
	router := mux.NewRouter()
	router.Use(middleware.SecurityHeaders())

	// WebSocket route
	router.Handle("/ws",
		rateLimiter.RateLimitMiddleware(middleware.WebSocketUpgradeLimit)(
			http.HandlerFunc(wsHandler.HandleWebSocket)))

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	// Auth route (public, rate limited)
	api.Handle("/auth/login",
		rateLimiter.RateLimitMiddleware(middleware.LoginAttemptLimit)(
			http.HandlerFunc(authHandler.Login))).Methods("POST")

	// Read routes (public)
	api.HandleFunc("/games", gamesHandler.ListGames).Methods("GET")
	api.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
	api.HandleFunc("/stats/leaderboard", statsHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/stats/recent", statsHandler.GetRecentForm).Methods("GET")
	api.HandleFunc("/streaks", streaksHandler.GetSummary).Methods("GET")
	api.HandleFunc("/streaks/dominant", streaksHandler.GetDominantPeriod).Methods("GET")
	api.HandleFunc("/streaks/{kind}", streaksHandler.GetDetail).Methods("GET")

	// Mutation routes (editor auth + rate limit)
	gamesWrite := api.PathPrefix("/games").Subrouter()
	gamesWrite.Use(authMiddleware.RequireAuth)
	gamesWrite.Use(rateLimiter.RateLimitMiddleware(middleware.MutationLimit))
	gamesWrite.HandleFunc("", gamesHandler.CreateGame).Methods("POST")
	gamesWrite.HandleFunc("/{id}", gamesHandler.UpdateGame).Methods("PUT")
	gamesWrite.HandleFunc("/{id}", gamesHandler.DeleteGame).Methods("DELETE")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Frontend.URL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
