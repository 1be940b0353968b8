// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/venkyai/venky-chat/internal/config"
	"github.com/venkyai/venky-chat/internal/domain"
	"github.com/venkyai/venky-chat/internal/handlers"
	"github.com/venkyai/venky-chat/internal/middleware"
	"github.com/venkyai/venky-chat/internal/ratelimit"
	assistantrepo "github.com/venkyai/venky-chat/internal/repository/assistant"
	sessionrepo "github.com/venkyai/venky-chat/internal/repository/session"
	userrepo "github.com/venkyai/venky-chat/internal/repository/user"
	"github.com/venkyai/venky-chat/internal/services"
	"github.com/venkyai/venky-chat/internal/services/ai"
	"github.com/venkyai/venky-chat/internal/services/assistant"
	"github.com/venkyai/venky-chat/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("venky_chat")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}
	if err := assistantrepo.Migrate(db); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}
	if err := sessionrepo.Migrate(db); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	configRepo := assistantrepo.NewGormConfigRepository(db)
	var sessionRepo sessionrepo.SessionRepository
	if cfg.SessionStore == "file" {
		sessionRepo = sessionrepo.NewFileSessionRepository(cfg.SessionsFilePath)
	} else {
		sessionRepo = sessionrepo.NewGormSessionRepository(db)
	}

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.BaseURL = cfg.OpenAIBaseURL
	aiConfig.Model = cfg.ChatModel
	aiConfig.ProxyURL = cfg.ProxyURL
	aiConfig.ProxySharedSecret = cfg.ProxySharedSecret

	aiService, err := services.NewAIService(aiConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI Service: %v", err)
	}

	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.AdminEmail, logger)
	assistantService := assistant.NewService(configRepo, logger)
	interpreter := assistant.NewInterpreter(cfg.AdminCommandPrefix, authService)

	chatService, err := services.NewChatService(sessionRepo, aiService, assistantService, interpreter, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	// --- Handlers ---
	loginLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer loginLimiter.Close()

	authHandler := handlers.NewAuthHandler(authService, loginLimiter)
	chatHandler, err := handlers.NewChatHandler(chatService)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Handler: %v", err)
	}

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.LoggingMiddleware(logger))

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.Handle("/register", middleware.RateLimitMiddleware(loginLimiter, "register")(http.HandlerFunc(authHandler.Register))).Methods("POST")
	r.Handle("/login", middleware.RateLimitMiddleware(loginLimiter, "login")(http.HandlerFunc(authHandler.Login))).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/sessions", chatHandler.GetUserSessions).Methods("GET")
	api.HandleFunc("/sessions", chatHandler.CreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", chatHandler.GetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", chatHandler.DeleteSession).Methods("DELETE")
	api.HandleFunc("/messages", chatHandler.SendMessage).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Venky Chat server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
