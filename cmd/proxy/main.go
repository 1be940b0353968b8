// File: cmd/proxy/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/venkyai/venky-chat/internal/proxy"
)

func main() {
	if strings.ToLower(os.Getenv("ENV")) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := proxy.DefaultConfig()
	cfg.SharedSecret = os.Getenv("PROXY_SHARED_SECRET")
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	if url := os.Getenv("OPENAI_UPSTREAM_URL"); url != "" {
		cfg.UpstreamURL = url
	}
	if model := os.Getenv("CHAT_MODEL"); model != "" {
		cfg.Model = model
	}

	handler, err := proxy.NewHandler(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize proxy: %v", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.PathPrefix("/").Handler(handler)

	port := ":8090"
	if p := os.Getenv("PROXY_PORT"); p != "" {
		port = ":" + p
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.Printf("Venky Chat proxy starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Proxy startup failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down proxy gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Proxy shutdown failed: %v", err)
	}
	log.Println("Proxy stopped gracefully")
}
