package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	yf "github.com/hyunsikhwang/marketpulse/api/yahoo"
	c "github.com/hyunsikhwang/marketpulse/core"
	m "github.com/hyunsikhwang/marketpulse/models"
)

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load in environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	// get yahoo finance client, host override is for tests and proxies
	yahooClient := yf.GetClient(os.Getenv("YAHOO_HOST"))

	sc := c.ServiceContext{
		Context:     ctx,
		YahooClient: yahooClient,
		Registry:    m.DefaultIndices(),
		Cache:       c.NewTableCache(cacheTTLFromEnv()),
	}

	// get http server, makes all of the endpoints and routes
	s := c.GetHttpServer(sc, os.Getenv("PORT"))

	// start http server in goroutine
	go func() {
		log.Printf("Starting marketpulse server on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// golang channel, will wait here until the context is closed (ie, ctrl+C)
	<-ctx.Done()
	log.Println("Received shutdown signal, shutting down gracefully...")

	// this gives the server 10 seconds to shutdown gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped successfully")
}

func cacheTTLFromEnv() time.Duration {
	raw := os.Getenv("CACHE_TTL_MINUTES")
	if raw == "" {
		return c.DefaultTTL
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		log.Printf("invalid CACHE_TTL_MINUTES %q, using default", raw)
		return c.DefaultTTL
	}

	return time.Duration(minutes) * time.Minute
}
