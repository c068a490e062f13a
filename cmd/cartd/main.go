package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/rariteth/go-cart/internal/catalog"
	"github.com/rariteth/go-cart/internal/config"
	"github.com/rariteth/go-cart/internal/events"
	"github.com/rariteth/go-cart/internal/identity"
	"github.com/rariteth/go-cart/internal/repository"
	"github.com/rariteth/go-cart/internal/session"
	transporthttp "github.com/rariteth/go-cart/internal/transport/http"
)

func main() {
	httpPort := getEnv("HTTP_PORT", "8080")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "cartdb")
	productsCollection := getEnv("PRODUCTS_COLLECTION", "products")
	kafkaBrokers := getEnv("KAFKA_BROKERS", "")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, mongoURI, mongoDBName, repository.MongoOptions{})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)

	repo := repository.NewMongoRepository(mongoDB, cfg.Collection)
	if err := repository.EnsureIndexes(ctx, repo); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", mongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	sessions := session.NewRedisStore(redisClient, session.DefaultTTL)

	var sink events.Sink = events.LogSink{}
	if kafkaBrokers != "" {
		kafkaSink := events.NewKafkaSink(strings.Split(kafkaBrokers, ",")...)
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Printf("Publishing cart events to kafka at %s", kafkaBrokers)
	}

	cat := catalog.New(catalog.NewMongoSource(mongoDB, productsCollection))

	handler := transporthttp.NewCartHandler(cfg, sessions, repo, identity.ContextResolver{}, cat, sink)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(transporthttp.SessionMiddleware)
	r.Use(transporthttp.AuthMiddleware(cfg.AuthGuard))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Mount("/api/v1", handler.Routes())

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Cart service listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down cart service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("Cart service stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
