package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"request-service/internal/middleware"
	"request-service/internal/request"
)

func main() {
	_ = godotenv.Load()

	port := getenv("PORT", "3004")
	dsn := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	gating := getenv("PAYMENT_GATING", "lenient")
	window := getduration("ACTIVE_USER_WINDOW", 0)
	rps := getfloat("RATE_LIMIT_RPS", 2)
	burst := getint("RATE_LIMIT_BURST", 5)

	ctx := context.Background()

	var store request.Store
	if dsn == "" {
		log.Printf("request-service: DATABASE_URL not set, using in-memory store")
		store = request.NewMemoryStore()
	} else {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			log.Fatalf("pg: %v", err)
		}
		defer pool.Close()
		if err := request.AutoMigrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		store = request.NewPostgresStore(pool)
	}

	var rdb *redis.Client
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	svc := request.NewService(store, request.Config{
		StrictPaymentGating: gating == "strict",
		ActiveUserWindow:    window,
	})
	limiter := middleware.NewPerKeyLimiter(rps, burst, 5*time.Minute)

	r := request.NewRouter(svc, rdb, limiter)

	log.Printf("request-service on :%s (gating=%s)", port, gating)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("http: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
