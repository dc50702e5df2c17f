package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nz1manager/ielts-backend/handlers"
	"github.com/nz1manager/ielts-backend/internal/config"
	"github.com/nz1manager/ielts-backend/internal/database"
	"github.com/nz1manager/ielts-backend/internal/oauth"
	"github.com/nz1manager/ielts-backend/internal/users"
	"github.com/nz1manager/ielts-backend/pkg/logger"
	"github.com/nz1manager/ielts-backend/pkg/metrics"
	"github.com/nz1manager/ielts-backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: google=%v postgres=%v redis=%v", cfg.Google.ClientID != "", cfg.Database.URL != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(middleware.CORSMiddleware(cfg.Frontend.BaseURL))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Connect to Postgres with retry/backoff to tolerate startup races
	var db *sqlx.DB
	if cfg.Database.URL != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			db, errConn = database.ConnectPostgres(ctx, cfg.Database.URL, cfg.Database.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to Postgres: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to Postgres after %d attempts: %v", maxAttempts, errConn)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			logger.Fatalf("schema bootstrap failed: %v", err)
		}
		logger.Infof("Postgres connected, users table ready")
	} else {
		logger.Warn("DATABASE_URL not set; using in-memory user store (dev mode)")
	}

	var repo users.UserRepository
	if db != nil {
		repo = users.NewPostgresUserRepository(db)
	} else {
		repo = users.NewMemoryRepo()
	}
	userSvc := users.NewService(repo)

	// Google OAuth provider and ID-token verifier
	var provider oauth.Provider
	var verifier oauth.TokenVerifier
	if cfg.Google.ClientID != "" {
		provider = oauth.NewGoogleProvider(cfg.Google)
		ver, err := oauth.NewVerifier(ctx, oauth.GoogleIssuer, cfg.Google.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize Google ID-token verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	// Insecure verifier for integration tests: parse claims without signature verification
	if verifier == nil && os.Getenv("ALLOW_INSECURE_TOKEN") == "true" {
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = oauth.NewInsecureVerifier()
	}

	// Liveness endpoints (the front-end pings / to wake the free-tier dyno)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is Up!")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["store"] = true
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				deps["store"] = false
				ready = false
			}
		}

		deps["oauth"] = provider != nil
		if cfg.Google.ClientID != "" && provider == nil {
			ready = false
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	if provider != nil || verifier != nil {
		authHandler := handlers.NewAuthHandler(cfg, provider, verifier, userSvc)
		authHandler.Register(r)
	} else {
		logger.Warn("login routes not registered: Google client not configured")
	}
	userHandler := handlers.NewUserHandler(userSvc)
	userHandler.Register(r)
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting auth service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
