/**
 * @description
 * This is the main entry point for the crowdfunding service. It is responsible
 * for initializing all components of the service, including configuration, the
 * database connection pool, Redis, the RabbitMQ event producer, the credential
 * vault, the mailer, the core application service, and the HTTP server. It
 * wires everything together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Redis client backing the rate limiter.
 * - github.com/joho/godotenv: Optional .env loading for local development.
 * - internal/api, internal/app, internal/config, internal/secrets, internal/store: Internal packages.
 * - pkg/mailer, pkg/rabbitmq: SMTP delivery and event publishing.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/helpinghands/crowdfund/internal/api"
	"github.com/helpinghands/crowdfund/internal/app"
	"github.com/helpinghands/crowdfund/internal/config"
	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/secrets"
	"github.com/helpinghands/crowdfund/internal/store"
	"github.com/helpinghands/crowdfund/pkg/mailer"
	"github.com/helpinghands/crowdfund/pkg/rabbitmq"
)

func main() {
	// Load a local .env file if present; environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Println("level=info component=bootstrap msg=\".env file loaded\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"jwt secret must be configured\" env=JWT_SECRET")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url must be configured\" env=DATABASE_URL")
	}

	log.Printf("level=info component=bootstrap msg=\"starting crowdfund service\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}

	poolConfig.MaxConns = 100
	poolConfig.MinConns = 20
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts behind poolers.
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Initialize the RabbitMQ producer to publish settlement and audit events.
	var producer rabbitmq.Publisher
	eventProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		defer eventProducer.Close()
		producer = eventProducer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Redis backs the login and donation rate limiters. A missing or
	// unreachable Redis disables limiting rather than blocking boot.
	var limiter app.RateLimiter
	if cfg.RedisURL != "" {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; rate limiting disabled\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(pingCtx).Err()
			cancelPing()
			if pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; rate limiting disabled\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				limiter = app.NewRedisRateLimiter(redisClient, cfg.RedisRateLimitPrefix)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	} else {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; rate limiting disabled\" env=REDIS_URL")
	}

	// The credential vault seals gateway credentials at rest. Without a key
	// the admin payment-method endpoints refuse writes.
	var box *secrets.Box
	if strings.TrimSpace(cfg.CredentialsKey) != "" {
		box, err = secrets.NewBox(cfg.CredentialsKey)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"credential vault init failed\" err=%v", err)
		}
	} else {
		log.Println("level=warn component=bootstrap msg=\"credentials key missing; stored gateway credentials disabled\" env=CREDENTIALS_ENCRYPTION_KEY")
	}

	var mail mailer.Sender
	if m := mailer.New(cfg.MailServer, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailDefaultSender); m != nil {
		mail = m
	} else {
		log.Println("level=warn component=bootstrap msg=\"mailer not configured; outbound mail disabled\"")
	}

	repository := store.NewPostgresRepository(dbpool)

	service := app.NewService(repository, producer, mail, box, limiter, app.Options{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      time.Duration(cfg.TokenTTLHours) * time.Hour,
		BaseURL:       cfg.BaseURL,
		PayPalMode:    cfg.PayPalMode,
		NGNPerUSDRate: cfg.NGNPerUSDRate,
		EnvCredentials: domain.PaymentMethodCredentials{
			PayPalClientID:        cfg.PayPalClientID,
			PayPalSecret:          cfg.PayPalSecret,
			PaystackSecretKey:     cfg.PaystackSecretKey,
			PaystackPublicKey:     cfg.PaystackPublicKey,
			CoinbaseAPIKey:        cfg.CoinbaseAPIKey,
			CoinbaseWebhookSecret: cfg.CoinbaseWebhookKey,
		},
		LoginRateLimitPerMin:  cfg.LoginRateLimitPerMin,
		DonateRateLimitPerMin: cfg.DonateRateLimitPerMin,
	})

	handlers := api.NewHandlers(service, cfg.UploadDir, cfg.MaxUploadBytes)

	var allowedOrigins []string
	for _, origin := range strings.Split(cfg.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	router := api.Routes(handlers, api.RouterOptions{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: allowedOrigins,
		UploadDir:      cfg.UploadDir,
	})

	// Keep free-tier hosts from idling the dyno between donations.
	if cfg.EnableSelfPing {
		keepalive := app.NewKeepaliveService(cfg.SelfPingURL, time.Duration(cfg.SelfPingIntervalMin)*time.Minute)
		keepalive.Start()
		defer keepalive.Stop()
	}

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
