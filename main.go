package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/didi5-com/dotlesspaints/handlers"
	"github.com/didi5-com/dotlesspaints/internal/auth"
	"github.com/didi5-com/dotlesspaints/internal/cart"
	"github.com/didi5-com/dotlesspaints/internal/consul"
	"github.com/didi5-com/dotlesspaints/internal/messages"
	"github.com/didi5-com/dotlesspaints/internal/orders"
	"github.com/didi5-com/dotlesspaints/internal/payments"
	"github.com/didi5-com/dotlesspaints/internal/products"
	"github.com/didi5-com/dotlesspaints/internal/site"
	"github.com/didi5-com/dotlesspaints/internal/stores/kafka"
	"github.com/didi5-com/dotlesspaints/internal/stores/postgres"
	"github.com/didi5-com/dotlesspaints/internal/users"
	"github.com/didi5-com/dotlesspaints/pkg/logkey"

	"github.com/joho/godotenv"
)

const serviceName = "dotlesspaints"

func main() {
	if err := startApp(); err != nil {
		slog.Error("failed to start service", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	slog.Info("Loading environment variables")
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	slog.Info("Connecting to database")
	db, err := postgres.OpenDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	slog.Info("Running migrations")
	if err := postgres.RunMigrations(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	slog.Info("Loading signing keys")
	keys, err := loadKeys()
	if err != nil {
		return fmt.Errorf("loading signing keys: %w", err)
	}

	gatewayBase := os.Getenv("PAYSTACK_BASE_URL")
	if gatewayBase == "" {
		gatewayBase = "https://api.paystack.co"
	}
	verifier := payments.NewGatewayClient(gatewayBase, os.Getenv("PAYSTACK_SECRET_KEY"))

	// The broker is optional: without it the storefront still works, it
	// just stops emitting events.
	var k *kafka.Conf
	k, err = kafka.NewConf()
	if err != nil {
		slog.Warn("kafka unavailable, events disabled", slog.String(logkey.ERROR, err.Error()))
		k = nil
	} else {
		defer k.Close()
	}

	u, err := users.NewConf(db)
	if err != nil {
		return fmt.Errorf("users store: %w", err)
	}
	p, err := products.NewConf(db)
	if err != nil {
		return fmt.Errorf("products store: %w", err)
	}
	ct, err := cart.NewConf(db)
	if err != nil {
		return fmt.Errorf("cart store: %w", err)
	}
	pm, err := payments.NewConf(db)
	if err != nil {
		return fmt.Errorf("payments store: %w", err)
	}
	msg, err := messages.NewConf(db)
	if err != nil {
		return fmt.Errorf("messages store: %w", err)
	}
	s, err := site.NewConf(db)
	if err != nil {
		return fmt.Errorf("site store: %w", err)
	}

	var events orders.Publisher
	if k != nil {
		events = k
	}
	o, err := orders.NewConf(db, verifier, events)
	if err != nil {
		return fmt.Errorf("orders store: %w", err)
	}

	h := handlers.NewHandler(u, p, ct, o, pm, msg, s, k, keys)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	prefix := os.Getenv("ENDPOINT_PREFIX")
	if prefix == "" {
		prefix = "/api/v1"
	}

	api := http.Server{
		Addr:         ":" + port,
		Handler:      handlers.API(prefix, keys, h),
		ReadTimeout:  8 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	registerWithConsul(port)

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("port", port))
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		slog.Info("shutdown started", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			if er := api.Close(); er != nil {
				return fmt.Errorf("forcing server close: %w", er)
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func loadKeys() (*auth.Keys, error) {
	privatePath := os.Getenv("PRIVATE_KEY_PATH")
	if privatePath == "" {
		privatePath = "private.pem"
	}
	publicPath := os.Getenv("PUBLIC_KEY_PATH")
	if publicPath == "" {
		publicPath = "pubkey.pem"
	}

	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	return auth.NewKeys(privatePEM, publicPEM)
}

// registerWithConsul is best effort: a missing agent must not keep the
// storefront down.
func registerWithConsul(port string) {
	client, err := consul.NewClient()
	if err != nil {
		slog.Warn("consul unavailable, skipping registration", slog.String(logkey.ERROR, err.Error()))
		return
	}

	address := os.Getenv("SERVICE_ADDRESS")
	if address == "" {
		address = "localhost"
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		slog.Warn("invalid port for consul registration", slog.String(logkey.ERROR, err.Error()))
		return
	}

	if err := consul.RegisterService(client, serviceName, address, portNum); err != nil {
		slog.Warn("consul registration failed", slog.String(logkey.ERROR, err.Error()))
	}
}
