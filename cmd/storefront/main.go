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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/auth"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/catalog"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/checkout"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/newsletter"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/orders"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/payment"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/view"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/web"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/wishlist"
)

type Config struct {
	HTTPPort           string
	StoreBackend       string
	RedisAddr          string
	RedisPassword      string
	MongoURI           string
	MongoDatabase      string
	KafkaBrokers       []string
	PaystackSecretKey  string
	PaystackPublicKey  string
	CatalogFile        string
	QuantityEditDelay  time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		StoreBackend:      getEnv("STORE_BACKEND", "memory"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DB", "esthetical"),
		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackPublicKey: getEnv("PAYSTACK_PUBLIC_KEY", ""),
		CatalogFile:       getEnv("CATALOG_FILE", ""),
		QuantityEditDelay: 500 * time.Millisecond,
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemory(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return store.NewRedisStore(client), nil
	case "mongo":
		db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store.NewMongoStore(db), nil
	default:
		return nil, errors.New("unknown STORE_BACKEND: " + cfg.StoreBackend)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up %s store: %v", cfg.StoreBackend, err)
	}
	log.Printf("using %s store backend", cfg.StoreBackend)

	bus := events.New()

	cartManager := cart.NewManager(st, bus)
	editor := cart.NewQuantityEditor(cartManager, cfg.QuantityEditDelay)
	defer editor.Close()

	wishlistManager := wishlist.NewManager(st, bus, cartManager)
	repo := orders.NewRepository(st, bus)
	authManager := auth.NewManager(st, bus)
	newsletterManager := newsletter.NewManager(st, bus)

	var cat *catalog.Catalog
	if cfg.CatalogFile != "" {
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
		log.Printf("loaded %d products from %s", cat.Len(), cfg.CatalogFile)
	} else {
		cat = catalog.New(nil)
		log.Printf("no CATALOG_FILE set, starting with an empty catalog")
	}

	var adapter *payment.Adapter
	if cfg.PaystackSecretKey != "" {
		gateway := payment.NewPaystackGateway(cfg.PaystackSecretKey)
		adapter = payment.NewAdapter(cartManager, gateway, payment.Config{MerchantKey: cfg.PaystackPublicKey})
	} else {
		log.Printf("no PAYSTACK_SECRET_KEY set, gateway payments disabled")
	}

	var starter checkout.PaymentStarter
	if adapter != nil {
		starter = adapter
	}
	orch := checkout.NewOrchestrator(cartManager, repo, starter)
	if adapter != nil {
		adapter.SetFinalizer(orch)
	}

	if len(cfg.KafkaBrokers) > 0 {
		exporter := orders.NewExporter(repo, cfg.KafkaBrokers...)
		go exporter.Run(ctx)
		log.Printf("exporting completed orders to kafka at %v", cfg.KafkaBrokers)
	}

	fragments := view.NewFragmentCache(bus, cartManager, wishlistManager)
	defer fragments.Close()

	router := web.NewRouter(web.Handlers{
		Cart:       web.NewCartHandler(cartManager, editor, cat),
		Wishlist:   web.NewWishlistHandler(wishlistManager, cat),
		Checkout:   web.NewCheckoutHandler(orch, adapter),
		Auth:       web.NewAuthHandler(authManager),
		Storefront: web.NewStorefrontHandler(cat, newsletterManager, fragments),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
