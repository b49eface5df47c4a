package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetdispatch/config"
	"fleetdispatch/engine"
	"fleetdispatch/livestate"
	"fleetdispatch/messaging"
	"fleetdispatch/orders"
	"fleetdispatch/store"
	"fleetdispatch/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "fleetdispatch.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("fleetdispatch", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("fleetdispatch: database open (%s)", db.Driver())

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("fleetdispatch: redis not available (%v), running without cache", err)
	} else {
		log.Printf("fleetdispatch: redis connected (%s)", cfg.Redis.Address)
	}
	cancel()
	defer redisClient.Close()

	// Live fleet state manager
	redisStore := livestate.NewRedisStore(redisClient)
	liveMgr := livestate.NewManager(db, redisStore)
	if err := liveMgr.SyncRedisFromSQL(); err != nil {
		log.Printf("fleetdispatch: redis sync from SQL: %v", err)
	}

	// Order-admin backend
	backend := orders.NewClient(cfg.Orders.BaseURL, cfg.Orders.Timeout)
	if err := backend.Ping(); err == nil {
		log.Printf("fleetdispatch: orders backend connected (%s)", backend.Name())
	} else {
		log.Printf("fleetdispatch: orders backend not available (%v)", err)
	}

	// Messaging client
	msgClient := messaging.NewClient(&cfg.Messaging)
	if err := msgClient.Connect(); err != nil {
		log.Printf("fleetdispatch: messaging connect failed (%v)", err)
	} else {
		log.Printf("fleetdispatch: messaging connected (kafka)")
	}
	defer msgClient.Close()

	// Engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		DB:         db,
		Backend:    backend,
		Live:       liveMgr,
		MsgClient:  msgClient,
	})
	eng.Start()
	defer eng.Stop()

	// Outbox drainer (delivery events to the order-admin service)
	drainer := messaging.NewOutboxDrainer(db, msgClient, cfg.Messaging.OutboxDrainInterval)
	drainer.Start()
	defer drainer.Stop()

	// Web server
	handler, stopWeb := www.NewRouter(eng)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("fleetdispatch: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("fleetdispatch: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("fleetdispatch: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	log.Printf("fleetdispatch: stopped")
}
