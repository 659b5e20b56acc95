package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fruitables-shop/internal/client"
	"fruitables-shop/internal/config"
	"fruitables-shop/internal/repository"
	"fruitables-shop/internal/server"
	"fruitables-shop/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	paypalClient := client.NewPaypalClient(&cfg.Paypal)
	vnpayClient := client.NewVnpayClient(cfg.VnPay)

	cartRepo := repository.NewCartRepository(db)
	merchandiseRepo := repository.NewMerchandiseRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	if err := merchandiseRepo.Seed(context.Background()); err != nil {
		log.Println("seed merchandises:", err)
	}

	cartService := service.NewCartService(db, cartRepo, merchandiseRepo, cfg.Cart.RetentionDays)
	checkoutService := service.NewCheckoutService(
		db,
		cartRepo, merchandiseRepo, orderRepo,
		paypalClient, vnpayClient,
	)
	accountService := service.NewAccountService(customerRepo, cfg.JWT)
	merchandiseService := service.NewMerchandiseService(merchandiseRepo)

	// periodic sweep of expired anonymous carts
	purgeDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Cart.PurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := cartService.PurgeExpired(context.Background()); err != nil {
					log.Println("purge expired carts:", err)
				}
			case <-purgeDone:
				return
			}
		}
	}()

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg.JWT.Secret, accountService, cartService, checkoutService, merchandiseService)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	close(purgeDone)

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
