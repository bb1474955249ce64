package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"durianflight/cfg"
	"durianflight/internal/airport"
	"durianflight/internal/booking"
	"durianflight/pkg/cache"
	"durianflight/pkg/idgen"
	"durianflight/pkg/inventory"
	"durianflight/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Cache
	// ============
	redisAddr := config.RedisConfig.Host + ":" + config.RedisConfig.Port
	redis := cache.NewRedisCache(redisAddr, config.RedisConfig.Password)

	// ============
	// External Service
	// ============
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}
	amadeusClient := inventory.NewAmadeusClient(
		httpClient,
		config.AmadeusClientConfig.BaseURL,
		config.AmadeusClientConfig.ClientID,
		config.AmadeusClientConfig.ClientSecret,
		zlogger,
	)
	inventoryClient := inventory.NewCachedClient(amadeusClient, redis, config.SearchTTLMinutes, zlogger)

	// ============
	// Internal Service
	// ============
	generator, err := idgen.NewSnowflakeGenerator(config.NodeID)
	if err != nil {
		log.Fatal(err)
	}
	notifier := booking.NewLogNotifier(zlogger)
	bookingSvc := booking.NewService(inventoryClient, notifier, generator, zlogger)
	bookingHandler := booking.NewBookingHandler(bookingSvc)
	airportHandler := airport.NewAirportHandler()

	// ============
	// HTTP
	// ============
	r := gin.Default()

	bookingHandler.RegisterRoutes(r)
	airportHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", config.AppPort)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
