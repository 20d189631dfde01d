package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	aws_pkg "swn-microservices/pkg/aws"
	ddb "swn-microservices/pkg/dynamodb"
	"swn-microservices/services/common/logger"

	"swn-microservices/services/basket-service/config"
	"swn-microservices/services/basket-service/controllers"
	"swn-microservices/services/basket-service/kafka"
	"swn-microservices/services/basket-service/repository"
	"swn-microservices/services/basket-service/routes"
	"swn-microservices/services/basket-service/services"
)

func main() {
	_ = godotenv.Load()
	logger.Initialize(os.Getenv("APP_ENV"))
	defer zap.L().Sync()

	cfg := config.Load()

	awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
	if err != nil {
		zap.L().Fatal("failed to load AWS config", zap.Error(err))
	}

	ddbClient := ddb.NewClientFromConfig(awsCfg)
	basketRepo := repository.NewDynamoBasketRepository(ddbClient, cfg.BasketTable)
	busClient := aws_pkg.NewEventBridgeClient(awsCfg, cfg.EventBusName)

	metrics, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		zap.L().Warn("CloudWatch metrics unavailable", zap.Error(err))
	}

	var mirror services.MirrorProducer
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		defer producer.Close()
		mirror = producer
	}

	checkoutService := services.NewCheckoutService(
		basketRepo, busClient, mirror, metrics,
		cfg.EventSource, cfg.EventDetailType,
	)
	controller := controllers.NewBasketController(basketRepo, checkoutService)

	router := gin.New()
	router.Use(logger.RequestLogger(), gin.Recovery())
	routes.RegisterBasketRoutes(router, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zap.L().Info("Basket Service is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zap.L().Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Fatal("Shutdown error", zap.Error(err))
	}
	zap.L().Info("Server shutdown complete.")
}
