package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	aws_pkg "swn-microservices/pkg/aws"
	ddb "swn-microservices/pkg/dynamodb"
	"swn-microservices/services/common/logger"

	"swn-microservices/services/product-service/cache"
	"swn-microservices/services/product-service/config"
	"swn-microservices/services/product-service/controllers"
	"swn-microservices/services/product-service/repository"
	"swn-microservices/services/product-service/routes"
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
	productRepo := repository.NewDynamoProductRepository(ddbClient, cfg.ProductTable)

	metrics, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		zap.L().Warn("CloudWatch metrics unavailable", zap.Error(err))
	}

	var productCache controllers.ProductCache
	if cfg.RedisURL != "" {
		rc, err := cache.NewProductCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			zap.L().Warn("Redis cache unavailable, serving uncached", zap.Error(err))
		} else {
			defer rc.Close()
			productCache = rc
		}
	}

	controller := controllers.NewProductController(productRepo, productCache, metrics)

	router := gin.New()
	router.Use(logger.RequestLogger(), gin.Recovery())
	routes.RegisterProductRoutes(router, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zap.L().Info("Product Service is running", zap.String("port", cfg.Port))
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
