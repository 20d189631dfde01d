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

	"swn-microservices/services/ordering-service/config"
	"swn-microservices/services/ordering-service/controllers"
	"swn-microservices/services/ordering-service/repository"
	"swn-microservices/services/ordering-service/routes"
	"swn-microservices/services/ordering-service/services"
)

func main() {
	_ = godotenv.Load()
	logger.Initialize(os.Getenv("APP_ENV"))
	defer zap.L().Sync()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
	if err != nil {
		zap.L().Fatal("failed to load AWS config", zap.Error(err))
	}

	ddbClient := ddb.NewClientFromConfig(awsCfg)
	orderRepo := repository.NewDynamoOrderRepository(ddbClient, cfg.OrdersTable, cfg.ClaimsTable)

	metrics, err := aws_pkg.NewMetricsClient(ctx)
	if err != nil {
		zap.L().Warn("CloudWatch metrics unavailable", zap.Error(err))
	}

	var notifier aws_pkg.SNSPublisher
	if cfg.SNSTopicArn != "" {
		notifier = aws_pkg.NewSNSClient(awsCfg)
	}

	ingest := services.NewIngestService(orderRepo, notifier, cfg.SNSTopicArn, metrics)

	queueURL, err := aws_pkg.GetQueueURL(ctx, awsCfg, cfg.QueueName)
	if err != nil {
		zap.L().Fatal("failed to resolve queue URL", zap.String("queue", cfg.QueueName), zap.Error(err))
	}
	sqsConsumer := services.NewSQSCheckoutConsumer(
		aws_pkg.NewSQSConsumer(awsCfg, queueURL),
		ingest,
		cfg.EventSource, cfg.EventDetailType,
	)
	go sqsConsumer.Start(ctx)

	if cfg.KafkaBrokers != "" {
		go services.StartKafkaCheckoutConsumer(
			ctx,
			strings.Split(cfg.KafkaBrokers, ","),
			cfg.KafkaTopic, cfg.KafkaGroupID,
			ingest,
		)
	}

	controller := controllers.NewOrderController(orderRepo)

	router := gin.New()
	router.Use(logger.RequestLogger(), gin.Recovery())
	routes.RegisterOrderRoutes(router, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zap.L().Info("Ordering Service is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zap.L().Info("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Shutdown error", zap.Error(err))
	}
	zap.L().Info("Server shutdown complete.")
}
