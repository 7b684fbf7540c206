package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/lumbrjx/hlsgate/internal/api"
	"github.com/lumbrjx/hlsgate/internal/config"
	"github.com/lumbrjx/hlsgate/internal/delivery"
	"github.com/lumbrjx/hlsgate/internal/infra"
	"github.com/lumbrjx/hlsgate/internal/metrics"
	"github.com/lumbrjx/hlsgate/internal/repository"
	"github.com/lumbrjx/hlsgate/internal/server"
	"github.com/lumbrjx/hlsgate/internal/storage"
	"github.com/lumbrjx/hlsgate/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	slogger := logger.New(cfg.LogLevel)
	ctx := context.Background()

	// === MinIO ===
	minioClient, err := infra.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		slogger.Error("failed to init MinIO", "error", err.Error())
		log.Fatal(err)
	}

	// === PostgreSQL ===
	pool, err := repository.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		slogger.Error("failed to init Postgres", "error", err.Error())
		log.Fatal(err)
	}
	defer pool.Close()

	// === Redis (rate limiting; optional) ===
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = infra.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slogger.Error("failed to init Redis", "error", err.Error())
			log.Fatal(err)
		}
	} else {
		slogger.Warn("redis not configured, rate limiting disabled")
	}

	// === Kafka (playback analytics; optional) ===
	producer := infra.MakeKafkaProducer(cfg.KafkaHost)
	if producer != nil {
		defer producer.Close()
	}

	videos := repository.NewVideoRepository(pool, slogger)
	store := storage.NewMinioStore(minioClient, cfg.MinioBucket)
	svc := delivery.NewService(videos, store, delivery.Options{
		Mediated:     cfg.DeliveryMode == config.ModeMediated,
		APIBaseURL:   cfg.APIBaseURL,
		SignedURLTTL: cfg.SignedURLTTL,
	}, slogger)

	met := metrics.New()
	a := &api.API{
		Delivery: svc,
		Auth:     videos,
		Producer: producer,
		Metrics:  met,
		Log:      slogger,
	}

	s := server.NewServer(cfg, a, rdb, met, slogger)
	if err := s.Start(); err != nil {
		log.Fatal(err)
	}
}
