package main

import (
	"context"
	"log"
	"os"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/server"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/db/aws"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/db/postgres"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/db/redis"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
)

func main() {
	log.Println("Starting orchestrator")
	configFile := "config.yml"
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		configFile = path
	}
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %v", err)
	}
	defer psqlDB.Close()
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %v", err)
	}
	defer redisClient.Close()
	appLogger.Info("redis connected")

	s3Client, presignClient, err := aws.NewAWSClient(context.Background(), cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not create s3 client: %v", err)
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Errorf("server stopped with error: %v", err)
	}
}
