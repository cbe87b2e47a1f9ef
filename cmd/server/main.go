package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/concordgraph/concord/internal/config"
	"github.com/concordgraph/concord/internal/core"
	"github.com/concordgraph/concord/internal/driver"
	"github.com/concordgraph/concord/internal/keyword"
	"github.com/concordgraph/concord/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.String("path", cfgPath), zap.Error(err))
	}

	d, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, logger)
	if err != nil {
		logger.Fatal("failed to connect to graph store", zap.Error(err))
	}
	defer d.Close(context.Background())

	extractor, err := keyword.NewExtractor(cfg.Extraction)
	if err != nil {
		logger.Fatal("failed to initialize keyword extractor", zap.Error(err))
	}
	if extractor == nil {
		logger.Warn("no extraction provider configured; creates require explicit keywords")
	}

	engine := core.NewEngine(d, logger)
	if err := engine.BuildIndices(context.Background()); err != nil {
		logger.Warn("failed to build indices", zap.Error(err))
	}

	srv := server.New(engine, extractor, logger)
	r := srv.SetupRouter()

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
