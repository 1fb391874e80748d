package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	captioning "imagefinder/internal/captioning/openai"
	"imagefinder/internal/config"
	embedding "imagefinder/internal/embedding/openai"
	"imagefinder/internal/imagestore"
	"imagefinder/internal/server"
	"imagefinder/internal/service"
	"imagefinder/internal/vectorstore"
	"imagefinder/internal/vectorstore/memory"
	"imagefinder/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	apiKey := os.Getenv(cfg.OpenAI.APIKeyEnv)
	if apiKey == "" {
		logger.Fatal("missing API key", zap.String("env", cfg.OpenAI.APIKeyEnv))
	}

	timeout := time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second
	captioner, err := captioning.NewClient(captioning.Config{
		BaseURL:  cfg.OpenAI.BaseURL,
		APIKey:   apiKey,
		Model:    cfg.OpenAI.CaptionModel,
		Language: cfg.OpenAI.Language,
		Timeout:  timeout,
	})
	if err != nil {
		logger.Fatal("captioner init failed", zap.Error(err))
	}
	embedder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKey:    apiKey,
		Model:     cfg.OpenAI.EmbeddingModel,
		Dimension: cfg.OpenAI.EmbeddingDim,
		Timeout:   timeout,
	})
	if err != nil {
		logger.Fatal("embedder init failed", zap.Error(err))
	}

	var st vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory":
		st = memory.NewStorage(cfg.OpenAI.EmbeddingDim)
	case "qdrant", "":
		qurl := os.Getenv(cfg.VectorStore.Qdrant.URLEnv)
		if qurl == "" {
			logger.Fatal("missing qdrant URL", zap.String("env", cfg.VectorStore.Qdrant.URLEnv))
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        qurl,
			APIKey:     os.Getenv(cfg.VectorStore.Qdrant.APIKeyEnv),
			Collection: cfg.VectorStore.Qdrant.Collection,
			Dimension:  cfg.OpenAI.EmbeddingDim,
		})
	default:
		logger.Fatal("unknown vector store", zap.String("type", cfg.VectorStore.Type))
	}
	if err := st.EnsureCollection(); err != nil {
		logger.Fatal("vector store init failed", zap.Error(err))
	}

	images, err := imagestore.New(cfg.Images.Dir)
	if err != nil {
		logger.Fatal("image store init failed", zap.Error(err))
	}

	svc := service.NewFinder(captioner, embedder, st, images)
	srv := server.NewServer(svc, images, &cfg.Server, logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
