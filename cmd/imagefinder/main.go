package main

import (
	"flag"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	captioning "imagefinder/internal/captioning/openai"
	"imagefinder/internal/config"
	embedding "imagefinder/internal/embedding/openai"
	"imagefinder/internal/imagestore"
	"imagefinder/internal/service"
	"imagefinder/internal/tui"
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

	apiKey := os.Getenv(cfg.OpenAI.APIKeyEnv)
	if apiKey == "" {
		apiKey, err = tui.PromptAPIKey()
		if err != nil {
			log.Fatalf("no API key: %v", err)
		}
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
		log.Fatalf("captioner init failed: %v", err)
	}
	embedder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKey:    apiKey,
		Model:     cfg.OpenAI.EmbeddingModel,
		Dimension: cfg.OpenAI.EmbeddingDim,
		Timeout:   timeout,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	var st vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory":
		st = memory.NewStorage(cfg.OpenAI.EmbeddingDim)
	case "qdrant", "":
		qurl := os.Getenv(cfg.VectorStore.Qdrant.URLEnv)
		if qurl == "" {
			log.Fatalf("missing qdrant URL in env %s", cfg.VectorStore.Qdrant.URLEnv)
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        qurl,
			APIKey:     os.Getenv(cfg.VectorStore.Qdrant.APIKeyEnv),
			Collection: cfg.VectorStore.Qdrant.Collection,
			Dimension:  cfg.OpenAI.EmbeddingDim,
		})
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}
	if err := st.EnsureCollection(); err != nil {
		log.Fatalf("vector store init failed: %v", err)
	}

	images, err := imagestore.New(cfg.Images.Dir)
	if err != nil {
		log.Fatalf("image store init failed: %v", err)
	}

	svc := service.NewFinder(captioner, embedder, st, images)
	m := tui.New(svc, images.Dir())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
