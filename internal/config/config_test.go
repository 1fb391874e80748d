package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got %v", err)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("embedding model: got %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.EmbeddingDim != 3072 {
		t.Errorf("embedding dim: got %d", cfg.OpenAI.EmbeddingDim)
	}
	if cfg.OpenAI.CaptionModel != "gpt-4o" {
		t.Errorf("caption model: got %q", cfg.OpenAI.CaptionModel)
	}
	if cfg.VectorStore.Type != "qdrant" {
		t.Errorf("vector store type: got %q", cfg.VectorStore.Type)
	}
	if cfg.VectorStore.Qdrant == nil || cfg.VectorStore.Qdrant.Collection != "image_descriptions" {
		t.Errorf("qdrant collection: got %+v", cfg.VectorStore.Qdrant)
	}
	if cfg.Images.Dir != "images" {
		t.Errorf("images dir: got %q", cfg.Images.Dir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d", cfg.Server.Port)
	}
}

func TestLoadValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
openai:
  embedding_model: text-embedding-3-small
  embedding_dim: 1536
  language: Polish
vector_store:
  type: memory
images:
  dir: /tmp/pics
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("embedding model: got %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.EmbeddingDim != 1536 {
		t.Errorf("embedding dim: got %d", cfg.OpenAI.EmbeddingDim)
	}
	if cfg.OpenAI.Language != "Polish" {
		t.Errorf("language: got %q", cfg.OpenAI.Language)
	}
	if cfg.VectorStore.Type != "memory" {
		t.Errorf("vector store type: got %q", cfg.VectorStore.Type)
	}
	if cfg.Images.Dir != "/tmp/pics" {
		t.Errorf("images dir: got %q", cfg.Images.Dir)
	}
	// Unset fields still get defaults
	if cfg.OpenAI.CaptionModel != "gpt-4o" {
		t.Errorf("caption model default: got %q", cfg.OpenAI.CaptionModel)
	}
	if cfg.OpenAI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("api key env default: got %q", cfg.OpenAI.APIKeyEnv)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("openai: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.OpenAI.Language = "German"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.OpenAI.Language != "German" {
		t.Errorf("language after round trip: got %q", loaded.OpenAI.Language)
	}
}
