package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"imagefinder/internal/domain"
)

// Storage is a minimal REST client to Qdrant. The collection uses cosine
// distance and a dimensionality fixed at creation time.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if it does not exist yet.
// Calling it again once the collection exists is a no-op.
func (s *Storage) EnsureCollection() error {
	if s.dimension <= 0 {
		return errors.New("invalid dimension")
	}
	exists, err := s.collectionExists()
	if err != nil {
		return err
	}
	if exists {
		log.Printf("qdrant collection %q already exists", s.collection)
		return nil
	}
	log.Printf("creating qdrant collection %q", s.collection)
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

// Count returns the exact number of points in the collection.
func (s *Storage) Count() (uint64, error) {
	req := map[string]any{"exact": true}
	var resp struct {
		Result struct {
			Count uint64 `json:"count"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection), req, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Upsert inserts or replaces a single point keyed by the record id.
func (s *Storage) Upsert(rec domain.ImageRecord) error {
	if len(rec.Vector) != s.dimension {
		return errors.New("vector dimension mismatch")
	}
	body := map[string]any{
		"points": []map[string]any{{
			"id":     rec.ID,
			"vector": rec.Vector,
			"payload": map[string]any{
				"file_name": rec.FileName,
			},
		}},
	}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Search returns up to limit nearest neighbors by cosine similarity.
// An empty collection yields an empty slice, not an error.
func (s *Storage) Search(vector []float64, limit int) ([]domain.SearchMatch, error) {
	if limit <= 0 {
		limit = 1
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	matches := make([]domain.SearchMatch, 0, len(resp.Result))
	for _, r := range resp.Result {
		m := domain.SearchMatch{Score: r.Score}
		if v, ok := r.Payload["file_name"].(string); ok {
			m.FileName = v
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *Storage) collectionExists() (bool, error) {
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("qdrant GET collection failed: %s", resp.Status)
	}
}

func (s *Storage) putJSON(url string, body any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Storage) postJSON(url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		dec := json.NewDecoder(resp.Body)
		return dec.Decode(out)
	}
	return nil
}
