package qdrant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"imagefinder/internal/domain"
)

// fakeQdrant simulates the subset of the Qdrant REST API the adapter uses.
type fakeQdrant struct {
	created bool
	creates int
	points  []map[string]any
}

func (f *fakeQdrant) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/test", func(w http.ResponseWriter, r *http.Request) {
		if !f.created {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PUT /collections/test", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Vectors struct {
				Size     int    `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		if body.Vectors.Distance != "Cosine" {
			t.Errorf("expected Cosine distance, got %q", body.Vectors.Distance)
		}
		if body.Vectors.Size != 3 {
			t.Errorf("expected size 3, got %d", body.Vectors.Size)
		}
		f.created = true
		f.creates++
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /collections/test/points/count", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Exact bool `json:"exact"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !body.Exact {
			t.Error("expected exact count request")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"count": len(f.points)},
		})
	})
	mux.HandleFunc("PUT /collections/test/points", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("wait") != "true" {
			t.Error("expected wait=true on upsert")
		}
		var body struct {
			Points []map[string]any `json:"points"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode upsert body: %v", err)
		}
		f.points = append(f.points, body.Points...)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /collections/test/points/search", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Vector      []float64 `json:"vector"`
			Limit       int       `json:"limit"`
			WithPayload bool      `json:"with_payload"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !body.WithPayload {
			t.Error("expected with_payload on search")
		}
		results := make([]map[string]any, 0, body.Limit)
		for i, p := range f.points {
			if i >= body.Limit {
				break
			}
			results = append(results, map[string]any{
				"score":   0.9,
				"payload": p["payload"],
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": results})
	})
	return mux
}

func newTestStorage(t *testing.T, fake *fakeQdrant) *Storage {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return NewStorage(Config{URL: srv.URL, Collection: "test", Dimension: 3})
}

func TestEnsureCollectionCreatesOnce(t *testing.T) {
	fake := &fakeQdrant{}
	s := newTestStorage(t, fake)

	if err := s.EnsureCollection(); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureCollection(); err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if fake.creates != 1 {
		t.Errorf("expected exactly one create, got %d", fake.creates)
	}
}

func TestCountAndUpsert(t *testing.T) {
	fake := &fakeQdrant{created: true}
	s := newTestStorage(t, fake)

	count, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected empty collection, got %d", count)
	}

	err = s.Upsert(domain.ImageRecord{ID: 1, Vector: []float64{1, 0, 0}, FileName: "a.png"})
	if err != nil {
		t.Fatal(err)
	}
	count, err = s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
	payload, ok := fake.points[0]["payload"].(map[string]any)
	if !ok || payload["file_name"] != "a.png" {
		t.Errorf("unexpected payload: %+v", fake.points[0])
	}
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	fake := &fakeQdrant{created: true}
	s := newTestStorage(t, fake)

	err := s.Upsert(domain.ImageRecord{ID: 1, Vector: []float64{1, 0}, FileName: "a.png"})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if len(fake.points) != 0 {
		t.Error("no point should have been written")
	}
}

func TestSearchMapsPayload(t *testing.T) {
	fake := &fakeQdrant{created: true}
	s := newTestStorage(t, fake)

	if err := s.Upsert(domain.ImageRecord{ID: 1, Vector: []float64{1, 0, 0}, FileName: "a.png"}); err != nil {
		t.Fatal(err)
	}
	matches, err := s.Search([]float64{1, 0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	if matches[0].FileName != "a.png" {
		t.Errorf("file name: got %q", matches[0].FileName)
	}
	if matches[0].Score != 0.9 {
		t.Errorf("score: got %f", matches[0].Score)
	}
}

func TestSearchEmptyCollection(t *testing.T) {
	fake := &fakeQdrant{created: true}
	s := newTestStorage(t, fake)

	matches, err := s.Search([]float64{1, 0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}
