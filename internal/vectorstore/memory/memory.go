package memory

import (
	"errors"
	"math"
	"sync"

	"imagefinder/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine
// similarity. It backs local runs without a Qdrant instance and the tests.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	records   []domain.ImageRecord
}

func NewStorage(dimension int) *Storage {
	return &Storage{dimension: dimension}
}

// EnsureCollection validates the configured dimensionality. There is
// nothing to create; repeated calls are no-ops.
func (s *Storage) EnsureCollection() error {
	if s.dimension <= 0 {
		return errors.New("invalid dimension")
	}
	return nil
}

// Count returns the number of stored records.
func (s *Storage) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.records)), nil
}

// Upsert inserts the record, replacing any existing record with the same id.
func (s *Storage) Upsert(rec domain.ImageRecord) error {
	if len(rec.Vector) != s.dimension {
		return errors.New("vector dimension mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return nil
		}
	}
	s.records = append(s.records, rec)
	return nil
}

// Search returns up to limit records ranked by cosine similarity.
func (s *Storage) Search(vector []float64, limit int) ([]domain.SearchMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 1
	}
	scores := make([]float64, len(s.records))
	for i := range s.records {
		scores[i] = cosine(s.records[i].Vector, vector)
	}
	idxs := argsortDesc(scores)
	if limit > len(idxs) {
		limit = len(idxs)
	}
	matches := make([]domain.SearchMatch, 0, limit)
	for i := 0; i < limit; i++ {
		j := idxs[i]
		matches = append(matches, domain.SearchMatch{FileName: s.records[j].FileName, Score: scores[j]})
	}
	return matches, nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	quicksort(idxs, vals, 0, len(idxs)-1)
	return idxs
}

func quicksort(idxs []int, vals []float64, lo, hi int) {
	if lo >= hi {
		return
	}
	i, j := lo, hi
	pivot := vals[idxs[(lo+hi)/2]]
	for i <= j {
		for vals[idxs[i]] > pivot { // desc order
			i++
		}
		for vals[idxs[j]] < pivot {
			j--
		}
		if i <= j {
			idxs[i], idxs[j] = idxs[j], idxs[i]
			i++
			j--
		}
	}
	if lo < j {
		quicksort(idxs, vals, lo, j)
	}
	if i < hi {
		quicksort(idxs, vals, i, hi)
	}
}
