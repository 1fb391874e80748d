package vectorstore

import "imagefinder/internal/domain"

// Storage persists image records and supports similarity search.
type Storage interface {
	EnsureCollection() error
	Count() (uint64, error)
	Upsert(rec domain.ImageRecord) error
	Search(vector []float64, limit int) ([]domain.SearchMatch, error)
}
