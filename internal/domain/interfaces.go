package domain

// ImageRecord is a single entry in the vector store: the embedding of an
// image description together with the filename of the image it describes.
type ImageRecord struct {
	ID       uint64
	Vector   []float64
	FileName string
}

// SearchMatch is a stored image matched against a query, with its
// cosine-similarity score.
type SearchMatch struct {
	FileName string
	Score    float64
}

// Embedder converts free text into a numeric vector representation of a
// fixed dimensionality. Indexing and querying must go through the same
// embedder so both vectors live in one embedding space.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Captioner produces a natural-language description of an image file.
type Captioner interface {
	Describe(imagePath string) (string, error)
}

// VectorStore persists image records and supports similarity search.
type VectorStore interface {
	EnsureCollection() error
	Count() (uint64, error)
	Upsert(rec ImageRecord) error
	Search(vector []float64, limit int) ([]SearchMatch, error)
}

// ImageFinder defines the operations exposed by the application core.
type ImageFinder interface {
	StoreImage(fileName string, data []byte) (caption string, err error)
	FindImage(query string) (SearchMatch, error)
}
