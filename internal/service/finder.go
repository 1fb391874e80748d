package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"imagefinder/internal/domain"
	"imagefinder/internal/imagestore"
)

// ErrNoMatch is returned by FindImage when the collection is empty.
var ErrNoMatch = errors.New("no matching image found")

// Finder implements the indexing and retrieval workflows over the three
// adapters and the image directory.
type Finder struct {
	captioner domain.Captioner
	embedder  domain.Embedder
	store     domain.VectorStore
	images    *imagestore.Store
}

func NewFinder(captioner domain.Captioner, embedder domain.Embedder, store domain.VectorStore, images *imagestore.Store) *Finder {
	return &Finder{captioner: captioner, embedder: embedder, store: store, images: images}
}

// Images exposes the underlying image directory.
func (f *Finder) Images() *imagestore.Store { return f.images }

// StoreImage saves the image bytes under fileName, captions the saved
// file, embeds the caption and upserts the vector record. It returns the
// generated caption.
//
// The record id is the current exact record count plus one. That is a
// read-then-write with no isolation; concurrent writers can collide. A
// single interactive user is the intended model, so the race is accepted
// rather than papered over.
//
// A failure after the file is written leaves an orphaned image with no
// record; there is no rollback.
func (f *Finder) StoreImage(fileName string, data []byte) (string, error) {
	path, err := f.images.Save(fileName, data)
	if err != nil {
		return "", err
	}
	caption, err := f.captioner.Describe(path)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	vec, err := f.embedder.Embed(caption)
	if err != nil {
		return "", fmt.Errorf("embed caption: %w", err)
	}
	count, err := f.store.Count()
	if err != nil {
		return "", fmt.Errorf("count records: %w", err)
	}
	rec := domain.ImageRecord{
		ID:       count + 1,
		Vector:   vec,
		FileName: filepath.Base(fileName),
	}
	if err := f.store.Upsert(rec); err != nil {
		return "", fmt.Errorf("upsert record: %w", err)
	}
	return caption, nil
}

// FindImage embeds the query, searches for the single nearest neighbor
// and returns its filename and score. An empty collection surfaces
// ErrNoMatch instead of faulting on a missing first result. No relevance
// threshold is applied: one stored image always matches something.
func (f *Finder) FindImage(query string) (domain.SearchMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchMatch{}, errors.New("empty query")
	}
	vec, err := f.embedder.Embed(query)
	if err != nil {
		return domain.SearchMatch{}, fmt.Errorf("embed query: %w", err)
	}
	matches, err := f.store.Search(vec, 1)
	if err != nil {
		return domain.SearchMatch{}, fmt.Errorf("search records: %w", err)
	}
	if len(matches) == 0 {
		return domain.SearchMatch{}, ErrNoMatch
	}
	return matches[0], nil
}
