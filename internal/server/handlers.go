package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"imagefinder/internal/imagestore"
	"imagefinder/internal/service"
)

// maxUploadBytes bounds a single image upload (32 MiB).
const maxUploadBytes = 32 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexPage)
}

func (s *Server) handleStoreImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()
	name := filepath.Base(header.Filename)
	if !allowedImageName(name) {
		s.respondError(w, http.StatusBadRequest, "only jpg, jpeg and png files are supported")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "read upload")
		return
	}
	s.logger.Debug("store image request", zap.String("file_name", name), zap.Int("bytes", len(data)))
	caption, err := s.finder.StoreImage(name, data)
	if err != nil {
		if errors.Is(err, imagestore.ErrAlreadyExists) {
			s.respondError(w, http.StatusConflict, "a file with that name already exists; rename it to store")
			return
		}
		s.logger.Error("store image failed", zap.String("file_name", name), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{
		"file_name": name,
		"caption":   caption,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(in.Query)
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "empty query")
		return
	}
	s.logger.Debug("search request", zap.String("query", query))
	match, err := s.finder.FindImage(query)
	if err != nil {
		if errors.Is(err, service.ErrNoMatch) {
			s.respondError(w, http.StatusNotFound, "no matching image found")
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"file_name": match.FileName,
		"score":     match.Score,
		"url":       "/images/" + match.FileName,
	})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))
	if !s.images.Exists(name) {
		s.respondError(w, http.StatusNotFound, "image not found")
		return
	}
	http.ServeFile(w, r, s.images.Path(name))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func allowedImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
