package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/finlens/finlens/internal/docload"
	"github.com/finlens/finlens/internal/pdftext"
	"github.com/finlens/finlens/internal/store"
	"github.com/finlens/finlens/internal/textrank"
)

// handleUpload stores a prospectus or statement workbook and returns its
// file_id. Extraction runs once here to validate the file and count
// pages; the analysis itself is computed lazily on first request.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	fileID, _, ok := s.acceptUpload(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"file_id":     fileID,
		"analyze_url": fmt.Sprintf("/api/analyze/%s", fileID),
	})
}

// handleUploadAndAnalyze is the one-shot variant: store the document and
// run the full analysis before responding.
func (s *Server) handleUploadAndAnalyze(w http.ResponseWriter, r *http.Request) {
	fileID, _, ok := s.acceptUpload(w, r)
	if !ok {
		return
	}
	res, err := s.analyzer.Analyze(r.Context(), fileID)
	if err != nil {
		s.writeAnalyzeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(res)
}

// acceptUpload reads the multipart upload, validates and extracts it,
// and stores it. On failure it has already written the error response.
func (s *Server) acceptUpload(w http.ResponseWriter, r *http.Request) (fileID, filename string, ok bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	defer file.Close()

	filename = sanitizeFilename(header.Filename)
	if !docload.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", "", false
	}

	// Extract up front so a broken file is rejected at upload time
	// instead of surfacing on the first analyze call.
	pages, err := docload.Load(r.Context(), filename, data)
	if err != nil {
		if errors.Is(err, pdftext.ErrUnreadablePDF) {
			jsonError(w, "unreadable document: "+err.Error(), http.StatusUnprocessableEntity)
		} else {
			jsonError(w, "unreadable document: "+err.Error(), http.StatusBadRequest)
		}
		return "", "", false
	}

	fileID, err = s.store.SubmitDocument(filename, data, len(pages))
	if err != nil {
		s.log.Error("store document failed", "filename", filename, "error", err)
		jsonError(w, "failed to store document", http.StatusInternalServerError)
		return "", "", false
	}
	s.log.Info("document stored", "file_id", fileID, "filename", filename, "pages", len(pages))
	return fileID, filename, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	res, err := s.analyzer.Analyze(r.Context(), fileID)
	if err != nil {
		s.writeAnalyzeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	sum, err := s.analyzer.Summary(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, textrank.ErrSummaryUnavailable) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.writeAnalyzeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sum)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments()
	if err != nil {
		s.log.Error("list documents failed", "error", err)
		jsonError(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	if err := s.store.DeleteDocument(fileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		s.log.Error("delete document failed", "file_id", fileID, "error", err)
		jsonError(w, "failed to delete document", http.StatusInternalServerError)
		return
	}
	s.analyzer.Invalidate(fileID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "document not found", http.StatusNotFound)
	case errors.Is(err, pdftext.ErrUnreadablePDF):
		jsonError(w, "unreadable document: "+err.Error(), http.StatusUnprocessableEntity)
	default:
		s.log.Error("analysis failed", "error", err)
		jsonError(w, "analysis failed", http.StatusInternalServerError)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
