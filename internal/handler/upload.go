package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/critterpost/critterpost/internal/storage"
	"github.com/critterpost/critterpost/internal/validation"
)

type uploadHandler struct {
	storage storage.Storage
}

func NewUploadHandler(storage storage.Storage) *uploadHandler {
	return &uploadHandler{
		storage: storage,
	}
}

// Upload stores a user-provided image in object storage and returns its URL.
func (h *uploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// 10MB total request limit; individual file limit enforced by validation
	err := r.ParseMultipartForm(10 << 20)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateImageUpload(header)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := fmt.Sprintf("uploads/%s%s", uuid.New().String(), filepath.Ext(header.Filename))

	err = h.storage.Save(r.Context(), key, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"file_url": h.storage.URL(key),
	})
}
