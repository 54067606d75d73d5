package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davilabs/rapida/internal/upload"
)

type fileHandlers struct {
	uploads *upload.Client
}

// create recibe un multipart con el campo "file" y devuelve el nombre de
// objeto generado, que es el que se guarda en related_files del perfil.
func (h *fileHandlers) create(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "uploads_disabled", "object storage no configurado")
		return
	}

	// máx 32MB por archivo
	r.Body = http.MaxBytesReader(w, r.Body, 32<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_upload", "se requiere el campo multipart 'file'")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	object, err := h.uploads.Put(r.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "upload_failed", "no se pudo subir el archivo")
		return
	}

	WriteJSON(w, http.StatusCreated, struct {
		FileName string `json:"file_name"`
	}{object})
}

// get devuelve una URL firmada de lectura para el objeto.
func (h *fileHandlers) get(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "uploads_disabled", "object storage no configurado")
		return
	}

	url, err := h.uploads.PresignGet(r.Context(), chi.URLParam(r, "object"), 15*time.Minute)
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "archivo no encontrado")
		return
	}

	WriteJSON(w, http.StatusOK, struct {
		URL string `json:"url"`
	}{url})
}

// remove borra el objeto del bucket.
func (h *fileHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "uploads_disabled", "object storage no configurado")
		return
	}

	if err := h.uploads.Remove(r.Context(), chi.URLParam(r, "object")); err != nil {
		WriteError(w, http.StatusInternalServerError, "delete_failed", "no se pudo borrar el archivo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
