package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/service"
)

type postHandlers struct {
	posts *service.PostService
}

func (h *postHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string     `json:"title"`
		Content     string     `json:"content"`
		PublishedAt *time.Time `json:"published_at"`
		ReadingTime int        `json:"reading_time"`
		Author      string     `json:"author"`
		CreatedBy   string     `json:"created_by"`
		OwnerID     string     `json:"owner_id"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	p, err := h.posts.Create(r.Context(), repository.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		PublishedAt: req.PublishedAt,
		ReadingTime: req.ReadingTime,
		Author:      req.Author,
		OwnerID:     req.OwnerID,
	}, chi.URLParam(r, "workspace"), req.CreatedBy)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toPostView(p))
}

func (h *postHandlers) list(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	result, err := h.posts.List(r.Context(), chi.URLParam(r, "workspace"), page, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	out := pageView[postView]{Items: make([]postView, 0, len(result.Items)), Total: result.Total}
	for i := range result.Items {
		out.Items = append(out.Items, toPostView(&result.Items[i]))
	}
	WriteJSON(w, http.StatusOK, out)
}

func (h *postHandlers) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "workspace"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPostView(p))
}

func (h *postHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string    `json:"title"`
		Content     *string    `json:"content"`
		PublishedAt *time.Time `json:"published_at"`
		ReadingTime *int       `json:"reading_time"`
		Author      *string    `json:"author"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	p, err := h.posts.Update(r.Context(), chi.URLParam(r, "id"), repository.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		PublishedAt: req.PublishedAt,
		ReadingTime: req.ReadingTime,
		Author:      req.Author,
	}, chi.URLParam(r, "workspace"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPostView(p))
}

func (h *postHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "workspace")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
