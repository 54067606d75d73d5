package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davilabs/rapida/internal/service"
)

type userHandlers struct {
	users *service.UserService
}

func (h *userHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	u, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toUserView(u))
}

func (h *userHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserView(u))
}

func (h *userHandlers) verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	u, err := h.users.Verify(r.Context(), req.Token)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserView(u))
}

func (h *userHandlers) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserView(u))
}

func (h *userHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	u, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserView(u))
}

// remove borra la cuenta. Por defecto es un soft delete que dispara la
// cascada y agenda el hard delete diferido; ?hard=true borra físico ya.
func (h *userHandlers) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var err error
	if r.URL.Query().Get("hard") == "true" {
		err = h.users.HardDelete(r.Context(), id)
	} else {
		err = h.users.SoftDelete(r.Context(), id)
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *userHandlers) restore(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Restore(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
