package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/service"
)

type invitationHandlers struct {
	invitations *service.InvitationService
}

func (h *invitationHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Role      string `json:"role"`
		CreatedBy string `json:"created_by"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	inv, token, err := h.invitations.Invite(r.Context(), req.Email, req.Role, req.CreatedBy)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, struct {
		Invitation invitationView `json:"invitation"`
		Token      string         `json:"token"`
	}{toInvitationView(inv), token})
}

func (h *invitationHandlers) accept(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	inv, err := h.invitations.Accept(r.Context(), req.Token)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toInvitationView(inv))
}

func (h *invitationHandlers) get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invitations.Get(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("owner"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toInvitationView(inv))
}

func (h *invitationHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter repository.InvitationFilter
	if v := q.Get("email"); v != "" {
		filter.Email = &v
	}
	if v := q.Get("role"); v != "" {
		filter.Role = &v
	}
	if v := q.Get("accepted"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Accepted = &b
		}
	}
	if v := q.Get("created_by"); v != "" {
		filter.CreatedBy = &v
	}
	if v := q.Get("owner"); v != "" {
		filter.OwnerID = &v
	}
	filter.Page, filter.Limit = parsePage(r)

	list, total, err := h.invitations.List(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	out := pageView[invitationView]{Items: make([]invitationView, 0, len(list)), Total: total}
	for i := range list {
		out.Items = append(out.Items, toInvitationView(&list[i]))
	}
	WriteJSON(w, http.StatusOK, out)
}

func (h *invitationHandlers) revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.invitations.Revoke(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
