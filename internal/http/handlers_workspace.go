package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/service"
)

type workspaceHandlers struct {
	workspaces *service.WorkspaceService
}

type aclEntryPayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func toACL(in []aclEntryPayload) []repository.ACLEntry {
	out := make([]repository.ACLEntry, 0, len(in))
	for _, e := range in {
		out = append(out, repository.ACLEntry(e))
	}
	return out
}

func (h *workspaceHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner string            `json:"owner"`
		Name  string            `json:"name"`
		Team  []string          `json:"team"`
		ACL   []aclEntryPayload `json:"acl"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	ws, err := h.workspaces.Create(r.Context(), repository.CreateWorkspaceInput{
		Owner: req.Owner,
		Name:  req.Name,
		Team:  req.Team,
		ACL:   toACL(req.ACL),
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toWorkspaceView(ws))
}

func (h *workspaceHandlers) get(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaces.Get(r.Context(), chi.URLParam(r, "workspace"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toWorkspaceView(ws))
}

// list resuelve ?owner= (workspace del dueño) o ?member= (workspaces donde
// el usuario participa). Exactamente uno de los dos es requerido.
func (h *workspaceHandlers) list(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	member := r.URL.Query().Get("member")

	switch {
	case owner != "" && member == "":
		ws, err := h.workspaces.GetByOwner(r.Context(), owner)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, []workspaceView{toWorkspaceView(ws)})
	case member != "" && owner == "":
		list, err := h.workspaces.ListForUser(r.Context(), member)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		out := make([]workspaceView, 0, len(list))
		for i := range list {
			out = append(out, toWorkspaceView(&list[i]))
		}
		WriteJSON(w, http.StatusOK, out)
	default:
		WriteError(w, http.StatusBadRequest, "invalid_query", "se requiere owner= o member= (exactamente uno)")
	}
}

func (h *workspaceHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name *string            `json:"name"`
		Team *[]string          `json:"team"`
		ACL  *[]aclEntryPayload `json:"acl"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}
	input := repository.UpdateWorkspaceInput{Name: req.Name, Team: req.Team}
	if req.ACL != nil {
		acl := toACL(*req.ACL)
		input.ACL = &acl
	}
	ws, err := h.workspaces.Update(r.Context(), chi.URLParam(r, "workspace"), input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toWorkspaceView(ws))
}

func (h *workspaceHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.workspaces.Delete(r.Context(), chi.URLParam(r, "workspace")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *workspaceHandlers) addMember(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaces.AddMember(r.Context(), chi.URLParam(r, "workspace"), chi.URLParam(r, "userID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toWorkspaceView(ws))
}

func (h *workspaceHandlers) removeMember(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaces.RemoveMember(r.Context(), chi.URLParam(r, "workspace"), chi.URLParam(r, "userID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toWorkspaceView(ws))
}
