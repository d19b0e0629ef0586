package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/transport/http/middleware"
	apierrors "github.com/pribylovaa/go-auth-tokens/internal/transport/http/errors"
)

// CreateProject — POST /projects.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var in ProjectRequest
	if err := decodeStrict(w, r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	p, err := h.svc.CreateProject(r.Context(), owner, in.Name)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, projectFromModel(p))
}

// ListProjects — GET /projects.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	ps, err := h.svc.ListProjects(r.Context(), owner)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]ProjectResponse, 0, len(ps))
	for i := range ps {
		out = append(out, projectFromModel(&ps[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetProject — GET /projects/{id}.
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	pid, ok := projectID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetProject(r.Context(), owner, pid)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projectFromModel(p))
}

// IssueAPIKey — POST /projects/{id}/api-keys.
func (h *Handlers) IssueAPIKey(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	pid, ok := projectID(w, r)
	if !ok {
		return
	}

	issued, err := h.svc.IssueAPIKey(r.Context(), owner, pid)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, APIKeyResponse{TokenID: issued.TokenID, Token: issued.Token})
}

// RevokeAPIKey — DELETE /projects/{id}/api-keys/{tokenID}.
// Ключ, не принадлежащий проекту, — 404.
func (h *Handlers) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	pid, ok := projectID(w, r)
	if !ok {
		return
	}

	err := h.svc.RevokeAPIKey(r.Context(), owner, pid, chi.URLParam(r, "tokenID"))
	if err != nil {
		if errors.Is(err, autherr.ErrTokenNotFound) {
			apierrors.Write(w, r, http.StatusNotFound, apierrors.NotFound)
			return
		}
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// KeyProject — GET /api-key/project (под RequireProject).
func (h *Handlers) KeyProject(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.ProjectFrom(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, apierrors.Unauthorized)
		return
	}

	writeJSON(w, http.StatusOK, projectFromModel(p))
}

func ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	acc, ok := middleware.AccountFrom(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, apierrors.Unauthorized)
		return uuid.Nil, false
	}
	return acc.ID, true
}

func projectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidArgument(w, r)
		return uuid.Nil, false
	}
	return id, true
}
