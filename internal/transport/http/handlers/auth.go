package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-auth-tokens/internal/transport/http/middleware"
	apierrors "github.com/pribylovaa/go-auth-tokens/internal/transport/http/errors"
)

// SignUp — POST /auth/sign-up.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var in CredentialsRequest
	if err := decodeStrict(w, r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	id, err := h.svc.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, SignUpResponse{ID: id.String()})
}

// SignIn — POST /auth/sign-in.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in CredentialsRequest
	if err := decodeStrict(w, r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	token, err := h.svc.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SignInResponse{Token: token})
}

// Me — GET /auth/me (под RequireAccount).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	acc, ok := middleware.AccountFrom(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, apierrors.Unauthorized)
		return
	}

	writeJSON(w, http.StatusOK, accountFromModel(acc))
}
