package handlers

import (
	"time"

	"github.com/pribylovaa/go-auth-tokens/internal/models"
)

// CredentialsRequest — тело sign-up и sign-in.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpResponse struct {
	ID string `json:"id"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectRequest struct {
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID string    `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// APIKeyResponse — выпущенный api-key. Token показывается один раз.
type APIKeyResponse struct {
	TokenID string `json:"token_id"`
	Token   string `json:"token"`
}

func accountFromModel(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		CreatedAt: a.CreatedAt.UTC(),
	}
}

func projectFromModel(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		OwnerUserID: p.OwnerUserID.String(),
		CreatedAt:   p.CreatedAt.UTC(),
	}
}
