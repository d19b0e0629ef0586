package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/models"
	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
)

const maxProjectNameRunes = 100

// CreateProject создаёт проект владельца ownerID.
func (s *Service) CreateProject(ctx context.Context, ownerID uuid.UUID, name string) (*models.Project, error) {
	const op = "service.projects.CreateProject"

	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxProjectNameRunes {
		return nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidArgument, "name", nil))
	}

	p := &models.Project{
		ID:          uuid.New(),
		Name:        name,
		OwnerUserID: ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.storage.SaveProject(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, repoErr(err, autherr.KindAccountNotFound, ownerID.String()))
	}

	log.From(ctx).Info("project_created",
		slog.String("project_id", p.ID.String()),
		slog.String("owner_id", ownerID.String()),
	)

	return p, nil
}

// ListProjects возвращает проекты владельца, от новых к старым.
func (s *Service) ListProjects(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	const op = "service.projects.ListProjects"

	projects, err := s.storage.ProjectsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, repoErr(err, autherr.KindRepository, ownerID.String()))
	}

	if projects == nil {
		projects = []models.Project{}
	}

	return projects, nil
}

// GetProject возвращает проект, если он принадлежит ownerID.
// Чужой проект неотличим от отсутствующего.
func (s *Service) GetProject(ctx context.Context, ownerID, projectID uuid.UUID) (*models.Project, error) {
	const op = "service.projects.GetProject"

	p, err := s.storage.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, repoErr(err, autherr.KindProjectNotFound, projectID.String()))
	}

	if p.OwnerUserID != ownerID {
		return nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindProjectNotFound, projectID.String(), nil))
	}

	return p, nil
}

// IssueAPIKey выпускает api-key для проекта владельца.
func (s *Service) IssueAPIKey(ctx context.Context, ownerID, projectID uuid.UUID) (*models.IssuedToken, error) {
	const op = "service.projects.IssueAPIKey"

	p, err := s.GetProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	issued, err := s.tokens.Issue(ctx, models.TokenKindAPIKey, models.Claims{ProjectID: p.ID.String()})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("api_key_issued",
		slog.String("project_id", p.ID.String()),
		slog.String("token_id", issued.TokenID),
	)

	return issued, nil
}

// RevokeAPIKey отзывает api-key проекта. Ключ другого проекта
// (или strong-токен) считается отсутствующим.
func (s *Service) RevokeAPIKey(ctx context.Context, ownerID, projectID uuid.UUID, tokenID string) error {
	const op = "service.projects.RevokeAPIKey"

	p, err := s.GetProject(ctx, ownerID, projectID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	info, err := s.tokens.Inspect(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if info.Kind != models.TokenKindAPIKey || info.Claims.ProjectID != p.ID.String() {
		return fmt.Errorf("%s: %w", op, autherr.New(autherr.KindTokenNotFound, tokenID, nil))
	}

	if err := s.tokens.Revoke(ctx, tokenID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("api_key_revoked",
		slog.String("project_id", p.ID.String()),
		slog.String("token_id", tokenID),
	)

	return nil
}

// ResolveProject проверяет api-key и загружает его проект.
func (s *Service) ResolveProject(ctx context.Context, apiKey string) (*models.Project, error) {
	const op = "service.projects.ResolveProject"

	claims, err := s.tokens.Validate(ctx, apiKey, models.TokenKindAPIKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.Parse(claims.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindCorruptRecord, claims.ProjectID, err))
	}

	p, err := s.storage.ProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, repoErr(err, autherr.KindProjectNotFound, id.String()))
	}

	return p, nil
}
