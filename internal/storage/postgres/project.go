package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-auth-tokens/internal/models"
	"github.com/pribylovaa/go-auth-tokens/internal/storage"
)

// SaveProject сохраняет новый проект в БД.
func (s *Storage) SaveProject(ctx context.Context, project *models.Project) error {
	const op = "storage.postgres.SaveProject"

	query := `
        INSERT INTO projects(id, name, owner_user_id, created_at)
        VALUES ($1, $2, $3, $4)
    `

	_, err := s.db.Exec(ctx, query,
		project.ID,
		project.Name,
		project.OwnerUserID,
		project.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
			case pgerrcode.ForeignKeyViolation:
				// владелец исчез между проверкой и вставкой.
				return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
			}
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ProjectByID находит проект по ID.
func (s *Storage) ProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	const op = "storage.postgres.ProjectByID"

	query := `
        SELECT id, name, owner_user_id, created_at
        FROM projects
        WHERE id = $1
    `

	var project models.Project
	err := s.db.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.OwnerUserID,
		&project.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &project, nil
}

// ProjectsByOwner возвращает проекты владельца, новые сначала.
func (s *Storage) ProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	const op = "storage.postgres.ProjectsByOwner"

	query := `
        SELECT id, name, owner_user_id, created_at
        FROM projects
        WHERE owner_user_id = $1
        ORDER BY created_at DESC, id
    `

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.OwnerUserID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return projects, nil
}
