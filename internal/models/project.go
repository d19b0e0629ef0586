package models

import (
	"time"

	"github.com/google/uuid"
)

// Project — проект пользователя; к нему привязываются api-key токены.
type Project struct {
	ID          uuid.UUID
	Name        string
	OwnerUserID uuid.UUID
	CreatedAt   time.Time
}
