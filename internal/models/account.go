package models

import (
	"time"

	"github.com/google/uuid"
)

// Account — учётная запись. Изменяемых полей нет: PasswordHash
// задаётся при регистрации и ядром не переписывается.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
