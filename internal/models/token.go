package models

import "time"

// TokenKind — вид непрозрачного токена.
type TokenKind string

const (
	// TokenKindStrong — сессионный токен пользователя, ограничен по времени.
	TokenKindStrong TokenKind = "strong"
	// TokenKindAPIKey — долгоживущий ключ проекта, умирает только при отзыве.
	TokenKindAPIKey TokenKind = "api-key"
)

// Valid сообщает, известен ли вид токена.
func (k TokenKind) Valid() bool {
	return k == TokenKindStrong || k == TokenKindAPIKey
}

// Claims — данные, к которым привязан токен.
//   - strong: UserID + Roles;
//   - api-key: ProjectID.
type Claims struct {
	UserID    string   `json:"user_id,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	ProjectID string   `json:"project_id,omitempty"`
}

// TokenRecord — запись токена в key-value хранилище (ключ token:{TokenID}).
// Сырой секрет не хранится: только его HMAC (SecretHash, base64url).
type TokenRecord struct {
	TokenID    string    `json:"token_id"`
	SecretHash string    `json:"secret_hash"`
	Kind       TokenKind `json:"kind"`
	// ExpiresAt — epoch millis; nil для api-key.
	ExpiresAt *int64 `json:"expires_at"`
	Claims    Claims `json:"claims"`
}

// IssuedToken — результат выпуска токена. Token эквивалентен секрету
// и не должен попадать в логи.
type IssuedToken struct {
	TokenID   string
	Token     string
	ExpiresAt *time.Time
}

// TokenInfo — публичная часть записи токена (без хэша секрета).
type TokenInfo struct {
	TokenID   string
	Kind      TokenKind
	ExpiresAt *time.Time
	Claims    Claims
}
