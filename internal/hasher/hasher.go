// hasher — коллаборатор хэширования паролей. Стоимость bcrypt
// задаётся конфигурацией и ядру аутентификации не видна.
package hasher

//go:generate mockgen -source=hasher.go -destination=../../mocks/mock_hasher.go -package=mocks

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
)

// DefaultCost — стоимость bcrypt по умолчанию.
const DefaultCost = 10

// Hasher хэширует и проверяет пароли.
type Hasher interface {
	// Hash возвращает хэш пароля; сбой — autherr.KindHashing.
	Hash(plain string) (string, error)
	// Verify сравнивает пароль с хэшем: несовпадение — (false, nil),
	// сбой (битый хэш и т.п.) — autherr.KindHashing.
	Verify(plain, hash string) (bool, error)
}

// Bcrypt — Hasher на golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt создаёт Bcrypt. Стоимость вне [bcrypt.MinCost, bcrypt.MaxCost] заменяется на DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	return &Bcrypt{cost: cost}
}

// Hash хэширует пароль с помощью bcrypt.
func (b *Bcrypt) Hash(plain string) (string, error) {
	const op = "hasher.bcrypt.Hash"

	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, autherr.New(autherr.KindHashing, "", err))
	}

	return string(bytes), nil
}

// Verify сравнивает пароль с хэшем.
func (b *Bcrypt) Verify(plain, hash string) (bool, error) {
	const op = "hasher.bcrypt.Verify"

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindHashing, "", err))
	}
}

var _ Hasher = (*Bcrypt)(nil)
