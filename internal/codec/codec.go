// codec кодирует непрозрачные токены и считает их хэш целостности.
//
// Формат строки токена: base64url(без паддинга) от "tokenID.tokenSecret".
// Строка эквивалентна секрету и не должна попадать в логи. Клиенты
// не разбирают её: внутреннее устройство не является частью контракта.
package codec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
)

const (
	// SecretSize — энтропия секрета токена в байтах (256 бит).
	SecretSize = 32
	// MinKeySize — минимальная длина серверного HMAC-ключа в байтах.
	MinKeySize = 32
	// MaxTokenLen — предел длины предъявленной строки (до декодирования).
	MaxTokenLen = 512

	separator = "."
)

var (
	enc = base64.RawURLEncoding
	// dec отвергает ненулевые неиспользуемые биты последнего символа:
	// у каждой пары (id, secret) ровно одна строка токена.
	dec = base64.RawURLEncoding.Strict()
)

// Encode собирает строку токена из идентификатора и секрета.
func Encode(tokenID, tokenSecret string) string {
	return enc.EncodeToString([]byte(tokenID + separator + tokenSecret))
}

// Decode разбирает строку токена. Любое отклонение от формата —
// ровно две непустые части через одну точку — даёт MalformedTokenError.
func Decode(token string) (tokenID, tokenSecret string, err error) {
	const op = "codec.Decode"

	if token == "" || len(token) > MaxTokenLen {
		return "", "", fmt.Errorf("%s: %w", op, autherr.ErrMalformedToken)
	}

	raw, err := dec.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, autherr.New(autherr.KindMalformedToken, "", err))
	}
	// Strict() всё ещё пропускает \r и \n внутри строки.
	if enc.EncodeToString(raw) != token {
		return "", "", fmt.Errorf("%s: %w", op, autherr.ErrMalformedToken)
	}

	s := string(raw)
	if strings.Count(s, separator) != 1 {
		return "", "", fmt.Errorf("%s: %w", op, autherr.ErrMalformedToken)
	}

	tokenID, tokenSecret, _ = strings.Cut(s, separator)
	if tokenID == "" || tokenSecret == "" {
		return "", "", fmt.Errorf("%s: %w", op, autherr.ErrMalformedToken)
	}

	return tokenID, tokenSecret, nil
}

// NewSecret генерирует секрет токена: SecretSize байт из crypto/rand в base64url.
func NewSecret() (string, error) {
	const op = "codec.NewSecret"

	b := make([]byte, SecretSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return enc.EncodeToString(b), nil
}

// Integrity считает HMAC-SHA256 секрета на серверном ключе.
// Ключ — конфигурация процесса, передаётся явно при сборке сервиса.
type Integrity struct {
	key []byte
}

// NewIntegrity создаёт Integrity. Ключ короче MinKeySize отвергается.
func NewIntegrity(key []byte) (*Integrity, error) {
	const op = "codec.NewIntegrity"

	if len(key) < MinKeySize {
		return nil, fmt.Errorf("%s: server secret must be at least %d bytes", op, MinKeySize)
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &Integrity{key: k}, nil
}

// Sum возвращает HMAC-SHA256(key, tokenSecret).
func (i *Integrity) Sum(tokenSecret string) []byte {
	m := hmac.New(sha256.New, i.key)
	m.Write([]byte(tokenSecret))
	return m.Sum(nil)
}

// Equal пересчитывает хэш секрета и сравнивает его с сохранённым за время,
// не зависящее от содержимого.
func (i *Integrity) Equal(tokenSecret string, stored []byte) bool {
	return hmac.Equal(i.Sum(tokenSecret), stored)
}

// EncodeHash переводит хэш в строковую форму для записи токена.
func EncodeHash(sum []byte) string {
	return enc.EncodeToString(sum)
}

// DecodeHash разбирает строковую форму хэша из записи токена.
func DecodeHash(s string) ([]byte, error) {
	return dec.DecodeString(s)
}
