// autherr описывает плоский набор видов ошибок ядра аутентификации.
//
// Каждая ошибка — это *Error с видом (Kind), необязательным субъектом
// (id токена/аккаунта или замаскированный e-mail) и исходной причиной.
// Сообщения ошибок предназначены для логов, а не для клиента: транспортные
// слои маппят Kind в стабильный внешний статус с обезличенным текстом.
//
// Сравнение:
//
//	errors.Is(err, autherr.ErrRevokedToken) — истина для любой ошибки вида
//	KindRevokedToken в цепочке, независимо от субъекта и причины.
package autherr

import "errors"

// Kind — вид ошибки. Набор закрыт.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMalformedToken
	KindTokenNotFound
	KindCorruptRecord
	KindInvalidToken
	KindTokenKindMismatch
	KindExpiredToken
	KindRevokedToken
	KindStoreUnavailable
	KindAccountAlreadyExists
	KindAccountNotFound
	KindInvalidPassword
	KindHashing
	KindRepository
	KindInvalidArgument
	KindProjectNotFound
)

var kindNames = [...]string{
	KindUnknown:              "UnknownError",
	KindMalformedToken:       "MalformedTokenError",
	KindTokenNotFound:        "TokenNotFoundError",
	KindCorruptRecord:        "CorruptRecordError",
	KindInvalidToken:         "InvalidTokenError",
	KindTokenKindMismatch:    "TokenKindMismatchError",
	KindExpiredToken:         "ExpiredTokenError",
	KindRevokedToken:         "RevokedTokenError",
	KindStoreUnavailable:     "StoreUnavailableError",
	KindAccountAlreadyExists: "AccountAlreadyExistsError",
	KindAccountNotFound:      "AccountNotFoundError",
	KindInvalidPassword:      "InvalidPasswordError",
	KindHashing:              "HashingError",
	KindRepository:           "RepositoryError",
	KindInvalidArgument:      "InvalidArgumentError",
	KindProjectNotFound:      "ProjectNotFoundError",
}

// String возвращает тег вида ошибки (например, "RevokedTokenError").
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return kindNames[KindUnknown]
}

// Error — единственный тип ошибки ядра.
type Error struct {
	// Kind — вид ошибки.
	Kind Kind
	// Subject — данные для логов: id токена/аккаунта/проекта или замаскированный e-mail.
	Subject string
	// Err — исходная причина (ошибка Redis/БД/bcrypt), может быть nil.
	Err error
}

// New создаёт ошибку вида kind.
func New(kind Kind, subject string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: cause}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Subject != "" {
		msg += "(" + e.Subject + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is сопоставляет ошибку с «голым» эталоном того же вида.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Subject == "" && t.Err == nil
}

// Эталоны для errors.Is.
var (
	ErrMalformedToken       = &Error{Kind: KindMalformedToken}
	ErrTokenNotFound        = &Error{Kind: KindTokenNotFound}
	ErrCorruptRecord        = &Error{Kind: KindCorruptRecord}
	ErrInvalidToken         = &Error{Kind: KindInvalidToken}
	ErrTokenKindMismatch    = &Error{Kind: KindTokenKindMismatch}
	ErrExpiredToken         = &Error{Kind: KindExpiredToken}
	ErrRevokedToken         = &Error{Kind: KindRevokedToken}
	ErrStoreUnavailable     = &Error{Kind: KindStoreUnavailable}
	ErrAccountAlreadyExists = &Error{Kind: KindAccountAlreadyExists}
	ErrAccountNotFound      = &Error{Kind: KindAccountNotFound}
	ErrInvalidPassword      = &Error{Kind: KindInvalidPassword}
	ErrHashing              = &Error{Kind: KindHashing}
	ErrRepository           = &Error{Kind: KindRepository}
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument}
	ErrProjectNotFound      = &Error{Kind: KindProjectNotFound}
)

// KindOf возвращает вид первой *Error в цепочке или KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// Retryable — инфраструктурная ошибка, которую вызывающая сторона может повторить.
// Все прочие виды — семантические исходы и повторять их нельзя.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindStoreUnavailable, KindRepository:
		return true
	default:
		return false
	}
}

// IsTokenFailure — ошибка проверки предъявленного токена.
// Наружу все такие ошибки отдаются одним обезличенным "unauthorized".
func IsTokenFailure(err error) bool {
	switch KindOf(err) {
	case KindMalformedToken, KindTokenNotFound, KindCorruptRecord, KindInvalidToken,
		KindTokenKindMismatch, KindExpiredToken, KindRevokedToken:
		return true
	default:
		return false
	}
}

// IsCredentialFailure — неверная пара e-mail/пароль (внутри различается, наружу — нет).
func IsCredentialFailure(err error) bool {
	switch KindOf(err) {
	case KindAccountNotFound, KindInvalidPassword:
		return true
	default:
		return false
	}
}
