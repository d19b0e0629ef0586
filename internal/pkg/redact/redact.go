// redact предоставляет утилиты безопасного редактирования чувствительных
// данных для логов (e-mail, токены, заголовки с учётными данными). Цель — исключить утечки секретов,
// сохранив при этом полезный для отладки контекст (например, домен e-mail).
package redact

import (
	"regexp"
	"strings"
)

// Email маскирует e-mail для логирования.
//
// Правила:
//   - Строка должна содержать РОВНО один символ '@', иначе возвращается "***";
//   - Локальная часть (до '@') заменяется на первые два символа (по рунам) + "***";
//   - Если длина локальной части ≤ 2 символов — возвращается "***@<domain>";
//   - Доменная часть возвращается без изменений (сохраняется регистр/содержимое).
//
// Примеры:
//
//	"foobar@example.com"   -> "fo***@example.com"
//	"ab@ex.com"            -> "***@ex.com"
//	"user@"                -> "us***@"
//	"no-at"                -> "***"
//	"abc.def+tag@EXAMPLE"  -> "ab***@EXAMPLE"
func Email(s string) string {
	// ровно один '@' — иначе считаем e-mail невалидным и редактируем полностью.
	if strings.Count(s, "@") != 1 {
		return "***"
	}

	i := strings.IndexByte(s, '@')
	local, domain := s[:i], s[i+1:]

	lr := []rune(local)
	if len(lr) > 2 {
		local = string(lr[:2]) + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// tokenLike — прогон base64url длиной с токен или длиннее (id+секрет
// кодируются минимум в ~60 символов). UUID и короткие идентификаторы не задевает.
var tokenLike = regexp.MustCompile(`[A-Za-z0-9_-]{40,}`)

// Text заменяет в произвольном тексте (значение panic, текст ошибки)
// всё, что похоже на строку токена, на Token().
func Text(s string) string {
	return tokenLike.ReplaceAllLiteralString(s, Token())
}

// Token возвращает литерал-заглушку для токена в логах.
func Token() string { return "[REDACTED_TOKEN]" }

// Header возвращает значение HTTP-заголовка, пригодное для логов:
// заголовки с учётными данными заменяются на Token().
func Header(name, value string) string {
	if value == "" {
		return ""
	}

	switch strings.ToLower(name) {
	case "authorization", "cookie", "x-api-key", "proxy-authorization":
		return Token()
	default:
		return value
	}
}
