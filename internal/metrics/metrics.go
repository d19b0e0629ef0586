// metrics — счётчики Prometheus для операций с токенами.
// Все методы безопасны для nil-получателя: метрики опциональны.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результат проверки токена, кроме "ok", совпадает с тегом вида ошибки.
const ResultOK = "ok"

// Tokens агрегирует счётчики выпуска/проверки/отзыва токенов.
type Tokens struct {
	issued    *prometheus.CounterVec
	validated *prometheus.CounterVec
	revoked   prometheus.Counter
}

// NewTokens создаёт счётчики и регистрирует их в reg (если reg != nil).
func NewTokens(reg prometheus.Registerer) *Tokens {
	m := &Tokens{
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auth",
			Subsystem: "tokens",
			Name:      "issued_total",
			Help:      "Issued opaque tokens by kind.",
		}, []string{"kind"}),
		validated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auth",
			Subsystem: "tokens",
			Name:      "validated_total",
			Help:      "Token validations by expected kind and result.",
		}, []string{"kind", "result"}),
		revoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Subsystem: "tokens",
			Name:      "revoked_total",
			Help:      "Api-key revocations (including repeated ones).",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.issued, m.validated, m.revoked)
	}

	return m
}

// Issued учитывает выпущенный токен.
func (m *Tokens) Issued(kind string) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(kind).Inc()
}

// Validated учитывает проверку токена с результатом result.
func (m *Tokens) Validated(kind, result string) {
	if m == nil {
		return
	}
	m.validated.WithLabelValues(kind, result).Inc()
}

// Revoked учитывает отзыв api-key.
func (m *Tokens) Revoked() {
	if m == nil {
		return
	}
	m.revoked.Inc()
}
