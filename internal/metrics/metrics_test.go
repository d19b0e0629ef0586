package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTokens_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewTokens(reg)

	m.Issued("strong")
	m.Issued("strong")
	m.Validated("api-key", ResultOK)
	m.Validated("api-key", "RevokedTokenError")
	m.Revoked()

	require.Equal(t, 2.0, testutil.ToFloat64(m.issued.WithLabelValues("strong")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.validated.WithLabelValues("api-key", ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.validated.WithLabelValues("api-key", "RevokedTokenError")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.revoked))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestTokens_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Tokens
	require.NotPanics(t, func() {
		m.Issued("strong")
		m.Validated("strong", ResultOK)
		m.Revoked()
	})
}
