package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/metrics"
)

func TestObservePurchase(t *testing.T) {
	m := metrics.New("test")
	m.ObservePurchase(marketplace.OutcomeOK, decimal.NewFromInt(3), decimal.RequireFromString("7.5"))
	m.ObservePurchase(marketplace.OutcomeInsufficientStock, decimal.NewFromInt(9), decimal.Zero)

	n, err := testutil.GatherAndCount(m.Registry(), "test_purchases_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "una serie por outcome")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "test_purchase_revenue_total" {
			assert.Equal(t, 7.5, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestObserveHTTP(t *testing.T) {
	m := metrics.New("test")
	m.ObserveHTTP("GET", "/api/listings/:id", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "/api/listings/:id", 404, time.Millisecond)

	n, err := testutil.GatherAndCount(m.Registry(), "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewIndependiente(t *testing.T) {
	// registries propios: crear dos instancias no debe entrar en pánico
	assert.NotPanics(t, func() {
		metrics.New("a")
		metrics.New("a")
	})
}
