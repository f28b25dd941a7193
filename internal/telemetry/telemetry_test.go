package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	assert.False(t, Enabled())

	shutdown, err := Init(context.Background(), Options{ServiceName: "surplus-test", Version: "dev"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestGetMetrics_Singleton(t *testing.T) {
	m1 := GetMetrics()
	m2 := GetMetrics()

	require.NotNil(t, m1)
	assert.Same(t, m1, m2)
	assert.NotNil(t, m1.APIRequestsTotal)
	assert.NotNil(t, m1.SessionTransitionsTotal)
}
