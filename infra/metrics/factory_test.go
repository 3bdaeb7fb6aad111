package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/foundry/core/factory"
	coremetrics "github.com/kilianp07/foundry/core/metrics"
)

func TestBuiltinSinksRegistered(t *testing.T) {
	types := coremetrics.SinkTypes()
	for _, name := range []string{"nop", "prometheus", "influx", "mqtt"} {
		assert.Contains(t, types, name)
	}
}

func TestNewSinkBuiltins(t *testing.T) {
	s, err := coremetrics.NewSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, s)

	// Missing influx settings fall back to a no-op sink.
	s, err = coremetrics.NewSink([]factory.ModuleConfig{{Type: "influx", Conf: map[string]any{}}})
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, s)

	_, err = coremetrics.NewSink([]factory.ModuleConfig{{Type: "mqtt", Conf: map[string]any{}}})
	assert.Error(t, err, "mqtt sink needs a broker")

	_, err = coremetrics.NewSink([]factory.ModuleConfig{{Type: "statsd"}})
	assert.Error(t, err)
}
