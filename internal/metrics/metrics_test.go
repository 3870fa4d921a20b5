package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.RecordAssembly(OutcomeOK, 3, time.Millisecond)
		r.RecordAttributeDefault("influence_level")
		r.RecordSchemaLookup("hit")
		r.RecordMetricFailure("diameter")
		r.RecordAnalysis(time.Millisecond)
	})
}

func TestRecordAssembly(t *testing.T) {
	r := NewRegistry()
	r.RecordAssembly(OutcomeOK, 3, time.Millisecond)
	r.RecordAssembly(OutcomeDemo, 5, time.Millisecond)
	r.RecordAssembly(OutcomeOK, 1, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.AssembliesTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.AssembliesTotal.WithLabelValues(OutcomeDemo)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.AssemblyDuration))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.AssembliesTotal.WithLabelValues(OutcomeEmpty)))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordMetricFailure("communities")

	path := filepath.Join(t.TempDir(), "powermap.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `powermap_metric_failures_total{metric="communities"} 1`)
}
