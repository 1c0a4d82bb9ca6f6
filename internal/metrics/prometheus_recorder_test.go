package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("compile", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("compile", ResultSuccess)
	pr.IncStageResult("compile", ResultSuccess)
	pr.IncRunOutcome(RunOutcomeSuccess)
	pr.SetArchives(4)
	pr.SetArtifactBytes(2048)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 6)

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}
	require.Contains(t, byName, "bootbuild_stage_results_total")
	assert.InDelta(t, 2, byName["bootbuild_stage_results_total"].GetMetric()[0].GetCounter().GetValue(), 0)
	assert.InDelta(t, 4, byName["bootbuild_library_archives"].GetMetric()[0].GetGauge().GetValue(), 0)
	assert.InDelta(t, 2048, byName["bootbuild_artifact_bytes"].GetMetric()[0].GetGauge().GetValue(), 0)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome(RunOutcomeProgramFailed)

	path := filepath.Join(t.TempDir(), "nested", "bootbuild.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `bootbuild_run_outcomes_total{outcome="program_failed"} 1`)
	assert.True(t, strings.Contains(text, "# TYPE bootbuild_run_outcomes_total counter"))
}
