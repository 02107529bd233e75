package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravlab/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Time: 0, Bodies: []sim.BodySample{
				{X: -300, Y: 0, VX: 0, VY: 1.5, Mass: 1000, Color: "#ffdc78"},
				{X: 300, Y: 0, VX: 0, VY: -1.5, Mass: 1000, Color: "#8cbeff"},
			}},
			{Time: 0.1, Bodies: []sim.BodySample{
				{X: -299.9, Y: 0.15, VX: 0.01, VY: 1.5, Mass: 1000, Color: "#ffdc78"},
				{X: 299.9, Y: -0.15, VX: -0.01, VY: -1.5, Mass: 1000, Color: "#8cbeff"},
			}},
		},
		Metrics:    map[string]float64{"momentum_drift": 0.000001},
		StepsTaken: 1,
		Merges:     0,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save("binary", 0.1, 10, 42, sampleResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "binary_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "binary", meta.Preset)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 0.1, meta.Dt)
	assert.Equal(t, 1, meta.Steps)
	assert.InDelta(t, 0.000001, meta.Metrics["momentum_drift"], 1e-12)

	frames, err := st.LoadFrames(runID)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Len(t, frames[0].Bodies, 2)
	assert.Equal(t, -300.0, frames[0].Bodies[0].X)
	assert.Equal(t, 1.5, frames[0].Bodies[0].VY)
	assert.Equal(t, "#ffdc78", frames[0].Bodies[0].Color)
	assert.Equal(t, 0.1, frames[1].Time)
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save("binary", 0.1, 10, 1, sampleResult())
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "binary", runs[0].Preset)
}

func TestListMissingBaseDir(t *testing.T) {
	st := New("/nonexistent/gravlab-test")
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	_, err := st.Load("binary_0")
	assert.Error(t, err)
}

func TestWriteFramesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFramesCSV(&buf, sampleResult().Frames))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "time,body,x,y,vx,vy,mass,color", lines[0])
	assert.Equal(t, "0.000000,0,-300.000000,0.000000,0.000000,1.500000,1000.000000,#ffdc78", lines[1])
	assert.Equal(t, "0.000000,1,300.000000,0.000000,0.000000,-1.500000,1000.000000,#8cbeff", lines[2])
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "binary_1", Preset: "binary"}
	frames := sampleResult().Frames

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, frames))

	var doc struct {
		Meta   RunMetadata `json:"meta"`
		Frames []sim.Frame `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "binary_1", doc.Meta.ID)
	require.Len(t, doc.Frames, 2)
	assert.Equal(t, 1000.0, doc.Frames[0].Bodies[0].Mass)
}
