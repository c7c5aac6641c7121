package application

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Defaults(t *testing.T) {
	cl := NewConfigLoader()
	cfg, err := cl.Load(strings.NewReader(""))
	require.NoError(t, err)

	defaults := DefaultEngineConfig()
	assert.Equal(t, defaults.Evaluators.BoundaryRadius, cfg.Evaluators.BoundaryRadius)
	assert.Equal(t, defaults.Evaluators.ExpectedTrialsPerRound, cfg.Evaluators.ExpectedTrialsPerRound)
	assert.Equal(t, defaults.Batch.Concurrency, cfg.Batch.Concurrency)
}

func TestConfigLoader_Overrides(t *testing.T) {
	doc := `
evaluators:
  boundary_radius: 120
  expected_rounds: 2
  expected_trials_per_round: [10]
batch:
  concurrency: 8
  sessions_per_second: 50
`
	cl := NewConfigLoader()
	cfg, err := cl.Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 120.0, cfg.Evaluators.BoundaryRadius)
	assert.Equal(t, 2, cfg.Evaluators.ExpectedRounds)
	assert.Equal(t, []int{10}, cfg.Evaluators.ExpectedTrialsPerRound)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, 50.0, cfg.Batch.SessionsPerSecond)

	// Untouched keys keep their defaults.
	assert.Equal(t, "random", cfg.Evaluators.RandomSelectedValue)
}

func TestConfigLoader_RejectsUnknownKeys(t *testing.T) {
	doc := `
evaluators:
  boundry_radius: 120
`
	cl := NewConfigLoader()
	_, err := cl.Load(strings.NewReader(doc))
	require.Error(t, err, "a typoed key must not silently fall back to the default")
	assert.Contains(t, err.Error(), "config: parse")
}

func TestConfigLoader_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "negative boundary radius",
			doc:  "evaluators:\n  boundary_radius: -1\n",
		},
		{
			name: "zero rounds",
			doc:  "evaluators:\n  expected_rounds: 0\n",
		},
		{
			name: "negative concurrency",
			doc:  "batch:\n  concurrency: -2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := NewConfigLoader()
			_, err := cl.Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestConfigLoader_CachesByContent(t *testing.T) {
	doc := "evaluators:\n  boundary_radius: 100\n"
	cl := NewConfigLoader()

	first, err := cl.Load(strings.NewReader(doc))
	require.NoError(t, err)
	second, err := cl.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Same(t, first, second, "identical documents parse once")

	other, err := cl.Load(strings.NewReader("evaluators:\n  boundary_radius: 101\n"))
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestConfigLoader_ConcurrentLoads(t *testing.T) {
	doc := "evaluators:\n  boundary_radius: 100\n"
	cl := NewConfigLoader()

	var wg sync.WaitGroup
	results := make([]*Config, 16)
	errs := make([]error, 16)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = cl.Load(strings.NewReader(doc))
		}()
	}
	wg.Wait()

	for i, cfg := range results {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], cfg)
	}
}

func TestConfigLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  concurrency: 2\n"), 0o600))

	cl := NewConfigLoader()
	cfg, err := cl.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Concurrency)

	_, err = cl.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
