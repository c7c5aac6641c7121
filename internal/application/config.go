package application

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/foodchoice-lab/stopsignal/infrastructure/evaluators"
)

// Config is the full engine configuration: protocol parameters for the
// evaluators plus batch-processing limits.
type Config struct {
	// Evaluators carries the protocol parameters (hit radius, scoring
	// tables, expected trial counts, selection-comparison policy).
	Evaluators evaluators.Config `yaml:"evaluators" json:"evaluators"`

	// Batch configures concurrent session processing.
	Batch BatchConfig `yaml:"batch" json:"batch"`
}

// BatchConfig bounds the batch runner.
type BatchConfig struct {
	// Concurrency is the maximum number of sessions evaluated at once.
	// Zero means one goroutine per session.
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"min=0"`

	// SessionsPerSecond throttles session starts. Zero disables the
	// limiter.
	SessionsPerSecond float64 `yaml:"sessions_per_second" json:"sessions_per_second" validate:"min=0"`
}

// DefaultEngineConfig returns the deployed defaults.
func DefaultEngineConfig() Config {
	return Config{
		Evaluators: evaluators.DefaultConfig(),
		Batch:      BatchConfig{Concurrency: 4},
	}
}

// ConfigLoader parses, validates, and caches engine configuration from
// YAML sources. Identical documents (by content hash) are parsed once;
// concurrent loads of the same document are collapsed into a single
// parse.
type ConfigLoader struct {
	validator *validator.Validate

	// cache stores validated configs keyed by SHA256 of the source
	// bytes. Cached configs must not be mutated by callers.
	cache   map[string]*Config
	cacheMu sync.RWMutex

	// sf collapses concurrent loads of the same document.
	sf singleflight.Group
}

// NewConfigLoader creates a loader with an empty cache.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		validator: validator.New(),
		cache:     make(map[string]*Config),
	}
}

// LoadFile reads and parses the YAML configuration at path.
func (cl *ConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cl.load(data)
}

// Load reads and parses a YAML configuration document from r.
func (cl *ConfigLoader) Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return cl.load(data)
}

func (cl *ConfigLoader) load(data []byte) (*Config, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	cl.cacheMu.RLock()
	cached, ok := cl.cache[hash]
	cl.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := cl.sf.Do(hash, func() (any, error) {
		cl.cacheMu.RLock()
		cached, ok := cl.cache[hash]
		cl.cacheMu.RUnlock()
		if ok {
			return cached, nil
		}

		// Unknown keys are rejected: a typo in a protocol parameter
		// must not silently fall back to a default.
		cfg := DefaultEngineConfig()
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
		if err := cl.validator.Struct(cfg); err != nil {
			return nil, fmt.Errorf("config: validate: %w", err)
		}
		if err := cfg.Evaluators.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}

		cl.cacheMu.Lock()
		cl.cache[hash] = &cfg
		cl.cacheMu.Unlock()
		return &cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Config), nil
}
