package metrics

import (
	"sync"
	"time"

	"anybuf-dev/anybuf/pkg/config"
	"anybuf-dev/anybuf/pkg/idl/ast"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// maxOutputLabels bounds the distinct output paths tracked before the
// label collapses to "other".
const maxOutputLabels = 256

// Collector owns the Prometheus metrics of the compiler. Every Record
// method is a no-op when metrics are disabled, so callers never need to
// check the configuration themselves.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	compileMetrics *CompileMetrics
	outputMetrics  *OutputMetrics
	watchMetrics   *WatchMetrics

	// Cardinality tracking for output paths
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
//
// Example:
//
//	cfg := config.Default().Telemetry.Metrics
//	cfg.Enabled = true
//	collector := metrics.NewCollector(&cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		compileMetrics:     NewCompileMetrics(cfg, registry),
		outputMetrics:      NewOutputMetrics(cfg, registry),
		watchMetrics:       NewWatchMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(maxOutputLabels),
	}
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordCompile records a finished compile run.
//
// Parameters:
//   - ok: whether the schemas compiled without diagnostics
//   - duration: time spent reading and resolving the schemas
//   - diagnostics: the error type of every diagnostic reported
func (c *Collector) RecordCompile(ok bool, duration time.Duration, diagnostics []string) {
	if !c.Enabled() {
		return
	}

	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	c.compileMetrics.RecordCompile(result, duration)
	for _, d := range diagnostics {
		c.compileMetrics.RecordDiagnostic(d)
	}
}

// UpdateTree records the size of the last successfully compiled tree.
func (c *Collector) UpdateTree(files int, stats ast.Stats) {
	if !c.Enabled() {
		return
	}

	c.compileMetrics.UpdateTree(files, map[string]int{
		"module":      stats.Modules,
		"enum":        stats.Enums,
		"enum_member": stats.EnumMembers,
		"struct":      stats.Structs,
		"field":       stats.Fields,
		"type":        stats.Types,
	})
}

// RecordOutput records one generated file.
//
// Parameters:
//   - language: canonical backend name (e.g., "go", "typescript")
//   - output: path of the generated file
//   - err: the generation error, or nil
//   - size: number of bytes written
func (c *Collector) RecordOutput(language, output string, err error, size int) {
	if !c.Enabled() {
		return
	}

	if !c.cardinalityLimiter.Allow(output) {
		output = "other"
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	c.outputMetrics.RecordOutput(language, output, result, size)
}

// RecordWatchEvent counts one file system event seen by the watcher.
func (c *Collector) RecordWatchEvent(op string) {
	if !c.Enabled() {
		return
	}
	c.watchMetrics.RecordEvent(op)
}

// RecordRebuild counts one rebuild triggered by the watcher.
func (c *Collector) RecordRebuild() {
	if !c.Enabled() {
		return
	}
	c.watchMetrics.RecordRebuild()
}

// SetWatchedDirectories sets the number of directories being watched.
func (c *Collector) SetWatchedDirectories(n int) {
	if !c.Enabled() {
		return
	}
	c.watchMetrics.SetDirectories(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[label]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
