package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func Benchmark_Collector_RecordCompile(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	diags := []string{"syntax"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordCompile(false, time.Millisecond, diags)
	}
}

func Benchmark_Collector_RecordOutput_Parallel(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			collector.RecordOutput("go", "gen/schema.go", nil, 4096)
		}
	})
}

func Benchmark_Collector_Disabled(b *testing.B) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordCompile(true, time.Millisecond, nil)
	}
}

func Benchmark_CardinalityLimiter_Allow(b *testing.B) {
	limiter := NewCardinalityLimiter(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("gen/schema.go")
	}
}
