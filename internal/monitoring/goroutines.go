package monitoring

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config tunes a GoroutineMonitor. Zero fields take the defaults.
type Config struct {
	CheckInterval  time.Duration
	AlertThreshold int
	AlertCooldown  time.Duration
}

// GoroutineMonitor tracks goroutine metrics while matches run. Abandoned
// move-provider calls keep their goroutines alive, so a steady climb here
// points at providers that ignore their context.
type GoroutineMonitor struct {
	mu             sync.RWMutex
	logger         zerolog.Logger
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
	gauges         map[string]func() int
}

// NewGoroutineMonitor creates a new goroutine monitor
func NewGoroutineMonitor(cfg Config, logger zerolog.Logger) *GoroutineMonitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 30 * time.Second
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = 1000
	}
	if cfg.AlertCooldown <= 0 {
		cfg.AlertCooldown = 5 * time.Minute
	}
	baseline := runtime.NumGoroutine()
	return &GoroutineMonitor{
		logger:         logger.With().Str("component", "GoroutineMonitor").Logger(),
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  cfg.CheckInterval,
		alertThreshold: cfg.AlertThreshold,
		alertCooldown:  cfg.AlertCooldown,
		stopChan:       make(chan struct{}),
		gauges:         make(map[string]func() int),
	}
}

// Start begins monitoring goroutines
func (gm *GoroutineMonitor) Start() {
	go gm.monitor()
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")
}

// Stop stops the monitor. It is safe to call more than once.
func (gm *GoroutineMonitor) Stop() {
	gm.stopOnce.Do(func() { close(gm.stopChan) })
}

// monitor is the main monitoring loop
func (gm *GoroutineMonitor) monitor() {
	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.Check()
		case <-gm.stopChan:
			return
		}
	}
}

// Check samples the goroutine count and alerts if it is over the threshold.
// It reports whether an alert was raised.
func (gm *GoroutineMonitor) Check() bool {
	current := runtime.NumGoroutine()

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	growth := current - gm.baseline
	shouldAlert := current > gm.alertThreshold &&
		time.Since(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = time.Now()
	}
	peak := gm.peak
	gm.mu.Unlock()

	gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("peak", peak).
		Int("growth", growth).
		Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Interface("components", gm.readGauges()).
			Msg("High goroutine count detected - possible leak")
	}
	return shouldAlert
}

// Track registers a named gauge read on every GetMetrics call and alert.
func (gm *GoroutineMonitor) Track(name string, gauge func() int) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.gauges[name] = gauge
}

// GetMetrics returns current goroutine metrics
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	m := GoroutineMetrics{
		Current:  gm.current,
		Baseline: gm.baseline,
		Peak:     gm.peak,
		Growth:   gm.current - gm.baseline,
	}
	gm.mu.RUnlock()
	m.ComponentCounts = gm.readGauges()
	return m
}

func (gm *GoroutineMonitor) readGauges() map[string]int {
	gm.mu.RLock()
	names := make([]string, 0, len(gm.gauges))
	for name := range gm.gauges {
		names = append(names, name)
	}
	gauges := make([]func() int, len(names))
	sort.Strings(names)
	for i, name := range names {
		gauges[i] = gm.gauges[name]
	}
	gm.mu.RUnlock()

	result := make(map[string]int, len(names))
	for i, name := range names {
		result[name] = gauges[i]()
	}
	return result
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current         int            `json:"current"`
	Baseline        int            `json:"baseline"`
	Peak            int            `json:"peak"`
	Growth          int            `json:"growth"`
	ComponentCounts map[string]int `json:"component_counts"`
}
