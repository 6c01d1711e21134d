// Metrics collection for the rpt2pnp toolpath encoder
//
// Provides labeled counters and gauges gathered into Prometheus text
// format. There is no scrape endpoint; the CLI dumps the gathered text
// at the end of a run when asked to.
//
// Copyright (C) 2026  rpt2pnp authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Labels represents metric labels as key-value pairs
type Labels map[string]string

// labelKey generates a unique key for a label set
func labelKey(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(labels[k])
	}
	return sb.String()
}

// formatLabels formats labels for Prometheus output
func formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteString("=\"")
		sb.WriteString(escapeLabel(labels[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// escapeLabel escapes special characters in label values
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// Metric is the interface for all metric types
type Metric interface {
	Name() string
	Help() string
	Write(sb *strings.Builder)
}

// series is one labeled time series of a metric.
type series struct {
	labels Labels
	value  uint64 // counter count or float64 bits for gauges
}

// Counter is a monotonically increasing metric
type Counter struct {
	name   string
	help   string
	mu     sync.Mutex
	values map[string]*series
}

// NewCounter creates a new counter metric
func NewCounter(name, help string) *Counter {
	return &Counter{name: name, help: help, values: make(map[string]*series)}
}

func (c *Counter) Name() string { return c.name }
func (c *Counter) Help() string { return c.help }

// Inc increments the counter by 1
func (c *Counter) Inc(labels Labels) {
	c.Add(labels, 1)
}

// Add increments the counter by the given value
func (c *Counter) Add(labels Labels, delta uint64) {
	s := c.get(labels)
	atomic.AddUint64(&s.value, delta)
}

// Value returns the current count for a label set
func (c *Counter) Value(labels Labels) uint64 {
	s := c.get(labels)
	return atomic.LoadUint64(&s.value)
}

func (c *Counter) get(labels Labels) *series {
	key := labelKey(labels)
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.values[key]
	if !ok {
		s = &series{labels: labels}
		c.values[key] = s
	}
	return s
}

// Write renders the counter in Prometheus text format
func (c *Counter) Write(sb *strings.Builder) {
	fmt.Fprintf(sb, "# HELP %s %s\n", c.name, c.help)
	fmt.Fprintf(sb, "# TYPE %s counter\n", c.name)
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := c.values[k]
		fmt.Fprintf(sb, "%s%s %d\n", c.name, formatLabels(s.labels), atomic.LoadUint64(&s.value))
	}
}

// Gauge is a metric whose value can go up and down
type Gauge struct {
	name string
	help string
	bits uint64
}

// NewGauge creates a new gauge metric
func NewGauge(name, help string) *Gauge {
	return &Gauge{name: name, help: help}
}

func (g *Gauge) Name() string { return g.name }
func (g *Gauge) Help() string { return g.help }

// Set sets the gauge value
func (g *Gauge) Set(v float64) {
	atomic.StoreUint64(&g.bits, math.Float64bits(v))
}

// Value returns the current gauge value
func (g *Gauge) Value() float64 {
	return math.Float64frombits(atomic.LoadUint64(&g.bits))
}

// Write renders the gauge in Prometheus text format
func (g *Gauge) Write(sb *strings.Builder) {
	fmt.Fprintf(sb, "# HELP %s %s\n", g.name, g.help)
	fmt.Fprintf(sb, "# TYPE %s gauge\n", g.name)
	fmt.Fprintf(sb, "%s %g\n", g.name, g.Value())
}

// Registry holds a set of metrics and gathers their text exposition
type Registry struct {
	mu      sync.Mutex
	metrics []Metric
	byName  map[string]Metric
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Metric)}
}

// Register adds a metric to the registry
func (r *Registry) Register(m Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[m.Name()]; ok {
		return fmt.Errorf("metric %s already registered", m.Name())
	}
	r.byName[m.Name()] = m
	r.metrics = append(r.metrics, m)
	return nil
}

// MustRegister adds metrics to the registry, panicking on duplicates.
// Intended for package-level metric variables.
func (r *Registry) MustRegister(metrics ...Metric) {
	for _, m := range metrics {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
}

// Gather renders all registered metrics in Prometheus text format
func (r *Registry) Gather() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sb strings.Builder
	for _, m := range r.metrics {
		m.Write(&sb)
	}
	return sb.String()
}

// Default is the process-wide registry
var Default = NewRegistry()
