package app

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Profiler accumulates CPU time per named frame stage between reports.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
	Frames     int
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = time.Now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] += time.Since(start)
		delete(p.StartTimes, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) AddCount(name string, delta int) {
	p.Counts[name] += delta
}

// FrameDone marks the end of one frame for the per-frame averages.
func (p *Profiler) FrameDone() {
	p.Frames++
}

// Reset starts a new report interval. Scope order is kept.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
	clear(p.Counts)
	p.Frames = 0
}

// StatsString reports mean milliseconds per frame for each scope, then the counters.
func (p *Profiler) StatsString() string {
	var sb strings.Builder
	frames := max(p.Frames, 1)

	fmt.Fprintf(&sb, "frames %d;", p.Frames)
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0 / float64(frames)
		fmt.Fprintf(&sb, " %s %.3fms", name, ms)
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%d", k, p.Counts[k])
	}
	return sb.String()
}
