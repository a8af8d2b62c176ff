package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stage accumulates the time spent in one named lint stage across files.
type Stage struct {
	Name  string
	Count int
	Dur   time.Duration
}

// Timer tracks lint stages in first-seen order. A nil *Timer ignores every
// call, so callers never need to check whether timings were requested.
// Timer is safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	stages []Stage
	index  map[string]int
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{stages: make([]Stage, 0, 4), index: make(map[string]int, 4)}
}

// Begin starts timing one run of stage name; calling the returned func ends it.
func (t *Timer) Begin(name string) func() {
	if t == nil {
		return func() {}
	}
	start := time.Now()
	return func() { t.Add(name, time.Since(start)) }
}

// Add records one run of stage name that took d.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[name]
	if !ok {
		i = len(t.stages)
		t.index[name] = i
		t.stages = append(t.stages, Stage{Name: name})
	}
	t.stages[i].Count++
	t.stages[i].Dur += d
}

// Summary returns a human-readable string summarizing all tracked stages.
func (t *Timer) Summary() string {
	report := t.Report()
	var out strings.Builder
	out.WriteString("timings:\n")
	for _, s := range report.Stages {
		fmt.Fprintf(&out, "  %-12s %7.2f ms  x%d\n", s.Name, s.DurationMS, s.Count)
	}
	fmt.Fprintf(&out, "  %-12s %7.2f ms\n", "total", report.TotalMS)
	return out.String()
}

// StageReport представляет сжатую информацию о стадии для сериализации.
type StageReport struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	DurationMS float64 `json:"duration_ms"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Report формирует срез стадий и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stages) == 0 {
		return Report{}
	}
	report := Report{
		Stages: make([]StageReport, len(t.stages)),
	}
	var total time.Duration
	for i, s := range t.stages {
		total += s.Dur
		report.Stages[i] = StageReport{
			Name:       s.Name,
			Count:      s.Count,
			DurationMS: durationToMillis(s.Dur),
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
