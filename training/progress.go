package training

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// ProgressBar renders a single-line terminal progress bar, redrawn in
// place with a carriage return. It is used for epoch progress and for
// long bulk operations such as eager embedding, whose workers may call
// Update concurrently.
type ProgressBar struct {
	mutex       sync.Mutex
	description string
	total       int
	current     int
	startTime   time.Time
	width       int
	out         io.Writer
	metrics     map[string]float64
}

// NewProgressBar creates a bar for total steps, writing to out.
func NewProgressBar(description string, total int, out io.Writer) *ProgressBar {
	return &ProgressBar{
		description: description,
		total:       total,
		startTime:   time.Now(),
		width:       40,
		out:         out,
		metrics:     make(map[string]float64),
	}
}

// Update advances the bar to step and redraws with the given metrics.
func (pb *ProgressBar) Update(step int, metrics map[string]float64) {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	pb.current = step
	for k, v := range metrics {
		pb.metrics[k] = v
	}
	pb.render()
}

// Finish fills the bar and terminates the line.
func (pb *ProgressBar) Finish() {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	pb.current = pb.total
	pb.render()
	fmt.Fprintln(pb.out)
}

func (pb *ProgressBar) render() {
	percentage := 0.0
	if pb.total > 0 {
		percentage = float64(pb.current) / float64(pb.total)
	}
	if percentage > 1.0 {
		percentage = 1.0
	}

	filled := int(percentage * float64(pb.width))
	bar := strings.Repeat("█", filled) + strings.Repeat(" ", pb.width-filled)

	line := fmt.Sprintf("\r%s: %3.0f%%|%s| %d/%d",
		pb.description, percentage*100, bar, pb.current, pb.total)

	elapsed := time.Since(pb.startTime)
	if pb.current > 0 && percentage > 0 && percentage < 1 {
		eta := time.Duration(float64(elapsed)/percentage) - elapsed
		line += fmt.Sprintf(" [%s<%s]", formatDuration(elapsed), formatDuration(eta))
	}

	// Stable metric order so the line does not jitter between redraws.
	keys := make([]string, 0, len(pb.metrics))
	for k := range pb.metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%.4f", k, pb.metrics[k])
	}

	fmt.Fprint(pb.out, line)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
