package stabilizer

import "time"

// processingWindow is how many samples the processing-time average spans
const processingWindow = 10

// Metrics are running, session-scoped performance counters
type Metrics struct {
	AverageProcessingTimeMs float64 `json:"average_processing_time_ms"`
	FrameRate               float64 `json:"frame_rate"` // accepted frames per second
	SuccessRate             float64 `json:"success_rate"`
	TotalFramesProcessed    int     `json:"total_frames_processed"`
}

type metricsTracker struct {
	samples    []float64
	successes  int
	total      int
	firstFrame time.Time
	lastFrame  time.Time
}

func (m *metricsTracker) record(processingMs float64, success bool, at time.Time) {
	m.samples = append(m.samples, processingMs)
	if len(m.samples) > processingWindow {
		m.samples = m.samples[len(m.samples)-processingWindow:]
	}

	if m.total == 0 {
		m.firstFrame = at
	}
	m.lastFrame = at
	m.total++
	if success {
		m.successes++
	}
}

func (m *metricsTracker) snapshot() Metrics {
	out := Metrics{TotalFramesProcessed: m.total}

	if len(m.samples) > 0 {
		sum := 0.0
		for _, s := range m.samples {
			sum += s
		}
		out.AverageProcessingTimeMs = sum / float64(len(m.samples))
	}
	if m.total > 0 {
		out.SuccessRate = float64(m.successes) / float64(m.total)
	}
	if elapsed := m.lastFrame.Sub(m.firstFrame).Seconds(); m.total > 1 && elapsed > 0 {
		out.FrameRate = float64(m.total-1) / elapsed
	}
	return out
}

func (m *metricsTracker) reset() {
	*m = metricsTracker{}
}
