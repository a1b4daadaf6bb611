package metrics

import (
	"sync"
	"time"
)

type scoringStats struct {
	balls            int
	wickets          int
	commands         map[string]int
	commandErrors    map[string]int
	broadcasts       map[string]int
	observerFailures map[string]int
}

// Recorder captures lightweight, in-memory metrics about the scoring
// engine and its broadcast fan-out. All methods are safe on a nil
// receiver so wiring can omit telemetry entirely.
type Recorder struct {
	mu    sync.Mutex
	stats scoringStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: scoringStats{
			commands:         make(map[string]int),
			commandErrors:    make(map[string]int),
			broadcasts:       make(map[string]int),
			observerFailures: make(map[string]int),
		},
		otel: otel,
	}
}

// RecordBall counts an applied delivery and, when flagged, a wicket.
func (r *Recorder) RecordBall(wicket bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.balls++
	if wicket {
		r.stats.wickets++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordBall(wicket)
	}
}

// RecordCommand tracks one scoring command invocation and its outcome.
func (r *Recorder) RecordCommand(command string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.commands[command]++
	if err != nil {
		r.stats.commandErrors[command]++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCommand(command, duration, err)
	}
}

// RecordBroadcast counts one fan-out of the given event kind.
func (r *Recorder) RecordBroadcast(event string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.broadcasts[event]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordBroadcast(event)
	}
}

// RecordObserverFailure counts a skipped observer during delivery.
func (r *Recorder) RecordObserverFailure(observer, event string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.observerFailures[observer]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordObserverFailure(observer, event)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Balls returns the number of deliveries recorded.
func (r *Recorder) Balls() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.balls
}

// Wickets returns the number of wickets recorded.
func (r *Recorder) Wickets() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.wickets
}

// Commands returns the invocation count for a scoring command.
func (r *Recorder) Commands(command string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.commands[command]
}

// CommandErrors returns the failure count for a scoring command.
func (r *Recorder) CommandErrors(command string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.commandErrors[command]
}

// Broadcasts returns the fan-out count for an event kind.
func (r *Recorder) Broadcasts(event string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.broadcasts[event]
}

// ObserverFailures returns the skip count for an observer.
func (r *Recorder) ObserverFailures(observer string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.observerFailures[observer]
}
