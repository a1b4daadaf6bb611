package broadcast

import (
	"fmt"
	"log/slog"
	"sync"

	"cricket-score-service/internal/domain"
	"cricket-score-service/internal/logging"
	"cricket-score-service/internal/metrics"
)

// Broadcaster is the subject side of the observer pattern. Register and
// Remove may race an in-progress notify; each notify iterates a copy of
// the observer slice taken under the read lock, so it never observes a
// partially mutated list.
type Broadcaster struct {
	mu        sync.RWMutex
	observers []Observer

	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New constructs an empty broadcaster.
func New(logger *slog.Logger, recorder *metrics.Recorder) *Broadcaster {
	return &Broadcaster{logger: logger, metrics: recorder}
}

// Register adds an observer. Registering the same observer again has no
// additional effect; it still receives exactly one notification per event.
func (b *Broadcaster) Register(o Observer) {
	if o == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.observers {
		if existing == o {
			return
		}
	}
	b.observers = append(b.observers, o)
}

// Remove drops an observer; unknown observers are ignored.
func (b *Broadcaster) Remove(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.observers {
		if existing == o {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// Len reports the number of registered observers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

func (b *Broadcaster) snapshot() []Observer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Observer, len(b.observers))
	copy(out, b.observers)
	return out
}

// NotifyMatchStart fans out a matchStart event.
func (b *Broadcaster) NotifyMatchStart(m *domain.Match) {
	b.notify(EventMatchStart, func(o Observer) error { return o.OnMatchStart(m) })
}

// NotifyBallBowled fans out a ballBowled event.
func (b *Broadcaster) NotifyBallBowled(m *domain.Match, ball domain.Ball) {
	b.notify(EventBallBowled, func(o Observer) error { return o.OnBallBowled(m, ball) })
}

// NotifyWicket fans out a wicket event.
func (b *Broadcaster) NotifyWicket(m *domain.Match, ball domain.Ball) {
	b.notify(EventWicket, func(o Observer) error { return o.OnWicket(m, ball) })
}

// NotifyInningsEnd fans out an inningsEnd event.
func (b *Broadcaster) NotifyInningsEnd(m *domain.Match, inningsNumber int) {
	b.notify(EventInningsEnd, func(o Observer) error { return o.OnInningsEnd(m, inningsNumber) })
}

// NotifyMatchEnd fans out a matchEnd event.
func (b *Broadcaster) NotifyMatchEnd(m *domain.Match) {
	b.notify(EventMatchEnd, func(o Observer) error { return o.OnMatchEnd(m) })
}

// NotifyScoreUpdate fans out a scoreUpdate event.
func (b *Broadcaster) NotifyScoreUpdate(m *domain.Match, score string) {
	b.notify(EventScoreUpdate, func(o Observer) error { return o.OnScoreUpdate(m, score) })
}

func (b *Broadcaster) notify(kind EventKind, deliver func(Observer) error) {
	b.metrics.RecordBroadcast(string(kind))
	for _, o := range b.snapshot() {
		if err := b.safeDeliver(o, deliver); err != nil {
			b.metrics.RecordObserverFailure(o.Name(), string(kind))
			logging.Error(b.logger, "observer failed, skipping", err,
				slog.String("observer", o.Name()),
				slog.String("event", string(kind)),
			)
		}
	}
}

// safeDeliver invokes one observer, converting a panic into an error so
// a misbehaving sink cannot break delivery to the rest.
func (b *Broadcaster) safeDeliver(o Observer, deliver func(Observer) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return deliver(o)
}
