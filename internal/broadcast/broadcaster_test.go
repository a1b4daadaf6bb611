package broadcast

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricket-score-service/internal/domain"
	"cricket-score-service/internal/metrics"
)

// recordingObserver appends each delivery to a shared log so tests can
// assert ordering across observers.
type recordingObserver struct {
	name string
	log  *[]string
	mu   *sync.Mutex

	err   error
	panic bool
}

func (r *recordingObserver) record(event string) error {
	r.mu.Lock()
	*r.log = append(*r.log, r.name+":"+event)
	r.mu.Unlock()
	if r.panic {
		panic("observer blew up")
	}
	return r.err
}

func (r *recordingObserver) Name() string                              { return r.name }
func (r *recordingObserver) OnMatchStart(*domain.Match) error          { return r.record("matchStart") }
func (r *recordingObserver) OnBallBowled(*domain.Match, domain.Ball) error {
	return r.record("ballBowled")
}
func (r *recordingObserver) OnWicket(*domain.Match, domain.Ball) error { return r.record("wicket") }
func (r *recordingObserver) OnInningsEnd(*domain.Match, int) error     { return r.record("inningsEnd") }
func (r *recordingObserver) OnMatchEnd(*domain.Match) error            { return r.record("matchEnd") }
func (r *recordingObserver) OnScoreUpdate(*domain.Match, string) error {
	return r.record("scoreUpdate")
}

func newRecording(name string, log *[]string, mu *sync.Mutex) *recordingObserver {
	return &recordingObserver{name: name, log: log, mu: mu}
}

func testMatch() *domain.Match {
	m := domain.NewMatch("team-a", "team-b", domain.FormatT20)
	m.Status = domain.MatchLive
	return m
}

func TestNotifyDeliversInRegistrationOrder(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	b := New(nil, nil)
	b.Register(newRecording("first", &log, &mu))
	b.Register(newRecording("second", &log, &mu))
	b.Register(newRecording("third", &log, &mu))

	b.NotifyMatchStart(testMatch())

	assert.Equal(t, []string{"first:matchStart", "second:matchStart", "third:matchStart"}, log)
}

func TestRegisterIsIdempotent(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	b := New(nil, nil)
	o := newRecording("only", &log, &mu)
	b.Register(o)
	b.Register(o)
	require.Equal(t, 1, b.Len())

	b.NotifyScoreUpdate(testMatch(), "10/0")
	assert.Len(t, log, 1, "a double-registered observer is notified once")
}

func TestRegisterNilIsIgnored(t *testing.T) {
	b := New(nil, nil)
	b.Register(nil)
	assert.Zero(t, b.Len())
}

func TestRemove(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	b := New(nil, nil)
	kept := newRecording("kept", &log, &mu)
	dropped := newRecording("dropped", &log, &mu)
	b.Register(kept)
	b.Register(dropped)

	b.Remove(dropped)
	b.Remove(dropped) // unknown observers are ignored

	require.Equal(t, 1, b.Len())
	b.NotifyMatchEnd(testMatch())
	assert.Equal(t, []string{"kept:matchEnd"}, log)
}

func TestFailingObserverDoesNotBlockOthers(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	rec := metrics.NewRecorder()
	b := New(nil, rec)

	failing := newRecording("failing", &log, &mu)
	failing.err = errors.New("sink unavailable")
	b.Register(failing)
	b.Register(newRecording("healthy", &log, &mu))

	b.NotifyBallBowled(testMatch(), domain.Ball{})

	assert.Equal(t, []string{"failing:ballBowled", "healthy:ballBowled"}, log)
	assert.Equal(t, 1, rec.ObserverFailures("failing"))
	assert.Equal(t, 0, rec.ObserverFailures("healthy"))
}

func TestPanickingObserverIsIsolated(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	rec := metrics.NewRecorder()
	b := New(nil, rec)

	panicking := newRecording("panicking", &log, &mu)
	panicking.panic = true
	b.Register(panicking)
	b.Register(newRecording("healthy", &log, &mu))

	assert.NotPanics(t, func() {
		b.NotifyWicket(testMatch(), domain.Ball{Wicket: true})
	})
	assert.Contains(t, log, "healthy:wicket")
	assert.Equal(t, 1, rec.ObserverFailures("panicking"))
}

func TestNotifyRecordsBroadcastMetric(t *testing.T) {
	rec := metrics.NewRecorder()
	b := New(nil, rec)

	b.NotifyMatchStart(testMatch())
	b.NotifyScoreUpdate(testMatch(), "0/0")
	b.NotifyScoreUpdate(testMatch(), "4/0")

	assert.Equal(t, 1, rec.Broadcasts(string(EventMatchStart)))
	assert.Equal(t, 2, rec.Broadcasts(string(EventScoreUpdate)))
}

func TestConcurrentRegisterAndNotify(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	b := New(nil, nil)
	m := testMatch()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		o := newRecording("o", &log, &mu)
		go func() {
			defer wg.Done()
			b.Register(o)
			b.Remove(o)
		}()
		go func() {
			defer wg.Done()
			b.NotifyScoreUpdate(m, "1/0")
		}()
	}
	wg.Wait()
}

func TestNewEventCarriesResultOnMatchEnd(t *testing.T) {
	m := testMatch()
	m.Result = domain.ResultTeam2Win

	ev := NewEvent(EventMatchEnd, m, nil, 2)
	assert.Equal(t, string(domain.ResultTeam2Win), ev.Result)
	assert.Equal(t, m.ID, ev.MatchID)
	assert.False(t, ev.At.IsZero())

	ev = NewEvent(EventScoreUpdate, m, nil, 2)
	assert.Empty(t, ev.Result)
}
