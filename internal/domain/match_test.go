package domain

import "testing"

func TestNewMatch(t *testing.T) {
	m := NewMatch("team-a", "team-b", FormatT20)
	if m.ID == "" {
		t.Fatalf("expected a generated match ID")
	}
	if m.Status != MatchScheduled {
		t.Fatalf("expected SCHEDULED, got %s", m.Status)
	}
	if m.Live() || m.Completed() {
		t.Fatalf("scheduled match should be neither live nor completed")
	}
}

func TestCurrentAndActiveInnings(t *testing.T) {
	m := NewMatch("team-a", "team-b", FormatT20)
	if m.CurrentInnings() != nil || m.ActiveInnings() != nil {
		t.Fatalf("no innings expected before the first")
	}

	in := NewInnings(1, "team-a", "team-b")
	m.AppendInnings(in)
	if m.CurrentInnings() != in {
		t.Fatalf("expected the appended innings")
	}
	if m.ActiveInnings() != nil {
		t.Fatalf("an unstarted innings is not active")
	}

	in.Start("a1", "a2")
	if m.ActiveInnings() != in {
		t.Fatalf("expected the started innings to be active")
	}

	in.Status = InningsAllOut
	if m.ActiveInnings() != nil {
		t.Fatalf("a closed innings is not active")
	}
}

func TestAddCommentaryPrepends(t *testing.T) {
	m := NewMatch("team-a", "team-b", FormatT20)
	m.AddCommentary(Commentary{Text: "first"})
	m.AddCommentary(Commentary{Text: "second"})

	if len(m.Commentary) != 2 || m.Commentary[0].Text != "second" {
		t.Fatalf("commentary should be newest first: %+v", m.Commentary)
	}
}

func TestLiveScore(t *testing.T) {
	m := NewMatch("team-a", "team-b", FormatT20)
	if got := m.LiveScore(); got != "match not started" {
		t.Fatalf("LiveScore = %q", got)
	}

	in := NewInnings(2, "team-b", "team-a")
	in.Start("b1", "b2")
	in.Target = 161
	in.TotalRuns = 100
	in.Wickets = 3
	in.OversBowled = 14
	in.BallsInOver = 2
	m.AppendInnings(in)

	want := "team-b: 100/3 (14.2 ov) | need 61 from 34 balls"
	if got := m.LiveScore(); got != want {
		t.Fatalf("LiveScore = %q, want %q", got, want)
	}
}
