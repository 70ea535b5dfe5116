package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestNewCronSchedulerRejectsBadSpec(t *testing.T) {
	t.Parallel()

	if _, err := NewCronScheduler("every tuesday", nil, false); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCronSchedulerRunOnStartAndStop(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	s, err := NewCronScheduler("0 3 * * *", loc, true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !s.Next().IsZero() {
		t.Fatalf("next run should be zero before start")
	}

	fired := make(chan time.Time, 1)
	if err := s.Start(context.Background(), func(at time.Time) { fired <- at }); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case at := <-fired:
		if at.Location().String() != "Europe/Berlin" {
			t.Fatalf("job time should use the scheduler location, got %s", at.Location())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run-on-start job did not fire")
	}

	next := s.Next()
	if next.IsZero() || next.In(loc).Hour() != 3 {
		t.Fatalf("unexpected next run %s", next)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestCronSchedulerStopsWithContext(t *testing.T) {
	t.Parallel()

	s, err := NewCronScheduler("*/5 * * * *", nil, false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for !s.Next().IsZero() {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler still running after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
