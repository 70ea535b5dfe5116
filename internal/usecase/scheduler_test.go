package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls++
	return r.err
}

func TestSchedulerRunsRefreshOnTrigger(t *testing.T) {
	t.Parallel()

	driver := &manualDriver{}
	refresher := &countingRefresher{}
	s := NewScheduler(driver, refresher, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if driver.job == nil {
		t.Fatalf("expected job to be registered")
	}

	driver.job(time.Now())
	refresher.err = errors.New("feed down")
	driver.job(time.Now())

	if refresher.calls != 2 {
		t.Fatalf("expected 2 refreshes, got %d", refresher.calls)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !driver.stopped {
		t.Fatalf("expected driver to be stopped")
	}
}

func TestSchedulerWithoutDriverIsNoop(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, &countingRefresher{}, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
