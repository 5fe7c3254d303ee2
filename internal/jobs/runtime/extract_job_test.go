package runtime

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunExtractionLoopRepeatsAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	runOnce := func(context.Context) error {
		if calls.Add(1) >= 3 {
			cancel()
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunExtractionLoop(ctx, func() time.Duration { return 5 * time.Millisecond }, runOnce)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after context cancellation")
	}

	if got := calls.Load(); got < 3 {
		t.Fatalf("runOnce called %d times, want at least 3", got)
	}
}

func TestRunExtractionLoopContinuesAfterFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	runOnce := func(context.Context) error {
		if calls.Add(1) >= 3 {
			cancel()
		}
		return errors.New("store unreachable")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunExtractionLoop(ctx, func() time.Duration { return time.Millisecond }, runOnce)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after context cancellation")
	}

	if got := calls.Load(); got < 3 {
		t.Fatalf("runOnce called %d times despite failures, want at least 3", got)
	}
}

func TestRunExtractionLoopStopsOnCanceledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	runOnce := func(runCtx context.Context) error {
		calls.Add(1)
		return runCtx.Err()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunExtractionLoop(ctx, func() time.Duration { return time.Hour }, runOnce)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit on canceled run")
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("runOnce called %d times, want 1", got)
	}
}

func TestBuildRecords(t *testing.T) {
	records := buildRecords([]string{"8.8.8.8", "9.9.9.9"}, nil)

	want := []string{"8.8.8.8", "9.9.9.9"}
	got := make([]string, len(records))
	for i, record := range records {
		got[i] = record.IP
		if record.Country != "" {
			t.Errorf("record %s has country %q without a resolver", record.IP, record.Country)
		}
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("buildRecords order = %v, want %v", got, want)
	}
}

func TestBuildRecordsEmpty(t *testing.T) {
	if records := buildRecords(nil, nil); len(records) != 0 {
		t.Fatalf("buildRecords(nil) = %v, want empty", records)
	}
}
