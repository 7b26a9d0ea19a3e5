package worker

import (
	"context"
	"testing"
	"time"
)

func TestPacer_ZeroConfigDoesNotBlock(t *testing.T) {
	p := NewPacer(0, 0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("zero-config pacer blocked for %v", elapsed)
	}
}

func TestPacer_NilPacerIsNoOp(t *testing.T) {
	var p *Pacer
	if err := p.Wait(context.Background()); err != nil {
		t.Errorf("nil pacer returned error: %v", err)
	}
}

func TestPacer_DelayHonorsCancellation(t *testing.T) {
	p := NewPacer(0, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Wait(ctx); err == nil {
		t.Error("expected context error from cancelled wait")
	}
}

func TestPacer_FixedDelayApplies(t *testing.T) {
	p := NewPacer(0, 20*time.Millisecond)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("delay not applied: waited only %v", elapsed)
	}
}
