package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/oukeidos/subburn/internal/testsupport"
)

func TestWithPanicGuard(t *testing.T) {
	var called atomic.Bool
	withPanicGuard("test.guard", func(any) {
		called.Store(true)
	}, func() {
		panic("boom")
	})
	if !called.Load() {
		t.Fatalf("panic callback was not called")
	}

	called.Store(false)
	withPanicGuard("test.guard.quiet", func(any) {
		called.Store(true)
	}, func() {})
	if called.Load() {
		t.Fatalf("panic callback called without a panic")
	}
}

func TestSafeGoRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	safeGo("test.safe_go", func() {
		defer close(done)
		panic("boom")
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("safeGo goroutine did not finish")
	}
}

func TestRecoveredPanicCancelsRender(t *testing.T) {
	proc := testsupport.NewStreamingProcess()
	a, _ := newTestBurnApp(t, proc)
	fx := newFixture(t)
	a.selectProbed(t, fx.video)
	a.selectSubtitle(fx.subtitle)
	a.selectOutput(fx.output)
	a.startRender()

	withPanicGuard("test.render", func(r any) {
		a.handleRecoveredPanic("test.render", r)
	}, func() {
		panic("view broke")
	})

	waitFinished(t, a)
	if proc.Terminations() != 1 {
		t.Fatalf("Terminate called %d times", proc.Terminations())
	}
}
