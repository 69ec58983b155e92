package main

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRunAfterStopCancelsUnfiredTimer(t *testing.T) {
	ran := make(chan struct{})
	stop := runAfter(time.Hour, func() { close(ran) })
	stop()

	select {
	case <-ran:
		t.Fatal("job ran after stop cancelled the timer")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestRunAfterStopWaitsForRunningJob(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	stop := runAfter(time.Millisecond, func() {
		close(started)
		<-release
		finished.Store(true)
	})
	<-started

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while the job was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop never returned after the job finished")
	}
	if !finished.Load() {
		t.Fatal("stop returned before the job finished")
	}
}
