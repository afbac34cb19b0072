package service_test

import (
	"context"
	"testing"
	"time"

	"pagesmith/internal/service"
)

func TestSaveGuard_TryLock(t *testing.T) {
	var g service.ExportedSaveGuard

	if !g.TryLock("doc-1") {
		t.Fatal("first TryLock should succeed")
	}
	if g.TryLock("doc-1") {
		t.Error("second TryLock on same id should fail")
	}
	if !g.TryLock("doc-2") {
		t.Error("TryLock on a different id should succeed")
	}

	g.Unlock("doc-1")
	if !g.TryLock("doc-1") {
		t.Error("TryLock after Unlock should succeed")
	}
	g.Unlock("doc-1")
	g.Unlock("doc-2")
}

func TestSaveGuard_WaitAll(t *testing.T) {
	var g service.ExportedSaveGuard

	g.TryLock("doc-1")
	done := make(chan struct{})
	go func() {
		g.WaitAll(context.Background())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitAll returned while a save was still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	g.Unlock("doc-1")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitAll did not return after all saves finished")
	}
}

func TestSaveGuard_WaitAllHonorsContext(t *testing.T) {
	var g service.ExportedSaveGuard
	g.TryLock("doc-1")
	defer g.Unlock("doc-1")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		g.WaitAll(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitAll ignored context cancellation")
	}
}
