package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestNewWindowID(t *testing.T) {
	gen := NewGenerator()

	wid := gen.NewWindowID()
	if !strings.HasPrefix(string(wid), "win_") {
		t.Errorf("WindowID should start with 'win_', got: %s", wid)
	}
	if !IsWindowID(wid.String()) {
		t.Errorf("Expected %s to be recognised as a window ID", wid)
	}
	if IsWindowID("req_" + gen.GenerateString()) {
		t.Error("Request IDs must not pass as window IDs")
	}
	if IsWindowID("win_not-a-ulid") {
		t.Error("Malformed ULID must not pass as window ID")
	}
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := NewGenerator()
	gen.now = func() time.Time { return fixed }

	prev := gen.GenerateString()
	for i := 0; i < 100; i++ {
		next := gen.GenerateString()
		if next <= prev {
			t.Fatalf("IDs in the same millisecond should increase: %s <= %s", next, prev)
		}
		prev = next
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	wid := NewWindowID()

	ts, err := Timestamp(wid.String())
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.Before(before) {
		t.Errorf("Timestamp %v should not predate generation", ts)
	}

	if _, err := Timestamp("garbage"); err == nil {
		t.Error("Expected error for invalid ULID")
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const goroutines = 10
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	idChan := make(chan WindowID, goroutines*idsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- gen.NewWindowID()
			}
		}()
	}

	wg.Wait()
	close(idChan)

	seen := make(map[WindowID]bool)
	for wid := range idChan {
		if seen[wid] {
			t.Errorf("Duplicate ID found in concurrent generation: %s", wid)
		}
		seen[wid] = true
	}

	if len(seen) != goroutines*idsPerGoroutine {
		t.Errorf("Expected %d unique IDs, got %d", goroutines*idsPerGoroutine, len(seen))
	}
}

func TestDefaultGenerator(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same instance")
	}
}

func BenchmarkNewWindowID(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.NewWindowID()
	}
}
