package resource

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	// Create a resource
	handle, err := b.Create(KindContainer, "test value")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	kind, ok := b.Kind(handle)
	if !ok || kind != KindContainer {
		t.Fatalf("Kind = %v, %v", kind, ok)
	}

	// Drop it
	val, ok := b.Drop(handle)
	if !ok {
		t.Fatal("Drop failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	// Should not exist anymore
	if _, ok = b.Kind(handle); ok {
		t.Fatal("Expected Kind to fail after Drop")
	}
	if _, ok = b.Drop(handle); ok {
		t.Fatal("Expected second Drop to fail")
	}
}

func TestLocalBackend_HandleReuse(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create(KindRecord, 1)
	h2, _ := b.Create(KindRecord, 2)
	h3, _ := b.Create(KindRecord, 3)

	b.Drop(h2)
	b.Drop(h1)

	h4, _ := b.Create(KindRecord, 4)
	h5, _ := b.Create(KindRecord, 5)

	if h4 != h1 || h5 != h2 {
		t.Fatalf("expected freed slots to be reused, got %d %d", h4, h5)
	}

	for _, h := range []Handle{h3, h4, h5} {
		if _, ok := b.Kind(h); !ok {
			t.Fatalf("handle %d should be valid", h)
		}
	}
}

type dropCounter struct {
	mu    sync.Mutex
	count int
	order *[]string
	name  string
}

func (d *dropCounter) Drop() {
	d.mu.Lock()
	d.count++
	d.mu.Unlock()
	if d.order != nil {
		*d.order = append(*d.order, d.name)
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()

	var order []string
	first := &dropCounter{name: "first", order: &order}
	second := &dropCounter{name: "second", order: &order}
	b.Create(KindContainer, first)
	b.Create(KindRecord, second)

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if first.count != 1 || second.count != 1 {
		t.Fatalf("drop counts = %d, %d", first.count, second.count)
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("release order = %v, want newest first", order)
	}

	// Operations should fail after close
	_, err := b.Create(KindRecord, "test")
	if !errors.Is(err, ErrClosed) {
		t.Fatal("Expected ErrClosed after Close")
	}

	if err := b.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if first.count != 1 {
		t.Fatal("second Close released again")
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, _ := b.Create(KindRecord, id)
			b.Kind(h)
			b.Drop(h)
		}(i)
	}

	wg.Wait()

	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend()

	if b.Len() != 0 {
		t.Fatal("Expected Len() == 0 initially")
	}

	h1, _ := b.Create(KindContainer, "a")
	h2, _ := b.Create(KindRecord, "b")
	b.Create(KindRecord, "c")

	if b.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", b.Len())
	}
	if b.LenKind(KindRecord) != 2 {
		t.Fatalf("Expected 2 records, got %d", b.LenKind(KindRecord))
	}

	b.Drop(h1)
	if b.Len() != 2 || b.LenKind(KindContainer) != 0 {
		t.Fatalf("Expected Len() == 2, got %d", b.Len())
	}

	b.Drop(h2)
	if b.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", b.Len())
	}
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend()

	b.Create(KindContainer, "a")
	b.Create(KindRecord, "b")
	b.Create(KindContainer, "c")

	count := 0
	b.Each(func(Handle, Kind, any) bool {
		count++
		return true
	})

	if count != 3 {
		t.Fatalf("Expected to iterate over 3 items, got %d", count)
	}

	// Test early termination
	count = 0
	b.Each(func(Handle, Kind, any) bool {
		count++
		return false
	})

	if count != 1 {
		t.Fatalf("Expected to iterate over 1 item (early term), got %d", count)
	}
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	// Handle 0 is always invalid
	if _, ok := b.Kind(0); ok {
		t.Fatal("Handle 0 should be invalid for Kind")
	}
	if _, ok := b.Drop(0); ok {
		t.Fatal("Handle 0 should fail Drop")
	}

	// Non-existent handle
	if _, ok := b.Kind(999); ok {
		t.Fatal("Non-existent handle should be invalid")
	}
}
