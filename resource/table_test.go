package resource

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	// Insert
	h := table.Insert(KindContainer, "test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	if table.Len() != 1 || table.LenKind(KindContainer) != 1 || table.LenKind(KindRecord) != 0 {
		t.Fatalf("counts = %d/%d/%d", table.Len(), table.LenKind(KindContainer), table.LenKind(KindRecord))
	}

	// Remove
	val, ok := table.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	// Insert should trigger EventCreated
	h := table.Insert(KindRecord, "test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated {
		t.Fatal("Expected EventCreated")
	}
	if obs.events[0].Handle != h || obs.events[0].Kind != KindRecord {
		t.Fatalf("Wrong event: %+v", obs.events[0])
	}

	// Remove should trigger EventDropped
	table.Remove(h)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventDropped || obs.events[1].Kind != KindRecord {
		t.Fatalf("Wrong event: %+v", obs.events[1])
	}

	// Removing a dead handle is silent
	table.Remove(h)
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events for a dead handle")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable()
	var kinds []Kind
	table.Subscribe(ObserverFunc(func(e Event) {
		kinds = append(kinds, e.Kind)
	}))

	table.Insert(KindContainer, "c")
	table.Insert(KindRecord, "r")

	if len(kinds) != 2 || kinds[0] != KindContainer || kinds[1] != KindRecord {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestTable_Clear(t *testing.T) {
	table := NewTable()

	table.Insert(KindRecord, "a")
	table.Insert(KindRecord, "b")
	table.Insert(KindRecord, "c")

	if table.Len() != 3 {
		t.Fatal("Expected Len() == 3")
	}

	table.Clear()

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	a := &dropCounter{}
	b := &dropCounter{}
	table.Insert(KindContainer, a)
	table.Insert(KindRecord, b)

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if a.count != 1 || b.count != 1 {
		t.Fatalf("drop counts = %d, %d", a.count, b.count)
	}
	if len(obs.events) != 4 {
		t.Fatalf("Expected drop events on Close, got %d events", len(obs.events))
	}

	// Insert should fail after Close
	if h := table.Insert(KindRecord, "c"); h != 0 {
		t.Fatal("Expected Insert to fail after Close")
	}

	if err := table.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if a.count != 1 {
		t.Fatal("second Close released again")
	}
}

func TestTable_DropperInterface(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h := table.Insert(KindContainer, d)
	table.Remove(h)
	table.Remove(h)

	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
}

func TestKind_String(t *testing.T) {
	if KindContainer.String() != "container" || KindRecord.String() != "record" {
		t.Fatal("unexpected kind names")
	}
	if Kind(0).String() != "unknown" {
		t.Fatal("zero kind should be unknown")
	}
}
