package event

import "testing"

func TestAddAndDispatch(t *testing.T) {
	var tgt Target
	var got []Event

	tgt.AddListener(Input, func(e Event) {
		got = append(got, e)
	})

	tgt.Dispatch(Event{Type: Input, Value: "abc"})
	tgt.Dispatch(Event{Type: Change, Value: "abc"}) // no listener

	if len(got) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(got))
	}
	if got[0].Value != "abc" {
		t.Errorf("event value = %q, want %q", got[0].Value, "abc")
	}
	if got[0].Timestamp.IsZero() {
		t.Error("Dispatch should stamp a timestamp")
	}
}

func TestDuplicateAddIsNoOp(t *testing.T) {
	var tgt Target
	count := 0
	h := func(Event) { count++ }

	tgt.AddListener(Input, h)
	tgt.AddListener(Input, h)
	if n := tgt.ListenerCount(Input); n != 1 {
		t.Errorf("ListenerCount = %d, want 1", n)
	}

	tgt.Dispatch(Event{Type: Input})
	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestRemoveByIdentity(t *testing.T) {
	var tgt Target
	aRuns, bRuns := 0, 0
	a := func(Event) { aRuns++ }
	b := func(Event) { bRuns++ }

	tgt.AddListener(Input, a)
	tgt.AddListener(Input, b)
	tgt.RemoveListener(Input, a)

	tgt.Dispatch(Event{Type: Input})
	if aRuns != 0 {
		t.Errorf("removed handler ran %d times", aRuns)
	}
	if bRuns != 1 {
		t.Errorf("remaining handler ran %d times, want 1", bRuns)
	}
}

func TestSameHandlerDistinctOptions(t *testing.T) {
	var tgt Target
	count := 0
	h := func(Event) { count++ }

	// The same handler under different option sets is two listeners.
	tgt.AddListener(Input, h)
	tgt.AddListener(Input, h, WithOnce())
	if n := tgt.ListenerCount(Input); n != 2 {
		t.Fatalf("ListenerCount = %d, want 2", n)
	}

	// Removing with options only detaches the matching registration.
	tgt.RemoveListener(Input, h, WithOnce())
	if n := tgt.ListenerCount(Input); n != 1 {
		t.Fatalf("ListenerCount after remove = %d, want 1", n)
	}

	tgt.Dispatch(Event{Type: Input})
	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestOnceListener(t *testing.T) {
	var tgt Target
	count := 0
	tgt.AddListener(Load, func(Event) { count++ }, WithOnce())

	tgt.Dispatch(Event{Type: Load})
	tgt.Dispatch(Event{Type: Load})
	if count != 1 {
		t.Errorf("once listener ran %d times, want 1", count)
	}
	if n := tgt.ListenerCount(Load); n != 0 {
		t.Errorf("ListenerCount after once = %d, want 0", n)
	}
}

func TestDispatchOrder(t *testing.T) {
	var tgt Target
	var order []string
	tgt.AddListener(Input, func(Event) { order = append(order, "first") })
	tgt.AddListener(Input, func(Event) { order = append(order, "second") })

	tgt.Dispatch(Event{Type: Input})
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("dispatch order = %v, want [first second]", order)
	}
}
