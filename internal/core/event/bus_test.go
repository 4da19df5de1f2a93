package event

import "testing"

type flowIntent struct {
	From, To  int
	cancelled bool
}

func (f *flowIntent) Cancelled() bool { return f.cancelled }

type quitNotice struct {
	ID int
}

func TestPublishStopsAtCancel(t *testing.T) {
	b := NewBus()
	var calls []string
	Subscribe(b, func(ev *flowIntent) {
		calls = append(calls, "first")
		ev.cancelled = true
	})
	Subscribe(b, func(ev *flowIntent) { calls = append(calls, "second") })

	ev := &flowIntent{From: 1, To: 2}
	if Publish(b, ev) {
		t.Fatal("Publish reported allowed after cancel")
	}
	if len(calls) != 1 {
		t.Fatalf("calls = %v, want only first handler", calls)
	}
}

func TestPublishWithoutHandlers(t *testing.T) {
	b := NewBus()
	if !Publish(b, &flowIntent{}) {
		t.Fatal("unhandled intent must be allowed")
	}
}

func TestEmitDeliveredNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(ev quitNotice) { got = append(got, ev.ID) })

	Emit(b, quitNotice{ID: 7})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatal("notification delivered before swap")
	}

	sys := NewDispatchSystem(b)
	sys.Update(0)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("got %v, want [7]", got)
	}

	sys.Update(0)
	if len(got) != 1 {
		t.Fatalf("notification delivered twice: %v", got)
	}
}
