package event

import (
	"context"
	"testing"
)

type record struct {
	ID uint
}

func TestSignal_SendInRegistrationOrder(t *testing.T) {
	s := NewSignal[record]()

	var calls []string
	s.Connect("first", func(ctx context.Context, r *record, created bool) {
		calls = append(calls, "first")
	})
	s.Connect("second", func(ctx context.Context, r *record, created bool) {
		calls = append(calls, "second")
	})

	s.Send(context.Background(), &record{ID: 1}, true)

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestSignal_PassesInstanceAndCreatedFlag(t *testing.T) {
	s := NewSignal[record]()

	var gotID uint
	var gotCreated bool
	s.Connect("r", func(ctx context.Context, r *record, created bool) {
		gotID = r.ID
		gotCreated = created
	})

	s.Send(context.Background(), &record{ID: 7}, false)
	if gotID != 7 || gotCreated {
		t.Fatalf("expect id=7 created=false, got id=%d created=%v", gotID, gotCreated)
	}
}

func TestSignal_ConnectSameIDReplaces(t *testing.T) {
	s := NewSignal[record]()

	count := 0
	s.Connect("r", func(ctx context.Context, r *record, created bool) { count += 1 })
	s.Connect("r", func(ctx context.Context, r *record, created bool) { count += 10 })

	s.Send(context.Background(), &record{}, true)
	if count != 10 {
		t.Fatalf("expect only the replacing receiver to run, count=%d", count)
	}
}

func TestSignal_Disconnect(t *testing.T) {
	s := NewSignal[record]()

	called := false
	s.Connect("r", func(ctx context.Context, r *record, created bool) { called = true })

	if !s.Disconnect("r") {
		t.Fatalf("expect Disconnect to report removal")
	}
	if s.Disconnect("r") {
		t.Fatalf("second Disconnect should report nothing removed")
	}
	if s.Connected("r") {
		t.Fatalf("receiver should no longer be connected")
	}

	s.Send(context.Background(), &record{}, true)
	if called {
		t.Fatalf("disconnected receiver was called")
	}
}

func TestSignal_DisconnectDuringSend(t *testing.T) {
	s := NewSignal[record]()

	calls := 0
	s.Connect("once", func(ctx context.Context, r *record, created bool) {
		calls++
		s.Disconnect("once")
	})

	s.Send(context.Background(), &record{}, true)
	s.Send(context.Background(), &record{}, true)
	if calls != 1 {
		t.Fatalf("expect receiver to run once, got %d", calls)
	}
}

func TestSignal_NilSafe(t *testing.T) {
	var s *Signal[record]
	s.Send(context.Background(), &record{}, true)
}
