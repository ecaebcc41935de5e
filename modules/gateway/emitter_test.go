package gateway

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/example/chat-relay/modules/router"
)

// fakeWriter records frames written to one connection.
type fakeWriter struct {
	frames []frame
	err    error
}

func (w *fakeWriter) WriteJSON(v any) error {
	if w.err != nil {
		return w.err
	}
	w.frames = append(w.frames, v.(frame))
	return nil
}

func newTestTable() *ConnTable {
	table := NewConnTable()
	table.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return table
}

func TestConnTable_ToConnection(t *testing.T) {
	table := newTestTable()
	w1, w2 := &fakeWriter{}, &fakeWriter{}
	table.Add("c1", w1)
	table.Add("c2", w2)

	table.ToConnection("c1", router.Event{Kind: "message", Payload: "hello"})

	if len(w1.frames) != 1 {
		t.Fatalf("c1 frame count = %d, want 1", len(w1.frames))
	}
	if w1.frames[0].Event != "message" || w1.frames[0].Payload != "hello" {
		t.Errorf("c1 frame = %+v", w1.frames[0])
	}
	if len(w2.frames) != 0 {
		t.Errorf("c2 frame count = %d, want 0", len(w2.frames))
	}
}

func TestConnTable_ToConnection_UnknownIsNoop(t *testing.T) {
	table := newTestTable()

	table.ToConnection("ghost", router.Event{Kind: "message"})
}

func TestConnTable_ToConnections_SkipsUnknown(t *testing.T) {
	table := newTestTable()
	w1 := &fakeWriter{}
	table.Add("c1", w1)

	table.ToConnections([]string{"c1", "gone"}, router.Event{Kind: "userList"})

	if len(w1.frames) != 1 {
		t.Errorf("c1 frame count = %d, want 1", len(w1.frames))
	}
}

func TestConnTable_ToAll(t *testing.T) {
	table := newTestTable()
	writers := map[string]*fakeWriter{"c1": {}, "c2": {}, "c3": {}}
	for id, w := range writers {
		table.Add(id, w)
	}

	table.ToAll(router.Event{Kind: "roomList"})

	for id, w := range writers {
		if len(w.frames) != 1 {
			t.Errorf("%s frame count = %d, want 1", id, len(w.frames))
		}
	}
}

func TestConnTable_RemoveStopsDelivery(t *testing.T) {
	table := newTestTable()
	w1 := &fakeWriter{}
	table.Add("c1", w1)
	table.Remove("c1")
	table.Remove("c1") // idempotent

	table.ToAll(router.Event{Kind: "roomList"})

	if len(w1.frames) != 0 {
		t.Errorf("frame count after remove = %d, want 0", len(w1.frames))
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
}

func TestConnTable_WriteErrorDoesNotStopFanout(t *testing.T) {
	table := newTestTable()
	broken := &fakeWriter{err: errors.New("connection reset")}
	healthy := &fakeWriter{}
	table.Add("c1", broken)
	table.Add("c2", healthy)

	table.ToConnections([]string{"c1", "c2"}, router.Event{Kind: "message"})

	if len(healthy.frames) != 1 {
		t.Errorf("healthy frame count = %d, want 1 despite peer write failure", len(healthy.frames))
	}
}
