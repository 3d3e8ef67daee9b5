package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"raidcall/internal/core/raidday"
	perr "raidcall/internal/platform/errors"
	"raidcall/internal/services/confirm/domain"
	idom "raidcall/internal/services/interpret/domain"
)

// fakeInterp returns a canned draft or error
type fakeInterp struct {
	draft idom.Draft
	err   error
	calls int
}

func (f *fakeInterp) Interpret(context.Context, string, string) (idom.Draft, error) {
	f.calls++
	if f.err != nil {
		return idom.Draft{}, f.err
	}
	return f.draft, nil
}

// fakeNotifier records deliveries
type fakeNotifier struct {
	mu      sync.Mutex
	replies []string
	choices [][]domain.Action
	expired []string
	err     error
}

func (f *fakeNotifier) Reply(_ context.Context, ref, text string, choices []domain.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, text)
	f.choices = append(f.choices, choices)
	return f.err
}

func (f *fakeNotifier) Expire(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, ref)
	return f.err
}

func (f *fakeNotifier) lastReply(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		t.Fatal("no replies delivered")
	}
	return f.replies[len(f.replies)-1]
}

// fakeRecorder counts commits
type fakeRecorder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRecorder) Record(context.Context, string, string, idom.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func okDraft() idom.Draft {
	return idom.Draft{Status: idom.StatusOut, Date: "2025-06-20", Reason: "dr"}
}

type harness struct {
	wf  *Workflow
	in  *fakeInterp
	not *fakeNotifier
	rec *fakeRecorder
	led *Ledger
}

func newHarness(t *testing.T, in *fakeInterp) *harness {
	t.Helper()
	not := &fakeNotifier{}
	rec := &fakeRecorder{}
	led := NewLedger()
	wf := NewWorkflow(WorkflowOptions{
		Interpreter: in,
		Ledger:      led,
		Notifier:    not,
		Recorder:    rec,
		Days:        raidday.MustResolver("America/New_York"),
		TTL:         time.Hour, // keep per-entry timers inert during tests
	})
	return &harness{wf: wf, in: in, not: not, rec: rec, led: led}
}

func (h *harness) onlyPending(t *testing.T) domain.Pending {
	t.Helper()
	if h.led.Len() != 1 {
		t.Fatalf("ledger has %d entries want 1", h.led.Len())
	}
	h.led.mu.Lock()
	defer h.led.mu.Unlock()
	for _, p := range h.led.pending {
		return p
	}
	panic("unreachable")
}

func TestHandleMessage_IgnoresBotsAndBlank(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})

	if err := h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "b", AuthorBot: true, Text: "out friday"}); err != nil {
		t.Fatalf("bot message: %v", err)
	}
	if err := h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u", Text: "   "}); err != nil {
		t.Fatalf("blank message: %v", err)
	}
	if h.in.calls != 0 {
		t.Fatalf("interpreter called %d times want 0", h.in.calls)
	}
	if h.led.Len() != 0 {
		t.Fatalf("ledger has %d entries want 0", h.led.Len())
	}
}

func TestHandleMessage_PresentsConfirmation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})

	err := h.wf.HandleMessage(context.Background(), domain.MessageEvent{
		AuthorID: "u1", AuthorName: "Thrall", Text: "out friday dr", MessageRef: "m1",
	})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	p := h.onlyPending(t)
	if p.RequesterID != "u1" || p.RequesterName != "Thrall" || p.MessageRef != "m1" {
		t.Fatalf("pending = %+v", p)
	}
	if !strings.HasPrefix(p.ID, "u1_") {
		t.Fatalf("id = %q want requester prefix", p.ID)
	}

	got := h.not.lastReply(t)
	if !strings.Contains(got, "OUT") || !strings.Contains(got, "Friday, June 20, 2025") || !strings.Contains(got, "dr") {
		t.Fatalf("confirmation text = %q", got)
	}
	if len(h.not.choices[0]) != 3 {
		t.Fatalf("choices = %v want confirm/edit/cancel", h.not.choices[0])
	}
}

func TestHandleMessage_InterpretFailureReplies(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{err: perr.Newf(perr.ErrorCodeValidation, "Message too short or invalid.")})

	err := h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u1", Text: "zzzz", MessageRef: "m1"})
	if err != nil {
		t.Fatalf("HandleMessage should swallow interpret failures, got %v", err)
	}
	got := h.not.lastReply(t)
	if !strings.Contains(got, "too short") || !strings.Contains(got, "Try something like") {
		t.Fatalf("failure reply = %q", got)
	}
	if h.led.Len() != 0 {
		t.Fatal("nothing should be pending after a failed interpretation")
	}
}

func TestHandleMessage_NotifierFailureSwallowed(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})
	h.not.err = errors.New("channel gone")

	err := h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u1", Text: "out friday", MessageRef: "m1"})
	if err != nil {
		t.Fatalf("notifier failure must not bubble: %v", err)
	}
	// the pending entry still exists so the member can retry buttons later
	if h.led.Len() != 1 {
		t.Fatalf("ledger has %d entries want 1", h.led.Len())
	}
}

func TestHandleAction_UnknownIDIsGenericExpired(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})

	err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionConfirm, ConfirmationID: "ghost_1", ActorID: "u1",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !perr.IsCode(err, perr.ErrorCodeExpired) {
		t.Fatalf("code = %v want expired", perr.CodeOf(err))
	}
	// the message never identifies an owner
	if strings.Contains(err.Error(), "u1") || strings.Contains(err.Error(), "ghost") {
		t.Fatalf("expired message leaks identity: %q", err)
	}
}

func TestHandleAction_ForeignActorRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})
	_ = h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "owner", Text: "out friday", MessageRef: "m1"})
	p := h.onlyPending(t)

	for _, action := range []domain.Action{domain.ActionConfirm, domain.ActionEdit, domain.ActionCancel} {
		err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
			Action: action, ConfirmationID: p.ID, ActorID: "intruder",
		})
		if err == nil || !perr.IsCode(err, perr.ErrorCodeForbidden) {
			t.Fatalf("action %s by foreign actor: err = %v want forbidden", action, err)
		}
	}

	// entry untouched and still confirmable by its owner
	if _, ok := h.led.Get(p.ID); !ok {
		t.Fatal("pending entry should survive foreign presses")
	}
	if err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionConfirm, ConfirmationID: p.ID, ActorID: "owner",
	}); err != nil {
		t.Fatalf("owner confirm after foreign presses: %v", err)
	}
	if h.rec.count() != 1 {
		t.Fatalf("recorder calls = %d want 1", h.rec.count())
	}
}

func TestHandleAction_DoubleConfirm(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})
	_ = h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u1", Text: "out friday", MessageRef: "m1"})
	p := h.onlyPending(t)

	first := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionConfirm, ConfirmationID: p.ID, ActorID: "u1",
	})
	if first != nil {
		t.Fatalf("first confirm: %v", first)
	}

	second := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionConfirm, ConfirmationID: p.ID, ActorID: "u1",
	})
	if second == nil || !perr.IsCode(second, perr.ErrorCodeExpired) {
		t.Fatalf("second confirm err = %v want expired", second)
	}

	if h.rec.count() != 1 {
		t.Fatalf("recorder calls = %d want exactly 1", h.rec.count())
	}
}

func TestHandleAction_ConfirmCommitFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})
	h.rec.err = perr.Conflictf("already recorded for that day")

	_ = h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u1", Text: "out friday", MessageRef: "m1"})
	p := h.onlyPending(t)

	err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionConfirm, ConfirmationID: p.ID, ActorID: "u1",
	})
	if err == nil || !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("err = %v want the recorder's conflict", err)
	}
	// no retry and no reinsertion
	if h.rec.count() != 1 {
		t.Fatalf("recorder calls = %d want 1", h.rec.count())
	}
	if _, ok := h.led.Get(p.ID); ok {
		t.Fatal("entry must not be reinserted after a failed commit")
	}
}

func TestHandleAction_Cancel(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})
	_ = h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u1", Text: "out friday", MessageRef: "m1"})
	p := h.onlyPending(t)

	if err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionCancel, ConfirmationID: p.ID, ActorID: "u1",
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if h.led.Len() != 0 {
		t.Fatal("cancel should drop the entry")
	}
	if h.rec.count() != 0 {
		t.Fatal("cancel must not commit")
	}
	if got := h.not.lastReply(t); !strings.Contains(got, "cancelled") {
		t.Fatalf("cancel reply = %q", got)
	}
}

func TestHandleAction_ConfirmAfterEdit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})
	_ = h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u1", Text: "out friday", MessageRef: "m1"})
	p := h.onlyPending(t)

	if err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionEdit, ConfirmationID: p.ID, ActorID: "u1",
	}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	// edit leaves the entry live; the original id still commits
	if _, ok := h.led.Get(p.ID); !ok {
		t.Fatal("edit should leave the pending entry in place")
	}
	if err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: domain.ActionConfirm, ConfirmationID: p.ID, ActorID: "u1",
	}); err != nil {
		t.Fatalf("confirm after edit: %v", err)
	}
	if h.rec.count() != 1 {
		t.Fatalf("recorder calls = %d want 1", h.rec.count())
	}
}

func TestHandleAction_UnknownAction(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeInterp{draft: okDraft()})
	_ = h.wf.HandleMessage(context.Background(), domain.MessageEvent{AuthorID: "u1", Text: "out friday", MessageRef: "m1"})
	p := h.onlyPending(t)

	err := h.wf.HandleAction(context.Background(), domain.ActionEvent{
		Action: "explode", ConfirmationID: p.ID, ActorID: "u1",
	})
	if err == nil || !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v want invalid argument", err)
	}
}

func TestRenderDraft(t *testing.T) {
	t.Parallel()

	d := idom.Draft{Status: idom.StatusLate, Date: "2025-06-20", Reason: "traffic", Delay: intp(30)}
	got := renderDraft(d)
	for _, want := range []string{"LATE", "Friday, June 20, 2025", "30 minutes late", "traffic", "Confirm?"} {
		if !strings.Contains(got, want) {
			t.Fatalf("renderDraft = %q missing %q", got, want)
		}
	}

	// malformed date falls back to the raw string rather than panicking
	got = renderDraft(idom.Draft{Status: idom.StatusOut, Date: "someday"})
	if !strings.Contains(got, "someday") {
		t.Fatalf("renderDraft fallback = %q", got)
	}
}

func intp(n int) *int { return &n }
