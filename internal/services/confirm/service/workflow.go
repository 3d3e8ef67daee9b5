package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raidcall/internal/core/raidday"
	perr "raidcall/internal/platform/errors"
	"raidcall/internal/platform/logger"
	"raidcall/internal/services/confirm/domain"
	idom "raidcall/internal/services/interpret/domain"
)

// rephraseHint follows every interpretation failure
const rephraseHint = `Try something like "out friday dr" or "late tomorrow 30 mins".`

// Workflow drives the message -> confirm/edit/cancel loop
type Workflow struct {
	interp   idom.ServicePort
	ledger   *Ledger
	notifier domain.Notifier
	recorder domain.Recorder
	days     *raidday.Resolver
	ttl      time.Duration

	now func() time.Time
}

// WorkflowOptions control workflow construction
type WorkflowOptions struct {
	// Interpreter, Ledger, Notifier, Recorder and Days are required
	Interpreter idom.ServicePort
	Ledger      *Ledger
	Notifier    domain.Notifier
	Recorder    domain.Recorder
	Days        *raidday.Resolver

	// TTL bounds how long a confirmation stays actionable, default 10m
	TTL time.Duration
}

// NewWorkflow constructs the workflow
func NewWorkflow(opt WorkflowOptions) *Workflow {
	switch {
	case opt.Interpreter == nil:
		panic("confirm.Workflow requires an interpreter")
	case opt.Ledger == nil:
		panic("confirm.Workflow requires a ledger")
	case opt.Notifier == nil:
		panic("confirm.Workflow requires a notifier")
	case opt.Recorder == nil:
		panic("confirm.Workflow requires a recorder")
	case opt.Days == nil:
		panic("confirm.Workflow requires a day resolver")
	}
	ttl := opt.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Workflow{
		interp:   opt.Interpreter,
		ledger:   opt.Ledger,
		notifier: opt.Notifier,
		recorder: opt.Recorder,
		days:     opt.Days,
		ttl:      ttl,
		now:      time.Now,
	}
}

// HandleMessage interprets an inbound message and presents a confirmation
// Bot-authored and blank messages are ignored without error
func (w *Workflow) HandleMessage(ctx context.Context, ev domain.MessageEvent) error {
	if ev.AuthorBot {
		return nil
	}
	if strings.TrimSpace(ev.Text) == "" {
		return nil
	}

	draft, err := w.interp.Interpret(ctx, ev.Text, w.days.Today())
	if err != nil {
		w.reply(ctx, ev.MessageRef, perr.WireFrom(err).Message+"\n"+rephraseHint, nil)
		return nil
	}

	now := w.now()
	p := domain.Pending{
		ID:            fmt.Sprintf("%s_%d", ev.AuthorID, now.UnixNano()),
		RequesterID:   ev.AuthorID,
		RequesterName: ev.AuthorName,
		Draft:         draft,
		MessageRef:    ev.MessageRef,
		CreatedAt:     now,
	}
	if err := w.ledger.Put(p); err != nil {
		return err
	}

	w.reply(ctx, ev.MessageRef, renderDraft(draft),
		[]domain.Action{domain.ActionConfirm, domain.ActionEdit, domain.ActionCancel})

	// one-shot expiry for this entry; the sweeper remains authoritative
	time.AfterFunc(w.ttl, func() {
		if !w.ledger.Remove(p.ID) {
			return
		}
		if err := w.notifier.Expire(context.Background(), p.MessageRef); err != nil {
			logger.Named("confirm").Warn().Err(err).Str("confirmation", p.ID).Msg("expiry notice failed")
		}
	})
	return nil
}

// HandleAction resolves a button press against the ledger
func (w *Workflow) HandleAction(ctx context.Context, ev domain.ActionEvent) error {
	p, ok := w.ledger.Get(ev.ConfirmationID)
	if !ok {
		// never reveal whether the id ever existed or whose it was
		return perr.Expiredf("This confirmation has expired or no longer exists. Please send your callout again.")
	}
	if ev.ActorID != p.RequesterID {
		return perr.Forbiddenf("You can only respond to your own callouts.")
	}

	switch ev.Action {
	case domain.ActionConfirm:
		// remove first so a concurrent confirm cannot double commit
		if !w.ledger.Remove(p.ID) {
			return perr.Expiredf("This confirmation has expired or no longer exists. Please send your callout again.")
		}
		if err := w.recorder.Record(ctx, p.RequesterID, p.RequesterName, p.Draft); err != nil {
			// single attempt, no reinsertion; the member sends a fresh callout
			return err
		}
		w.reply(ctx, p.MessageRef, "Callout recorded. See you at raid!", nil)
		return nil

	case domain.ActionCancel:
		w.ledger.Remove(p.ID)
		w.reply(ctx, p.MessageRef, "Callout cancelled.", nil)
		return nil

	case domain.ActionEdit:
		// the entry stays live; a later confirm on this id still commits
		w.reply(ctx, p.MessageRef, "Send a new message with the corrected callout.", nil)
		return nil

	default:
		return perr.InvalidArgf("unknown action %q", ev.Action)
	}
}

// reply delivers a notification best effort
func (w *Workflow) reply(ctx context.Context, ref, text string, choices []domain.Action) {
	if err := w.notifier.Reply(ctx, ref, text, choices); err != nil {
		logger.C(ctx).Warn().Err(err).Str("ref", ref).Msg("reply failed")
	}
}

// renderDraft formats a confirmation prompt for the member
func renderDraft(d idom.Draft) string {
	day, err := raidday.Parse(d.Date)
	when := d.Date
	if err == nil {
		when = raidday.FormatHuman(day)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You will be %s on %s", d.Status, when)
	if d.Status == idom.StatusLate && d.Delay != nil {
		fmt.Fprintf(&b, " (about %d minutes late)", *d.Delay)
	}
	b.WriteString(".")
	if d.Reason != "" {
		fmt.Fprintf(&b, " Reason: %s.", d.Reason)
	}
	b.WriteString(" Confirm?")
	return b.String()
}
