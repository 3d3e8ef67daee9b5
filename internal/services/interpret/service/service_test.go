package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	perr "raidcall/internal/platform/errors"
	"raidcall/internal/services/interpret/domain"
)

// fakeOracle counts calls and returns a canned reply or error
type fakeOracle struct {
	reply string
	err   error
	calls int

	lastSystem string
	lastUser   string
}

func (f *fakeOracle) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

const asOf = "2025-06-16" // a Monday

func TestInterpret_ShortMessageSkipsOracle(t *testing.T) {
	t.Parallel()

	fo := &fakeOracle{reply: `{"status":"OUT","date":"2025-06-20"}`}
	svc := New(Options{Oracle: fo})

	for _, msg := range []string{"", "   ", "out", "  ab  "} {
		_, err := svc.Interpret(context.Background(), msg, asOf)
		if err == nil {
			t.Fatalf("Interpret(%q) expected error", msg)
		}
		if !strings.Contains(err.Error(), "too short") {
			t.Fatalf("Interpret(%q) error = %q", msg, err)
		}
	}
	if fo.calls != 0 {
		t.Fatalf("oracle called %d times for rejected input, want 0", fo.calls)
	}
}

func TestInterpret_HappyPath(t *testing.T) {
	t.Parallel()

	fo := &fakeOracle{reply: `{"status":"OUT","date":"2025-06-20","reason":"dr"}`}
	svc := New(Options{Oracle: fo})

	d, err := svc.Interpret(context.Background(), "out friday dr", asOf)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if d.Status != domain.StatusOut || d.Date != "2025-06-20" || d.Reason != "dr" || d.Delay != nil {
		t.Fatalf("unexpected draft: %+v", d)
	}
	if fo.calls != 1 {
		t.Fatalf("oracle calls = %d want 1", fo.calls)
	}
	// prompt carries the date context
	if !strings.Contains(fo.lastSystem, asOf) || !strings.Contains(fo.lastSystem, "Monday") {
		t.Fatalf("system prompt missing date context")
	}
	if fo.lastUser != "out friday dr" {
		t.Fatalf("user message = %q", fo.lastUser)
	}
}

func TestInterpret_FencedReply(t *testing.T) {
	t.Parallel()

	fo := &fakeOracle{reply: "```json\n{\"status\":\"late\",\"date\":\"2025-06-17\",\"delay\":15}\n```"}
	svc := New(Options{Oracle: fo})

	d, err := svc.Interpret(context.Background(), "late tomorrow 15", asOf)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if d.Status != domain.StatusLate {
		t.Fatalf("status = %q, lowercase should be normalized", d.Status)
	}
	if d.Delay == nil || *d.Delay != 15 {
		t.Fatalf("delay = %v want 15", d.Delay)
	}
}

func TestInterpret_FailureModes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		reply    string
		wantErr  string
		wantCode perr.ErrorCode
	}{
		{"unparseable", "sorry, I cannot help", "Could not parse response: sorry, I cannot help", perr.ErrorCodeValidation},
		{"self reported", `{"error":"Reason here"}`, "Reason here", perr.ErrorCodeValidation},
		{"missing status", `{"date":"2025-06-20"}`, "Missing required fields.", perr.ErrorCodeValidation},
		{"missing date", `{"status":"OUT"}`, "Missing required fields.", perr.ErrorCodeValidation},
		{"bad status", `{"status":"MAYBE","date":"2025-06-20"}`, "Status must be LATE or OUT.", perr.ErrorCodeValidation},
		{"bad date format", `{"status":"OUT","date":"June 20"}`, "format is invalid", perr.ErrorCodeValidation},
		{"past year", `{"status":"OUT","date":"2023-06-20"}`, "past year (2023)", perr.ErrorCodeValidation},
		{"past date", `{"status":"OUT","date":"2025-06-15"}`, "Today is 2025-06-16", perr.ErrorCodeValidation},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			svc := New(Options{Oracle: &fakeOracle{reply: c.reply}})
			_, err := svc.Interpret(context.Background(), "out friday dr", asOf)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("error = %q want substring %q", err, c.wantErr)
			}
			if !perr.IsCode(err, c.wantCode) {
				t.Fatalf("code = %v want %v", perr.CodeOf(err), c.wantCode)
			}
		})
	}
}

func TestInterpret_PastYearBeatsPastDate(t *testing.T) {
	t.Parallel()

	// a stale-year date also fails plain comparison; the year message must win
	svc := New(Options{Oracle: &fakeOracle{reply: `{"status":"OUT","date":"2024-12-31"}`}})
	_, err := svc.Interpret(context.Background(), "out friday", asOf)
	if err == nil || !strings.Contains(err.Error(), "past year") {
		t.Fatalf("error = %v want past-year message", err)
	}
}

func TestInterpret_OracleDown(t *testing.T) {
	t.Parallel()

	svc := New(Options{Oracle: &fakeOracle{err: errors.New("dial tcp: refused")}})
	_, err := svc.Interpret(context.Background(), "out friday dr", asOf)
	if err == nil {
		t.Fatal("expected error")
	}
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("code = %v want unavailable", perr.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "rephrasing") {
		t.Fatalf("error = %q want rephrase suggestion", err)
	}
}

func TestInterpret_DelayHandling(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		reply string
		want  *int
	}{
		{"negative dropped", `{"status":"LATE","date":"2025-06-20","delay":-5}`, nil},
		{"zero dropped", `{"status":"LATE","date":"2025-06-20","delay":0}`, nil},
		{"string dropped", `{"status":"LATE","date":"2025-06-20","delay":"30"}`, nil},
		{"absent", `{"status":"LATE","date":"2025-06-20"}`, nil},
		{"kept", `{"status":"LATE","date":"2025-06-20","delay":30}`, intp(30)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			svc := New(Options{Oracle: &fakeOracle{reply: c.reply}})
			d, err := svc.Interpret(context.Background(), "late friday", asOf)
			if err != nil {
				t.Fatalf("Interpret: %v", err)
			}
			switch {
			case c.want == nil && d.Delay != nil:
				t.Fatalf("delay = %d want nil", *d.Delay)
			case c.want != nil && (d.Delay == nil || *d.Delay != *c.want):
				t.Fatalf("delay = %v want %d", d.Delay, *c.want)
			}
		})
	}

	// delay never attaches to OUT
	svc := New(Options{Oracle: &fakeOracle{reply: `{"status":"OUT","date":"2025-06-20","delay":30}`}})
	d, err := svc.Interpret(context.Background(), "out friday", asOf)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if d.Delay != nil {
		t.Fatalf("delay on OUT = %d want nil", *d.Delay)
	}
}

func TestInterpret_ReasonDefaults(t *testing.T) {
	t.Parallel()

	for _, reply := range []string{
		`{"status":"OUT","date":"2025-06-20"}`,
		`{"status":"OUT","date":"2025-06-20","reason":42}`,
		`{"status":"OUT","date":"2025-06-20","reason":null}`,
	} {
		svc := New(Options{Oracle: &fakeOracle{reply: reply}})
		d, err := svc.Interpret(context.Background(), "out friday", asOf)
		if err != nil {
			t.Fatalf("Interpret(%s): %v", reply, err)
		}
		if d.Reason != "" {
			t.Fatalf("reason = %q want empty for %s", d.Reason, reply)
		}
	}
}

func intp(n int) *int { return &n }
