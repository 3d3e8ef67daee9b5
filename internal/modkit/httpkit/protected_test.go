package httpkit

import (
	"net/http"
	"testing"

	phttp "raidcall/internal/platform/net/http"
)

// fakeAuthPort satisfies middleware.AuthPort without hitting real auth
type fakeAuthPort struct{ calls int }

func (f *fakeAuthPort) Parse(*http.Request) (string, bool, error) {
	f.calls++
	return "user-x", false, nil
}

func TestProtected_WiresAuthAndForwardsRoutes(t *testing.T) {
	t.Parallel()

	// Reuse the shared fakeRouter defined in routes_test.go
	root := &fakeRouter{}
	ap := &fakeAuthPort{}

	var h phttp.Handler = nil

	Protected(root, ap, func(gr Router) {
		gr.Get("/a", h)
		gr.Post("b", h)

		gr.Route("/api", func(rr Router) {
			rr.Delete("/x", h)
			rr.Handle("/raw", http.NewServeMux())
		})
	})

	// auth middleware installed once on the group
	if root.useCalls != 1 {
		t.Fatalf("expected 1 Use call, got %d", root.useCalls)
	}

	// Route nesting recorded
	if got, want := len(root.prefixes), 1; got != want {
		t.Fatalf("expected %d nested Route call, got %d (prefixes=%v)", want, got, root.prefixes)
	}
	if root.prefixes[0] != "/api" {
		t.Fatalf("expected nested prefix /api, got %q", root.prefixes[0])
	}

	want := []struct {
		verb string
		path string
	}{
		{"GET", "/a"},
		{"POST", "b"},
		{"DELETE", "/x"},
		{"HANDLE", "/raw"},
	}

	if len(root.verbCalls) != len(want) {
		t.Fatalf("expected %d verb calls, got %d: %#v", len(want), len(root.verbCalls), root.verbCalls)
	}
	for i, w := range want {
		if root.verbCalls[i].verb != w.verb {
			t.Fatalf("call %d verb mismatch: want %q, got %q", i, w.verb, root.verbCalls[i].verb)
		}
		if root.verbCalls[i].path != w.path {
			t.Fatalf("call %d path mismatch: want %q, got %q", i, w.path, root.verbCalls[i].path)
		}
	}
	// Ensure auth port isn't invoked during wiring (it runs at request time)
	if ap.calls != 0 {
		t.Fatalf("auth port Parse should not be called during route wiring, got %d", ap.calls)
	}
}

func TestAdminOnly_InstallsBothMiddlewares(t *testing.T) {
	t.Parallel()

	root := &fakeRouter{}
	ap := &fakeAuthPort{}

	AdminOnly(root, ap, func(gr Router) {
		gr.Get("/admin", nil)
	})

	if root.useCalls != 2 {
		t.Fatalf("expected 2 Use calls (auth + admin gate), got %d", root.useCalls)
	}
	if len(root.verbCalls) != 1 || root.verbCalls[0].verb != "GET" || root.verbCalls[0].path != "/admin" {
		t.Fatalf("expected GET /admin registered, got %#v", root.verbCalls)
	}
}
