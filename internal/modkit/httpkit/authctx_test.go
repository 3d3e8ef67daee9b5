package httpkit

import (
	"context"
	"net/http"
	"testing"

	pnet "raidcall/internal/platform/net"
)

func newReq() *http.Request {
	req, _ := http.NewRequest(http.MethodGet, "http://x.test/y", nil)
	return req
}

func TestUser_SuccessAndError(t *testing.T) {
	// success
	{
		ctx := pnet.WithUser(context.Background(), "u-123")
		got, err := User(newReq().WithContext(ctx))
		if err != nil {
			t.Fatalf("User unexpected error: %v", err)
		}
		if got != "u-123" {
			t.Fatalf("User got %q want %q", got, "u-123")
		}
	}

	// error: bare context
	{
		_, err := User(newReq())
		if err == nil {
			t.Fatal("User expected error, got nil")
		}
		if got := err.Error(); got != "not authenticated" {
			t.Fatalf("User error = %q want %q", got, "not authenticated")
		}
	}
}

func TestMustUser_SuccessAndPanic(t *testing.T) {
	{
		ctx := pnet.WithUser(context.Background(), "ok-user")
		if got := MustUser(newReq().WithContext(ctx)); got != "ok-user" {
			t.Fatalf("MustUser got %q want %q", got, "ok-user")
		}
	}
	{
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("MustUser expected panic, got none")
			}
		}()
		_ = MustUser(newReq())
	}
}

func TestIsAdmin_And_RequireAdmin(t *testing.T) {
	if IsAdmin(newReq()) {
		t.Fatal("IsAdmin true on bare request")
	}
	if err := RequireAdmin(newReq()); err == nil {
		t.Fatal("RequireAdmin expected error on bare request")
	}

	ctx := pnet.WithAdmin(context.Background(), true)
	req := newReq().WithContext(ctx)
	if !IsAdmin(req) {
		t.Fatal("IsAdmin false on admin context")
	}
	if err := RequireAdmin(req); err != nil {
		t.Fatalf("RequireAdmin unexpected error: %v", err)
	}
}
