//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"raidcall/internal/platform/store"
)

const schema = `
CREATE TABLE users (
	id         text PRIMARY KEY,
	username   text NOT NULL,
	is_admin   boolean NOT NULL DEFAULT false,
	protected  boolean NOT NULL DEFAULT false,
	api_token  text NOT NULL UNIQUE,
	created_at timestamptz NOT NULL DEFAULT now(),
	last_seen  timestamptz NOT NULL DEFAULT now()
);
`

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func openStore(t *testing.T, dsn string) (*store.Store, func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	st, err := store.Open(ctx, store.Config{
		AppName: "raidcall-users-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn},
	})
	if err != nil {
		cancel()
		t.Fatalf("store.Open: %v", err)
	}
	if _, err := st.PG.Exec(ctx, schema); err != nil {
		st.Close(ctx)
		cancel()
		t.Fatalf("schema: %v", err)
	}
	return st, func() {
		st.Close(context.Background())
		cancel()
	}
}

func TestRepo_RoundTrip_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()
	st, closeStore := openStore(t, dsn)
	defer closeStore()

	ctx := context.Background()
	r := NewPG().Bind(st.PG)

	tok := uuid.NewString()
	u, err := r.Upsert(ctx, "u1", "Thrall", tok)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if u.Token != tok || u.IsAdmin || u.Protected {
		t.Fatalf("first upsert = %+v", u)
	}

	// a second upsert refreshes the username but keeps the original token
	again, err := r.Upsert(ctx, "u1", "ThrallTheMighty", uuid.NewString())
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if again.Username != "ThrallTheMighty" || again.Token != tok {
		t.Fatalf("second upsert = %+v", again)
	}

	got, err := r.GetByToken(ctx, tok)
	if err != nil || got.ID != "u1" {
		t.Fatalf("GetByToken = %+v, %v", got, err)
	}

	if _, err := r.Upsert(ctx, "u2", "Jaina", uuid.NewString()); err != nil {
		t.Fatalf("Upsert u2: %v", err)
	}
	all, err := r.List(ctx)
	if err != nil || len(all) != 2 || all[0].Username != "Jaina" {
		t.Fatalf("List = %+v, %v", all, err)
	}

	if err := r.SetAdmin(ctx, "u2", true); err != nil {
		t.Fatalf("SetAdmin: %v", err)
	}
	admins, err := r.CountAdmins(ctx)
	if err != nil || admins != 1 {
		t.Fatalf("CountAdmins = %d, %v", admins, err)
	}

	if err := r.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	total, err := r.CountAll(ctx)
	if err != nil || total != 1 {
		t.Fatalf("CountAll = %d, %v", total, err)
	}

	// deleting a missing row reports not found
	if err := r.Delete(ctx, "ghost"); err == nil {
		t.Fatal("expected an error deleting a missing user")
	}
}
