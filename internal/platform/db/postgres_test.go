package db

import (
	"context"
	"testing"
)

func TestConnectRequiresDSN(t *testing.T) {
	if _, err := Connect(""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestNilPostgresIsSafe(t *testing.T) {
	var pg *Postgres
	if err := pg.Close(); err != nil {
		t.Fatalf("close on nil must be a no-op, got %v", err)
	}
	if err := pg.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error on nil postgres")
	}
	if err := pg.Migrate(context.Background()); err == nil {
		t.Fatalf("expected migrate error on nil postgres")
	}
}
