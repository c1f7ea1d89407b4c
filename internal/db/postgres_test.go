package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestInitPostgresSkipsWithoutDSN(t *testing.T) {
	origNew, origPing := newPool, pingDB
	defer func() { newPool, pingDB = origNew, origPing }()

	called := false
	newPool = func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		called = true
		return nil, nil
	}

	InitPostgres(context.Background(), "")
	if called {
		t.Fatal("empty DSN must not attempt a connection")
	}
}

func TestInitPostgresConnects(t *testing.T) {
	origNew, origPing := newPool, pingDB
	origPool := Pool
	defer func() { newPool, pingDB, Pool = origNew, origPing, origPool }()

	var gotDSN string
	newPool = func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		gotDSN = dsn
		return &pgxpool.Pool{}, nil
	}
	pingDB = func(ctx context.Context, pool *pgxpool.Pool) error { return nil }

	InitPostgres(context.Background(), "postgres://app:secret@db:5432/risksent")
	if gotDSN != "postgres://app:secret@db:5432/risksent" {
		t.Fatalf("dsn not forwarded, got %q", gotDSN)
	}
	if Pool == nil {
		t.Fatal("expected package pool to be set")
	}
}
