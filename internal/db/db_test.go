package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourorg/eztech-media/internal/models"
)

func TestConnString(t *testing.T) {
	c := Config{Host: "db", Port: 5433, User: "app", Password: "p@ss:w%rd", DBName: "eztech", SSLMode: "require"}
	want := "postgres://app:p%40ss%3Aw%25rd@db:5433/eztech?sslmode=require"
	if got := c.ConnString(); got != want {
		t.Fatalf("ConnString()=%q; want %q", got, want)
	}
	c.DSN = "postgres://override"
	if got := c.ConnString(); got != c.DSN {
		t.Fatalf("DSN must take precedence, got %q", got)
	}
}

func TestMapPgErr(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{pgx.ErrNoRows, ErrNotFound},
		{fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{&pgconn.PgError{Code: "23505"}, ErrConflict},
		{&pgconn.PgError{Code: "23514"}, ErrValidation},
	}
	for _, tc := range cases {
		if got := mapPgErr(tc.in); !errors.Is(got, tc.want) {
			t.Fatalf("mapPgErr(%v)=%v; want %v", tc.in, got, tc.want)
		}
	}
	if mapPgErr(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	other := errors.New("boom")
	if mapPgErr(other) != other {
		t.Fatalf("unknown errors pass through")
	}
}

func TestValidatePromotion(t *testing.T) {
	now := time.Now()
	ok := models.Promotion{Title: "Sale", StartDate: now, EndDate: now.Add(time.Hour)}
	if err := validatePromotion(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	noTitle := ok
	noTitle.Title = "  "
	if err := validatePromotion(noTitle); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	backwards := ok
	backwards.EndDate = now.Add(-time.Hour)
	if err := validatePromotion(backwards); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("DB_USER", "")
	cfg := FromEnv()
	if cfg.Host != "pg.internal" || cfg.Port != 6543 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.MaxConns != 8 || cfg.User != "postgres" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
