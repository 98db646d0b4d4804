package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/eztech-media/internal/config"
	"github.com/yourorg/eztech-media/internal/storage"
)

func testApp(t *testing.T, allowWipe bool) (*app, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "blobs")
	return &app{
		cfg: config.Config{
			Env: config.EnvDevelopment,
			Storage: config.Storage{
				Driver:           "badger",
				ConnectionString: "Path=" + dir,
				Container:        "images",
				OpTimeout:        5 * time.Second,
				AllowWipe:        allowWipe,
			},
		},
		log: zap.NewNop(),
	}, dir
}

func run(t *testing.T, a *app, args ...string) error {
	t.Helper()
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func countBlobs(t *testing.T, dir string) int {
	t.Helper()
	s, err := storage.NewBadger(storage.ConnectionString{Path: dir}, "images")
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer s.Close()
	n := 0
	if err := s.Walk(context.Background(), func(string) error { n++; return nil }); err != nil {
		t.Fatalf("walk: %v", err)
	}
	return n
}

func TestImagePutAndWipe(t *testing.T) {
	a, dir := testApp(t, true)
	src := filepath.Join(t.TempDir(), "promo.png")
	if err := os.WriteFile(src, []byte("png bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, a, "image", "put", "promo.png", src); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := run(t, a, "image", "put", "other.png", src); err != nil {
		t.Fatalf("put: %v", err)
	}
	if n := countBlobs(t, dir); n != 2 {
		t.Fatalf("blobs=%d; want 2", n)
	}

	if err := run(t, a, "image", "wipe"); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := run(t, a, "image", "wipe", "--yes"); err != nil {
		t.Fatalf("wipe: %v", err)
	}
	if n := countBlobs(t, dir); n != 0 {
		t.Fatalf("blobs after wipe=%d", n)
	}
}

func TestImageWipeRefusedWithoutFlag(t *testing.T) {
	a, _ := testApp(t, false)
	if err := run(t, a, "image", "wipe", "--yes"); err == nil {
		t.Fatalf("expected wipe to be refused")
	}
}

func TestImageGetWritesPlaceholder(t *testing.T) {
	a, _ := testApp(t, false)
	out := filepath.Join(t.TempDir(), "out.png")
	if err := run(t, a, "image", "get", "missing.png", "-o", out); err != nil {
		t.Fatalf("get: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 8 || string(b[1:4]) != "PNG" {
		t.Fatalf("expected placeholder PNG, got %d bytes", len(b))
	}
}

func TestUnsupportedDriver(t *testing.T) {
	a, _ := testApp(t, false)
	a.cfg.Storage.Driver = "azure"
	if err := run(t, a, "image", "count"); err == nil {
		t.Fatalf("expected driver error")
	}
}
