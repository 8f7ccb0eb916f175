package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/soaringjerry/fairway/internal/config"
	"github.com/soaringjerry/fairway/internal/logger"
	"github.com/soaringjerry/fairway/internal/services"
)

func TestOpenReservationStoreMemorySeeded(t *testing.T) {
	cfg := config.Default()
	store, closeFn, err := openReservationStore(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	hotels, err := store.ListHotels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(hotels) == 0 {
		t.Fatal("expected sample hotels in seeded memory store")
	}
}

func TestOpenReservationStoreNone(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.StoreNone
	store, _, err := openReservationStore(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.ListHotels(context.Background()); !errors.Is(err, services.ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestOpenReservationStoreSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.StoreSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "fairway.db")
	store, closeFn, err := openReservationStore(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	hotels, err := store.ListHotels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(hotels) != 2 {
		t.Fatalf("hotels = %d, want 2", len(hotels))
	}
}

func TestFrontendHandler(t *testing.T) {
	cfg := config.Default()
	if h := frontendHandler(cfg, logger.Nop()); h != nil {
		t.Fatal("expected no frontend handler by default")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>fairway</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.StaticDir = dir
	h := frontendHandler(cfg, logger.Nop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	cfg.StaticDir = ""
	cfg.DevFrontendURL = "::not a url"
	if h := frontendHandler(cfg, logger.Nop()); h != nil {
		t.Fatal("expected invalid dev URL to be ignored")
	}
}
