package ticket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	histstore "conferente/infrastructure/history"
	"conferente/infrastructure/sqlite"
	"conferente/models"
)

func openTestLog(t *testing.T) *histstore.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ticket-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := sqlite.ApplyMigrations(context.Background(), db, filepath.Join("..", "..", "infrastructure", "sqlite", "migrations")); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return histstore.NewStore(db)
}

func TestTicketPDFQueryHandler(t *testing.T) {
	log := openTestLog(t)
	rec := models.WeighingRecord{
		Supplier: "Acme", Product: "Box-A",
		GrossWeightKg: 10, NetWeightKg: 10,
		TimestampMs: time.Now().UnixMilli(),
	}
	if err := log.Append(context.Background(), &rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/ticket.pdf", nil)
	rr := httptest.NewRecorder()
	TicketPDFQueryHandler(log)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF-") {
		t.Fatalf("expected pdf body")
	}
}

func TestTicketPDFQueryHandlerEmptyLog(t *testing.T) {
	log := openTestLog(t)
	req := httptest.NewRequest(http.MethodGet, "/api/ticket.pdf", nil)
	rr := httptest.NewRecorder()
	TicketPDFQueryHandler(log)(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestShareTextQueryHandler(t *testing.T) {
	log := openTestLog(t)
	rec := models.WeighingRecord{
		Supplier: "Acme", Product: "Box-A",
		NetWeightKg: 102.5, TimestampMs: time.Now().UnixMilli(),
	}
	if err := log.Append(context.Background(), &rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/ticket/share", nil)
	rr := httptest.NewRecorder()
	ShareTextQueryHandler(log)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Itens: 1") || !strings.Contains(body, "Total Liq: 102.50kg") {
		t.Fatalf("unexpected share text %q", body)
	}
}
