package weighing

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
)

func TestComposeQueryHandlerPreviewsTotals(t *testing.T) {
	h := ComposeQueryHandler()

	q := url.Values{}
	q.Set("unit_tare_g", "2500")
	q.Set("box_qty", "4")
	q.Set("gross_kg", "112,5")
	req := httptest.NewRequest(http.MethodGet, "/api/weighings/compose?"+q.Encode(), nil)
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var comp struct {
		TotalTareKg float64 `json:"totalTareKg"`
		NetKg       float64 `json:"netKg"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &comp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(comp.TotalTareKg-10) > 1e-9 || math.Abs(comp.NetKg-102.5) > 1e-9 {
		t.Fatalf("preview = %+v, want tare 10 net 102.5", comp)
	}
}

func TestComposeQueryHandlerRejectsUnknownMode(t *testing.T) {
	h := ComposeQueryHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/weighings/compose?mode=banana", nil)
	rr := httptest.NewRecorder()
	h(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestRegisterWeighingCommandHandler(t *testing.T) {
	memory, log := newStores(t)
	h := RegisterWeighingCommandHandler(memory, log)

	form := url.Values{}
	form.Set("supplier", "Acme")
	form.Set("product", "Box-A")
	form.Set("target_weight_kg", "100")
	form.Set("gross_kg", "112.5")
	form.Set("unit_tare_g", "2500")
	form.Set("box_qty", "4")

	req := httptest.NewRequest(http.MethodPost, "/api/weighings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %q", rr.Code, rr.Body.String())
	}
	var result RegisterResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if math.Abs(result.Composition.NetKg-102.5) > 1e-9 {
		t.Fatalf("net = %v, want 102.5", result.Composition.NetKg)
	}

	if tare, ok := memory.PredictForProduct("Acme", "Box-A"); !ok || tare != 2.5 {
		t.Fatalf("learned tare = %v (%v), want 2.5", tare, ok)
	}
}

func TestRegisterWeighingCommandHandlerRejectsInvalid(t *testing.T) {
	memory, log := newStores(t)
	h := RegisterWeighingCommandHandler(memory, log)

	form := url.Values{}
	form.Set("supplier", "Acme")
	form.Set("product", "Box-A")
	form.Set("gross_kg", "0")

	req := httptest.NewRequest(http.MethodPost, "/api/weighings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got := len(log.All(context.Background())); got != 0 {
		t.Fatalf("rejected weighing reached the log, %d records", got)
	}
}

func TestParseOptionalPhotoAcceptsImage(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}
	req := newMultipartPhotoRequest(t, "image/png", data)
	blob, mimeType, err := parseOptionalPhoto(req)
	if err != nil {
		t.Fatalf("expected accepted image, got error: %v", err)
	}
	if len(blob) != len(data) {
		t.Fatalf("expected blob bytes")
	}
	if mimeType != "image/png" {
		t.Fatalf("expected image/png mime, got %q", mimeType)
	}
}

func TestParseOptionalPhotoRejectsNonImage(t *testing.T) {
	req := newMultipartPhotoRequest(t, "application/pdf", []byte("%PDF-1.4"))
	_, _, err := parseOptionalPhoto(req)
	if err == nil || !strings.Contains(err.Error(), "image file") {
		t.Fatalf("expected non-image rejection, got %v", err)
	}
}

func TestParseOptionalPhotoRejectsOversize(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, (5<<20)+1)
	req := newMultipartPhotoRequest(t, "image/png", data)
	_, _, err := parseOptionalPhoto(req)
	if err == nil || !strings.Contains(err.Error(), "5MB or less") {
		t.Fatalf("expected max-size rejection, got %v", err)
	}
}

func TestParseOptionalPhotoIgnoresMissingFile(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("supplier", "Acme"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/weighings", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	blob, mimeType, err := parseOptionalPhoto(req)
	if err != nil {
		t.Fatalf("missing photo must be fine: %v", err)
	}
	if blob != nil || mimeType != "" {
		t.Fatalf("expected empty photo, got %d bytes %q", len(blob), mimeType)
	}
}

func newMultipartPhotoRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="evidence.png"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write multipart data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/weighings", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
