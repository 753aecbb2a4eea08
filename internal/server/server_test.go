package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/relmap/pkg/pipeline"
)

const sampleCSV = `ID,Interface,System,Sub-Topics,Relationship,Critical
#1,OrderAPI,Billing,Invoices,,TRUE
#2,OrderAPI,Shipping,Tracking,#1,false
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := charmlog.NewWithOptions(io.Discard, charmlog.Options{})
	return New(pipeline.NewRunner(nil, nil, logger), logger)
}

// uploadCSV posts a multipart form and returns the response recorder.
func uploadCSV(t *testing.T, s *Server, csv string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("csv", "input.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/graphs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/graphs"`) {
		t.Error("index should carry the upload form")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUploadAndFetch(t *testing.T) {
	s := newTestServer(t)

	rec := uploadCSV(t, s, sampleCSV, map[string]string{"groups": "Critical", "title": "Test"})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (body: %s)", rec.Code, rec.Body.String())
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/graphs/") {
		t.Fatalf("Location = %q, want /graphs/{id}", location)
	}
	if s.store.len() != 1 {
		t.Fatalf("store has %d entries, want 1", s.store.len())
	}

	// The stored HTML artifact is served back
	req := httptest.NewRequest(http.MethodGet, location, nil)
	htmlRec := httptest.NewRecorder()
	s.ServeHTTP(htmlRec, req)
	if htmlRec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", location, htmlRec.Code)
	}
	if !strings.Contains(htmlRec.Body.String(), "vis-network") {
		t.Error("graph page should embed the network")
	}
	if !strings.Contains(htmlRec.Body.String(), "<title>Test</title>") {
		t.Error("graph page should carry the uploaded title")
	}

	// The JSON variant serves the serialized graph with its hash as ETag
	req = httptest.NewRequest(http.MethodGet, location+".json", nil)
	jsonRec := httptest.NewRecorder()
	s.ServeHTTP(jsonRec, req)
	if jsonRec.Code != http.StatusOK {
		t.Fatalf("GET %s.json = %d, want 200", location, jsonRec.Code)
	}
	if ct := jsonRec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if etag := jsonRec.Header().Get("ETag"); len(etag) != 66 { // quoted sha256
		t.Errorf("ETag = %q, want quoted content hash", etag)
	}
	if !strings.Contains(jsonRec.Body.String(), `"nodes"`) {
		t.Error("json response should serialize the graph")
	}
}

func TestUploadSchemaError(t *testing.T) {
	s := newTestServer(t)

	rec := uploadCSV(t, s, "ID,Interface\n#1,A\n", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing required columns") {
		t.Errorf("body = %q, should name the missing columns", rec.Body.String())
	}
	if s.store.len() != 0 {
		t.Error("failed upload should not be stored")
	}
}

func TestUploadMissingFile(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "no file")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/graphs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGraphNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/graphs/nope", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCleanGroups(t *testing.T) {
	got := cleanGroups([]string{"Critical, Deprecated", "", " Internal "})
	want := []string{"Critical", "Deprecated", "Internal"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanGroups = %v, want %v", got, want)
	}
}
