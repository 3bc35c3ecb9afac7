package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/gymlog/internal/ingest"
)

// TestSendExport verifies the CSV body reaches the import endpoint and the result decodes.
func TestSendExport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/import/alpha" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "csv-data" {
			t.Errorf("body = %q", body)
		}
		json.NewEncoder(w).Encode(ingest.Result{SessionsReceived: 2, SessionsInserted: 2})
	}))
	defer ts.Close()

	res, err := NewClient(ts.URL+"/").SendExport(context.Background(), []byte("csv-data"))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsInserted != 2 {
		t.Errorf("result = %+v", res)
	}
}

// TestSendExportRetries verifies transient server errors are retried.
func TestSendExportRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(ingest.Result{SessionsInserted: 1})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.backoff = time.Millisecond
	res, err := c.SendExport(context.Background(), []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsInserted != 1 || calls.Load() != 3 {
		t.Errorf("result = %+v after %d calls", res, calls.Load())
	}
}

// TestSendExportRejected verifies a 400 is returned immediately without retries.
func TestSendExportRejected(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"line 3: set row before exercise header"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).SendExport(context.Background(), []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

// TestStateDB verifies uploads are remembered per server and content hash.
func TestStateDB(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	hash := HashBytes([]byte("export"))
	if ok, err := s.IsUploaded("http://a", hash); err != nil || ok {
		t.Fatalf("IsUploaded before mark = %v, %v", ok, err)
	}
	if err := s.MarkUploaded("http://a", hash, "export.csv"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.IsUploaded("http://a", hash); !ok {
		t.Error("export should be marked uploaded")
	}
	if ok, _ := s.IsUploaded("http://b", hash); ok {
		t.Error("another server should not see the upload")
	}
}

// TestHashFile verifies file and byte hashes agree.
func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("export"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != HashBytes([]byte("export")) {
		t.Errorf("HashFile = %s, want %s", got, HashBytes([]byte("export")))
	}
}
