package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ender-js/ender-package/pkg/deps"
	"github.com/ender-js/ender-package/pkg/errors"
	enderio "github.com/ender-js/ender-package/pkg/io"
	"github.com/ender-js/ender-package/pkg/local"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "node_modules/bonzo/package.json",
		`{"name":"bonzo","version":"1.0.0","description":"dom utility","dependencies":["qwery","ghost"]}`)
	writeFile(t, root, "node_modules/bonzo/index.js", "BONZO")
	writeFile(t, root, "node_modules/qwery/package.json", `{"name":"qwery","version":"3.4.0"}`)
	writeFile(t, root, "node_modules/broken/package.json", `{"name":`)
	return New(deps.NewWalker(deps.NewLocator(local.NewCache(), root)))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Build.GoVersion == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestWalk(t *testing.T) {
	rec := get(t, newTestServer(t), "/walk?name=bonzo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var report enderio.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if len(report.Packages) != 2 || report.Packages[0].ID != "qwery@3.4.0" {
		t.Errorf("packages = %+v", report.Packages)
	}
	if len(report.Missing) != 1 || report.Missing[0] != "ghost" {
		t.Errorf("missing = %v", report.Missing)
	}
}

func TestWalkStatusCodes(t *testing.T) {
	tests := []struct {
		target string
		status int
		code   errors.Code
	}{
		{"/walk?name=bonzo&strict=true", http.StatusNotFound, errors.ErrCodePackageNotFound},
		{"/walk?name=nope", http.StatusOK, ""},
		{"/walk?name=nope&strict=1", http.StatusNotFound, errors.ErrCodePackageNotFound},
		{"/walk?name=git%2Bhttps://example.com/x.git", http.StatusBadRequest, errors.ErrCodePackageNotLocal},
		{"/walk?name=./node_modules/broken", http.StatusUnprocessableEntity, errors.ErrCodeJSONParse},
		{"/walk?name=broken&strict=1", http.StatusNotFound, errors.ErrCodePackageNotFound},
		{"/walk", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/walk?name=bonzo&unique=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if tt.code == "" {
				return
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code || body.Message == "" || body.RequestID == "" {
				t.Errorf("body = %+v, want code %s", body, tt.code)
			}
		})
	}
}

func TestTree(t *testing.T) {
	rec := get(t, newTestServer(t), "/tree?name=bonzo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{"Active packages:", "bonzo@1.0.0 - dom utility", "qwery@3.4.0", "ghost - MISSING"} {
		if !strings.Contains(body, want) {
			t.Errorf("tree missing %q:\n%s", want, body)
		}
	}
}

func TestSources(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/sources?name=bonzo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var set enderio.SourceSet
	if err := json.NewDecoder(rec.Body).Decode(&set); err != nil {
		t.Fatal(err)
	}
	if set.ID != "bonzo@1.0.0" || set.Main != "index" || set.Sources["index"] != "BONZO" {
		t.Errorf("sources = %+v", set)
	}

	if rec := get(t, s, "/sources?name=a&name=b"); rec.Code != http.StatusBadRequest {
		t.Errorf("two names: status = %d, want 400", rec.Code)
	}
	if rec := get(t, s, "/sources?name=ghost"); rec.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/healthz")
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("generated id %q is not a uuid", rec.Header().Get(RequestIDHeader))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("id = %q, want incoming %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\n")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not a uuid\n" {
		t.Error("malformed incoming id was echoed")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.PackageNotFound("x"), http.StatusNotFound},
		{errors.PackageNotLocal("x"), http.StatusBadRequest},
		{errors.JSONParse("p", os.ErrInvalid), http.StatusUnprocessableEntity},
		{errors.Filesystem(os.ErrPermission), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestServeShutsDown(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
