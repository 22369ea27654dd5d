package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/arnestad/mdxpress/internal/push"
	"github.com/arnestad/mdxpress/internal/testutil"
)

// testEnv sets up source/destination trees, a manifest, and a router
// publishing the "proj" folder.
func testEnv(t *testing.T, authToken string) (http.Handler, string, string) {
	t.Helper()

	srcDir, src := testutil.TestTree(t)
	dstDir, dst := testutil.TestTree(t)
	man := testutil.TestManifest(t)

	pusher := push.New(src, dst, man, nil, push.Config{})
	svc := NewService(pusher, man, "proj")
	h := NewHandler(svc, NewRenderer(dst))

	r := chi.NewRouter()
	r.Mount("/api", NewRouter(h, authToken != "", authToken, nil))
	r.Get("/preview/*", h.Preview)
	return r, srcDir, dstDir
}

func TestStatus_Empty(t *testing.T) {
	router, srcDir, _ := testEnv(t, "")
	testutil.WriteFile(t, srcDir, "proj/doc.md", []byte("# Doc\n"))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var st Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Folder != "proj" || st.URLPrefix != "/work/proj/" || st.Artifacts != 0 {
		t.Errorf("status = %+v", st)
	}
}

func TestTriggerPush_ReturnsReport(t *testing.T) {
	router, srcDir, _ := testEnv(t, "")
	testutil.WriteFile(t, srcDir, "proj/doc.md", []byte("# Doc\n\ntext\n"))
	testutil.WriteFile(t, srcDir, "proj/a.txt", []byte("asset"))

	req := httptest.NewRequest(http.MethodPost, "/api/push", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var report push.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Transformed != 1 || report.Copied != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestTriggerPush_MissingFolderIsBadRequest(t *testing.T) {
	router, _, _ := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/push", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListArtifacts_AfterPush(t *testing.T) {
	router, srcDir, _ := testEnv(t, "")
	testutil.WriteFile(t, srcDir, "proj/doc.md", []byte("---\ntitle: Doc\n---\ntext\n"))

	req := httptest.NewRequest(http.MethodPost, "/api/push", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/artifacts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var list ArtifactList
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 || len(list.Artifacts) != 1 {
		t.Fatalf("list = %+v", list)
	}
	a := list.Artifacts[0]
	if a.SourcePath != "proj/doc.md" || a.OutputPath != "proj/doc.mdx" || a.Title != "Doc" {
		t.Errorf("artifact = %+v", a)
	}
}

func TestAuth_TokenRequired(t *testing.T) {
	router, _, _ := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", w.Code)
	}
}

func TestPreview_RendersPushedDocument(t *testing.T) {
	router, srcDir, _ := testEnv(t, "")
	doc := "---\ntitle: Preview Me\n---\nfirst chunk\n\nA **bold** paragraph.\n"
	testutil.WriteFile(t, srcDir, "proj/doc.md", []byte(doc))

	req := httptest.NewRequest(http.MethodPost, "/api/push", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/preview/proj/doc.mdx", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "<title>Preview Me</title>") {
		t.Errorf("missing title in %q", body)
	}
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered in %q", body)
	}
}

func TestPreview_NotFound(t *testing.T) {
	router, _, _ := testEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/preview/proj/missing.mdx", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
