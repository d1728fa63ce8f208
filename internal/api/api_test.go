package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/note/internal/manifest"
	"github.com/starford/note/internal/noteservice"
	"github.com/starford/note/internal/testutil"
)

func testEnv(t *testing.T, authToken string) (*noteservice.Service, http.Handler) {
	t.Helper()
	_, store := testutil.TestNotes(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := noteservice.NewService(store, testutil.TestDB(t), testutil.ManifestPath(t), nil, logger)
	return svc, NewRouter(svc, authToken != "", authToken)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func create(t *testing.T, h http.Handler, path, title string) ItemDetail {
	t.Helper()
	w := do(t, h, http.MethodPost, "/items", CreateItemRequest{Path: path, Title: title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s under %s: status = %d, body = %s", title, path, w.Code, w.Body.String())
	}
	var item ItemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatal(err)
	}
	return item
}

func TestCreateAndGetItem(t *testing.T) {
	_, router := testEnv(t, "")

	created := create(t, router, "/", "Projects")
	if created.Path != "/Projects" || created.Slug != "projects" {
		t.Fatalf("created = %+v", created.ItemSummary)
	}

	w := do(t, router, http.MethodGet, "/items/Projects", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var got ItemDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "Projects" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content == "" || got.Missing {
		t.Errorf("content missing: %+v", got)
	}
}

func TestCreateNested(t *testing.T) {
	_, router := testEnv(t, "")
	create(t, router, "", "Work")
	child := create(t, router, "/Work", "Weekly Review")
	if child.Path != "/Work/Weekly Review" {
		t.Fatalf("path = %q", child.Path)
	}

	w := do(t, router, http.MethodGet, "/items/Work%2FWeekly%20Review", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("encoded get status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateUnknownParent(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(t, router, http.MethodPost, "/items", CreateItemRequest{Path: "/nowhere", Title: "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCreateDuplicate(t *testing.T) {
	_, router := testEnv(t, "")
	create(t, router, "/", "Inbox")
	w := do(t, router, http.MethodPost, "/items", CreateItemRequest{Path: "/", Title: "Inbox"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestCreateWhileLocked(t *testing.T) {
	svc, router := testEnv(t, "")
	create(t, router, "/", "First")
	if err := manifest.Lock(svc.ManifestPath()); err != nil {
		t.Fatal(err)
	}
	w := do(t, router, http.MethodPost, "/items", CreateItemRequest{Path: "/", Title: "Second"})
	if w.Code != http.StatusLocked {
		t.Errorf("status = %d, want 423", w.Code)
	}
}

func TestCreateBadRequest(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodPost, "/items", CreateItemRequest{Path: "/"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing title = %d, want 400", w.Code)
	}
}

func TestCreateFromContent(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(t, router, http.MethodPost, "/items", CreateItemRequest{
		Content: "---\ntitle: From Frontmatter\ntags: [a]\n---\nbody\n",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var item ItemDetail
	_ = json.Unmarshal(w.Body.Bytes(), &item)
	if item.Path != "/From Frontmatter" {
		t.Errorf("path = %q", item.Path)
	}
	if len(item.Tags) != 1 || item.Tags[0] != "a" {
		t.Errorf("tags = %v", item.Tags)
	}
}

func TestListItems(t *testing.T) {
	_, router := testEnv(t, "")
	create(t, router, "/", "A")
	create(t, router, "/", "B")
	create(t, router, "/A", "C")

	w := do(t, router, http.MethodGet, "/items", nil)
	var root ItemListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &root)
	if root.Path != "/" || len(root.Items) != 2 {
		t.Errorf("root listing = %+v", root)
	}

	w = do(t, router, http.MethodGet, "/items?path=/A/", nil)
	var sub ItemListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &sub)
	if sub.Path != "/A" || len(sub.Items) != 1 || sub.Items[0].Title != "C" {
		t.Errorf("sub listing = %+v", sub)
	}
}

func TestGetNotFound(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(t, router, http.MethodGet, "/items/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteItem(t *testing.T) {
	_, router := testEnv(t, "")
	create(t, router, "/", "Gone")

	w := do(t, router, http.MethodDelete, "/items/Gone", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/items/Gone", nil)
	var got ItemDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if w.Code != http.StatusOK || !got.Missing {
		t.Errorf("after delete: status = %d, missing = %v", w.Code, got.Missing)
	}

	w = do(t, router, http.MethodDelete, "/items/Gone", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestTree(t *testing.T) {
	_, router := testEnv(t, "")
	create(t, router, "/", "B")
	create(t, router, "/", "A")
	create(t, router, "/B", "C")

	w := do(t, router, http.MethodGet, "/tree", nil)
	var tree TreeResponse
	_ = json.Unmarshal(w.Body.Bytes(), &tree)
	var paths []string
	for _, it := range tree.Items {
		paths = append(paths, it.Path)
	}
	want := []string{"/A", "/B", "/B/C"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestSearch(t *testing.T) {
	svc, router := testEnv(t, "")
	_, err := svc.Add(context.Background(), noteservice.AddInput{
		Path:    "/",
		Content: []byte("# Kubernetes\nnotes about pods and deployments\n"),
	})
	if err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodGet, "/search?q=deployments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0].Path != "/Kubernetes" {
		t.Errorf("results = %+v", resp.Results)
	}

	w = do(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty query = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, "secret")

	w := do(t, router, http.MethodGet, "/tree", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/tree", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/tree", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", rec.Code)
	}
}
