package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"longbox/internal/api"
	"longbox/internal/config"
	"longbox/internal/daemon"
	"longbox/internal/library"
	"longbox/internal/logging"
	"longbox/internal/scanner"
	"longbox/internal/testsupport"
)

type restFixture struct {
	cfg    *config.Config
	store  *library.Store
	server *httptest.Server
}

func newRESTFixture(t *testing.T) *restFixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WriteArchive(t, filepath.Join(cfg.Paths.LibraryDir, "Foo", "Foo 001.cbz"), []testsupport.ArchiveEntry{
		{Name: "001.png", Data: []byte("first")},
		{Name: "002.jpg", Data: []byte("second")},
	})
	testsupport.WriteArchive(t, filepath.Join(cfg.Paths.LibraryDir, "Bar", "Bar 001.cbz"), []testsupport.ArchiveEntry{
		{Name: "cover.webp", Data: []byte("cover")},
	})

	if _, err := scanner.New(cfg, store, logging.NewNop()).Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	svc := api.NewService(cfg, store, logging.NewNop())
	server := httptest.NewServer(daemon.NewHandler(svc, logging.NewNop()))
	t.Cleanup(server.Close)

	return &restFixture{cfg: cfg, store: store, server: server}
}

func (f *restFixture) get(t *testing.T, path string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(f.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp
}

func (f *restFixture) issueID(t *testing.T, seriesName, fileName string) string {
	t.Helper()

	var seriesList api.SeriesListResponse
	f.get(t, "/api/series", &seriesList)
	for _, series := range seriesList.Series {
		if series.Name != seriesName {
			continue
		}
		var issueList api.IssueListResponse
		f.get(t, "/api/series/"+series.ID+"/issues", &issueList)
		for _, issue := range issueList.Issues {
			if issue.FileName == fileName {
				return issue.ID
			}
		}
	}
	t.Fatalf("issue %s/%s not indexed", seriesName, fileName)
	return ""
}

func TestHandlerListsSeriesAndIssues(t *testing.T) {
	f := newRESTFixture(t)

	var seriesList api.SeriesListResponse
	resp := f.get(t, "/api/series", &seriesList)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	if len(seriesList.Series) != 2 {
		t.Fatalf("series count = %d, want 2", len(seriesList.Series))
	}
	if seriesList.Series[0].Name != "Bar" || seriesList.Series[1].Name != "Foo" {
		t.Fatalf("series order = %q, %q", seriesList.Series[0].Name, seriesList.Series[1].Name)
	}

	var issueList api.IssueListResponse
	f.get(t, "/api/series/"+seriesList.Series[1].ID+"/issues", &issueList)
	if len(issueList.Issues) != 1 || issueList.Issues[0].FileName != "Foo 001.cbz" {
		t.Fatalf("issues = %+v", issueList.Issues)
	}
}

func TestHandlerIssueDetailAndPages(t *testing.T) {
	f := newRESTFixture(t)
	id := f.issueID(t, "Foo", "Foo 001.cbz")

	var pageList api.PageListResponse
	f.get(t, "/api/issues/"+id+"/pages", &pageList)
	want := []string{"001.png", "002.jpg"}
	if len(pageList.Pages) != len(want) {
		t.Fatalf("pages = %v, want %v", pageList.Pages, want)
	}
	for i := range want {
		if pageList.Pages[i] != want[i] {
			t.Fatalf("pages = %v, want %v", pageList.Pages, want)
		}
	}

	var issue api.Issue
	f.get(t, "/api/issues/"+id, &issue)
	if issue.PageCount != 2 {
		t.Fatalf("page count = %d, want 2 after listing", issue.PageCount)
	}
	if issue.CoverImage != "001.png" {
		t.Fatalf("cover = %q, want 001.png", issue.CoverImage)
	}
}

func TestHandlerStreamsPage(t *testing.T) {
	f := newRESTFixture(t)
	id := f.issueID(t, "Foo", "Foo 001.cbz")

	resp := f.get(t, "/api/issues/"+id+"/pages/0", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Fatalf("content type = %q, want image/png", got)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "first" {
		t.Fatalf("body = %q, want first", body)
	}
}

func TestHandlerPageErrors(t *testing.T) {
	f := newRESTFixture(t)
	id := f.issueID(t, "Foo", "Foo 001.cbz")

	cases := []struct {
		path string
		want int
	}{
		{"/api/issues/" + id + "/pages/99", http.StatusNotFound},
		{"/api/issues/" + id + "/pages/-1", http.StatusNotFound},
		{"/api/issues/" + id + "/pages/abc", http.StatusBadRequest},
		{"/api/issues/no-such-issue/pages/0", http.StatusNotFound},
		{"/api/issues/no-such-issue", http.StatusNotFound},
	}
	for _, tc := range cases {
		resp := f.get(t, tc.path, nil)
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Errorf("GET %s = %d, want %d", tc.path, resp.StatusCode, tc.want)
		}
	}
}

func TestHandlerProgress(t *testing.T) {
	f := newRESTFixture(t)
	id := f.issueID(t, "Foo", "Foo 001.cbz")

	post := func(issueID string, body string) *http.Response {
		t.Helper()
		resp, err := http.Post(f.server.URL+"/api/issues/"+issueID+"/progress", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST progress: %v", err)
		}
		resp.Body.Close()
		return resp
	}

	if resp := post(id, `{"currentPage": 1}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("set progress status = %d, want 200", resp.StatusCode)
	}

	var issue api.Issue
	f.get(t, "/api/issues/"+id, &issue)
	if issue.CurrentPage != 1 {
		t.Fatalf("current page = %d, want 1", issue.CurrentPage)
	}

	if resp := post(id, `{}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing currentPage status = %d, want 400", resp.StatusCode)
	}
	if resp := post(id, `not json`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad body status = %d, want 400", resp.StatusCode)
	}
	if resp := post(id, `{"currentPage": -3}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative page status = %d, want 400", resp.StatusCode)
	}
	if resp := post("no-such-issue", `{"currentPage": 0}`); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown issue status = %d, want 404", resp.StatusCode)
	}
}

func TestHandlerStatus(t *testing.T) {
	f := newRESTFixture(t)

	var status api.Status
	f.get(t, "/api/status", &status)
	if status.SeriesCount != 2 || status.IssueCount != 2 {
		t.Fatalf("status = %+v", status)
	}
	if status.LibraryRoot != f.cfg.Paths.LibraryDir {
		t.Fatalf("library root = %q, want %q", status.LibraryRoot, f.cfg.Paths.LibraryDir)
	}
}

func TestHandlerCORS(t *testing.T) {
	f := newRESTFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/api/series", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q, want *", got)
	}
}

func TestHandlerErrorPayloadShape(t *testing.T) {
	f := newRESTFixture(t)

	var payload map[string]string
	resp := f.get(t, "/api/issues/no-such-issue", &payload)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if payload["error"] == "" {
		t.Fatalf("payload = %v, want error message", payload)
	}
}

func TestHandlerMethodRouting(t *testing.T) {
	f := newRESTFixture(t)

	resp, err := http.Post(f.server.URL+"/api/series", "application/json", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("POST series: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHandlerUnknownSeriesIssuesEmpty(t *testing.T) {
	f := newRESTFixture(t)

	var issueList api.IssueListResponse
	resp := f.get(t, fmt.Sprintf("/api/series/%s/issues", "no-such-series"), &issueList)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(issueList.Issues) != 0 {
		t.Fatalf("issues = %+v, want empty", issueList.Issues)
	}
}
