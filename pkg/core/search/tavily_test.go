package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newTavilyServer(t *testing.T, results []Result) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["search_depth"] != "advanced" {
			t.Errorf("search_depth = %v, want advanced", body["search_depth"])
		}
		if body["max_results"] != float64(5) {
			t.Errorf("max_results = %v, want 5", body["max_results"])
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
	}))
}

func TestSearchReturnsResults(t *testing.T) {
	server := newTavilyServer(t, []Result{
		{Title: "삼성전자 실적", URL: "https://example.com/1", Content: "반도체 회복"},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	results, err := client.Search(context.Background(), "삼성전자 최근 트렌드")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "삼성전자 실적" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSearchRequiresAPIKey(t *testing.T) {
	client := NewClientWithBaseURL("", "http://localhost:1")
	if _, err := client.Search(context.Background(), "query"); err == nil {
		t.Errorf("missing API key should fail")
	}
}

func TestSearchRetriesOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []Result{{Title: "ok"}}})
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	results, err := client.Search(context.Background(), "query")
	if err != nil {
		t.Fatalf("Search failed after retry: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls (429 then 200), got %d", calls)
	}
	if len(results) != 1 {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestFormatResultsTopThree(t *testing.T) {
	results := []Result{
		{Title: "a", URL: "u1", Content: "c1"},
		{Title: "b", URL: "u2", Content: "c2"},
		{Title: "c", URL: "u3", Content: "c3"},
		{Title: "d", URL: "u4", Content: "c4"},
	}

	text := FormatResults(results)
	if strings.Count(text, "제목: ") != 3 {
		t.Errorf("only top 3 hits should be formatted:\n%s", text)
	}
	if strings.Contains(text, "u4") {
		t.Errorf("fourth hit leaked into output:\n%s", text)
	}
	if !strings.Contains(text, "제목: a\n내용: c1\n출처: u1\n") {
		t.Errorf("block formatting changed:\n%s", text)
	}
}

func TestServiceEncodesFailuresInBand(t *testing.T) {
	client := NewClientWithBaseURL("test-key", "http://127.0.0.1:1")
	svc := NewService(client)

	answer := svc.SearchWeb(context.Background(), "query")
	if !strings.HasPrefix(answer, "웹 검색 중 오류가 발생했습니다:") {
		t.Errorf("transport failure should surface as in-band text, got %q", answer)
	}
}

func TestServiceNoResultsMessage(t *testing.T) {
	server := newTavilyServer(t, nil)
	defer server.Close()

	svc := NewService(NewClientWithBaseURL("test-key", server.URL))
	answer := svc.SearchWeb(context.Background(), "없는 검색어")
	if answer != "검색 결과를 찾을 수 없습니다." {
		t.Errorf("unexpected empty-result message: %q", answer)
	}
}
