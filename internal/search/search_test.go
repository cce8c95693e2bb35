package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hackmate-ai/hackmate/internal/config"
)

// wordCounter stands in for the BPE encoder: one token per word.
type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func searchConfig(baseURL string) config.Config {
	c := config.Default()
	c.Search.BaseURL = baseURL
	c.Search.APIKey = "test-key"
	c.Search.EngineID = "test-cse"
	c.Search.MaxResults = 5
	return c
}

func item(title, link, snippet string) string {
	return fmt.Sprintf(`{"title":%q,"link":%q,"displayLink":"example.com","snippet":%q}`, title, link, snippet)
}

func TestSearchKeepsOnlyLivePages(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "<html><body>content</body></html>")
	}))
	defer pages.Close()

	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customsearch/v1" {
			t.Errorf("wrong engine path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "test-key" || q.Get("cx") != "test-cse" || q.Get("num") != "5" {
			t.Errorf("wrong engine credentials: %v", q)
		}
		if q.Get("q") != "weather in SF" {
			t.Errorf("wrong query: %q", q.Get("q"))
		}
		fmt.Fprintf(w, `{"items":[%s,%s,%s]}`,
			item("Live", pages.URL+"/live", "first snippet"),
			item("Dead", pages.URL+"/dead", "second snippet"),
			item("Gone", "http://127.0.0.1:1/x", "third snippet"))
	}))
	defer engine.Close()

	c := NewClient(searchConfig(engine.URL))
	sources, err := c.Search(context.Background(), "weather in SF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 1 || sources[0].Title != "Live" {
		t.Fatalf("expected only the live source, got %+v", sources)
	}
}

func TestSearchBackendError(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer engine.Close()

	if _, err := NewClient(searchConfig(engine.URL)).Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error from a 403 engine response")
	}
}

func TestSourceTextsBudget(t *testing.T) {
	sources := []Source{
		{Title: "One", Link: "https://a.example", Snippet: "three more words here"},
		{Title: "Two", Link: "https://b.example", Snippet: "three more words here"},
		{Title: "Three", Link: "https://c.example", Snippet: "three more words here"},
	}
	// Each rendered source is 6 words, so a budget of 13 fits two.
	texts := SourceTexts(wordCounter{}, sources, 13)
	if len(texts) != 2 {
		t.Fatalf("expected 2 sources within budget, got %d: %v", len(texts), texts)
	}
	if !strings.Contains(texts[0], "One (https://a.example):") {
		t.Fatalf("got %q", texts[0])
	}

	if got := SourceTexts(wordCounter{}, sources, 0); len(got) != 0 {
		t.Fatalf("zero budget must yield no sources, got %v", got)
	}
}

func TestAnswerPrompt(t *testing.T) {
	prompt := AnswerPrompt("  weather in SF today?  ", []string{"A (https://a.example):\nsnippet"})
	for _, want := range []string{
		"weather in SF today?",
		"A (https://a.example):",
		"Role-played Response:",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "  weather") {
		t.Fatal("query must be trimmed")
	}
}
