package chat

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hackmate-ai/hackmate/internal/auth"
	"github.com/hackmate-ai/hackmate/internal/command"
	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/dispatch"
	"github.com/hackmate-ai/hackmate/internal/plugin"
	"github.com/hackmate-ai/hackmate/internal/relay"
	"github.com/hackmate-ai/hackmate/internal/search"
	"github.com/hackmate-ai/hackmate/internal/svc"
	"github.com/hackmate-ai/hackmate/internal/tokenizer"
)

// wordEncoder keeps token budgets deterministic without the real BPE tables.
type wordEncoder struct{}

func (wordEncoder) Count(text string) int {
	return len(strings.Fields(text))
}

// hugeEncoder makes every message blow the budget.
type hugeEncoder struct{}

func (hugeEncoder) Count(text string) int {
	return 1 << 20
}

func testSvcCtx(relayURL, pluginURL string) *svc.ServiceContext {
	return testSvcCtxWith(relayURL, pluginURL, func(*config.Config) {})
}

func testSvcCtxWith(relayURL, pluginURL string, mutate func(*config.Config)) *svc.ServiceContext {
	c := config.Default()
	c.Completion.OpenAIBaseURL = relayURL
	c.Completion.OpenRouterBaseURL = relayURL
	c.Completion.OpenAIKey = "k"
	c.Completion.OpenRouterKey = "k"
	c.Plugins.BaseURL = pluginURL
	c.Auth.StatusCheckURL = ""
	mutate(&c)

	registry := command.DefaultRegistry()
	relayClient := relay.NewClient(c)
	return &svc.ServiceContext{
		Config:     c,
		Registry:   registry,
		Dispatcher: dispatch.New(c, registry),
		Relay:      relayClient,
		Executor:   plugin.New(c, relayClient),
		Search:     search.NewClient(c),
		Status:     auth.NewStatusClient(c),
		Tokenizer:  func() (tokenizer.Encoder, error) { return wordEncoder{}, nil },
	}
}

func sseHandler(chunks ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range chunks {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

func postChat(t *testing.T, svcCtx *svc.ServiceContext, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ChatHandler(svcCtx)(w, r)
	return w
}

func TestChatToolExecution(t *testing.T) {
	pluginSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tools/naabu" {
			t.Errorf("wrong plugin path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"output": "80\n443"}`)
	}))
	defer pluginSrv.Close()

	w := postChat(t, testSvcCtx("http://unused.invalid", pluginSrv.URL),
		`{"model":"gpt-4","messages":[{"role":"user","content":"/naabu -host example.com -p 80,443"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{"Starting the scan", "Scan Results", "80\n443"} {
		if !strings.Contains(body, want) {
			t.Fatalf("response missing %q:\n%s", want, body)
		}
	}
}

func TestChatToolsGuide(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"hackergpt","messages":[{"role":"user","content":"/tools"}]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/subfinder") {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
}

func TestChatModelTierGate(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"hackergpt","messages":[{"role":"user","content":"/naabu -host example.com"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("gate text must be a 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "only with gpt-4") {
		t.Fatalf("got %s", w.Body.String())
	}
}

func TestChatParseErrorIsPlainText(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"gpt-4","messages":[{"role":"user","content":"/naabu"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("parse errors are rendered as chat text, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please provide a host with the -host flag") {
		t.Fatalf("got %s", w.Body.String())
	}
}

func TestChatToolHelp(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"gpt-4","messages":[{"role":"user","content":"/naabu -h"}]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "port scanner") {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
}

func TestChatPlainCompletion(t *testing.T) {
	relaySrv := httptest.NewServer(sseHandler("Hello", " there"))
	defer relaySrv.Close()

	w := postChat(t, testSvcCtx(relaySrv.URL, "http://unused.invalid"),
		`{"model":"hackergpt","messages":[{"role":"user","content":"say hello"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Hello there") {
		t.Fatalf("got %s", w.Body.String())
	}
}

func TestChatToolIDTranslation(t *testing.T) {
	relaySrv := httptest.NewServer(sseHandler(`{"command": "naabu -host example.com -p 80"}`))
	defer relaySrv.Close()
	pluginSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("port"); got != "80" {
			t.Errorf("translated port missing, got %q", got)
		}
		fmt.Fprint(w, `{"output": "80"}`)
	}))
	defer pluginSrv.Close()

	w := postChat(t, testSvcCtx(relaySrv.URL, pluginSrv.URL),
		`{"model":"gpt-4","toolId":"naabu","messages":[{"role":"user","content":"scan the ports of example.com"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{"Translated your request to:", "naabu -host example.com -p 80", "Scan Results"} {
		if !strings.Contains(body, want) {
			t.Fatalf("response missing %q:\n%s", want, body)
		}
	}
}

func TestChatUnknownBodyKey(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"gpt-4","messages":[],"surprise":true}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "surprise") {
		t.Fatalf("error must name the offending key: %s", w.Body.String())
	}
}

func TestChatUnknownModel(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"gpt-5","messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d", w.Code)
	}
}

func TestChatInvalidParams(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"hackergpt","temperature":3.5,"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d", w.Code)
	}
}

func TestChatMessageTooLong(t *testing.T) {
	svcCtx := testSvcCtx("http://unused.invalid", "http://unused.invalid")
	svcCtx.Tokenizer = func() (tokenizer.Encoder, error) { return hugeEncoder{}, nil }

	w := postChat(t, svcCtx,
		`{"model":"hackergpt","messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("budget overflow is rendered as chat text, got %d", w.Code)
	}
	want := "This message exceeds the model's maximum token limit of 8000. Please shorten your message."
	if w.Body.String() != want {
		t.Fatalf("got %q", w.Body.String())
	}
}

func TestChatEntitlementRejection(t *testing.T) {
	statusSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "Sign in to continue.")
	}))
	defer statusSrv.Close()

	svcCtx := testSvcCtx("http://unused.invalid", "http://unused.invalid")
	svcCtx.Config.Auth.StatusCheckURL = statusSrv.URL
	svcCtx.Status = auth.NewStatusClient(svcCtx.Config)

	w := postChat(t, svcCtx,
		`{"model":"hackergpt","messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("rejection must pass through with its status, got %d", w.Code)
	}
	if w.Body.String() != "Sign in to continue." {
		t.Fatalf("rejection body must pass through, got %q", w.Body.String())
	}
}

func TestChatUpstreamFailureStatus(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down"}}`)
	}))
	defer relaySrv.Close()

	w := postChat(t, testSvcCtx(relaySrv.URL, "http://unused.invalid"),
		`{"model":"hackergpt","messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("classified upstream failures keep their status, got %d", w.Code)
	}
}

func TestChatWebSearch(t *testing.T) {
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>forecast page</body></html>")
	}))
	defer pageSrv.Close()

	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "weather in SF today?" {
			t.Errorf("wrong search query: %q", got)
		}
		fmt.Fprintf(w, `{"items":[{"title":"SF Forecast","link":%q,"displayLink":"weather.example","snippet":"Sunny and 70 degrees"}]}`, pageSrv.URL)
	}))
	defer searchSrv.Close()

	var relayBody string
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		relayBody = string(raw)
		sseHandler("It is sunny in SF today.")(w, r)
	}))
	defer relaySrv.Close()

	svcCtx := testSvcCtxWith(relaySrv.URL, "http://unused.invalid", func(c *config.Config) {
		c.Search.BaseURL = searchSrv.URL
		c.Search.APIKey = "k"
		c.Search.EngineID = "cse"
		c.Completion.SearchSystemPrompt = "Answer from the provided web sources."
	})

	w := postChat(t, svcCtx,
		`{"model":"hackergpt","toolId":"websearch","messages":[{"role":"user","content":"hello"},{"role":"assistant","content":"hi"},{"role":"user","content":"weather in SF today?"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "It is sunny in SF today.") {
		t.Fatalf("answer missing from response: %s", w.Body.String())
	}

	for _, want := range []string{
		"Answer from the provided web sources.",
		"SF Forecast",
		"Sunny and 70 degrees",
		"Role-played Response:",
	} {
		if !strings.Contains(relayBody, want) {
			t.Fatalf("completion request missing %q:\n%s", want, relayBody)
		}
	}
	// The raw user turn is replaced by the answer prompt, so the question
	// reaches the backend exactly once.
	if got := strings.Count(relayBody, "weather in SF today?"); got != 1 {
		t.Fatalf("question must appear once in the completion request, got %d:\n%s", got, relayBody)
	}
}

func TestChatWebSearchDisabled(t *testing.T) {
	w := postChat(t, testSvcCtx("http://unused.invalid", "http://unused.invalid"),
		`{"model":"hackergpt","toolId":"websearch","messages":[{"role":"user","content":"weather in SF?"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("disabled text must be a 200, got %d", w.Code)
	}
	if w.Body.String() != "The Web Browsing feature is currently disabled." {
		t.Fatalf("got %q", w.Body.String())
	}
}
