// Package search answers questions from live web results: it queries a
// programmable search engine, keeps the sources whose pages still
// resolve, and packs them into a prompt the model can cite.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/tokenizer"
)

// Source is one search hit offered to the model as citable material.
type Source struct {
	Title       string
	Link        string
	DisplayLink string
	Snippet     string
}

// Client queries the configured search engine.
type Client struct {
	cfg   config.Config
	httpc *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.SearchFetchTimeout()},
	}
}

// Search runs the engine query and drops sources whose pages no longer
// resolve, so the model never cites a dead link.
func (c *Client) Search(ctx context.Context, query string) ([]Source, error) {
	q := url.Values{
		"key": {c.cfg.Search.APIKey},
		"cx":  {c.cfg.Search.EngineID},
		"q":   {query},
		"num": {strconv.Itoa(c.cfg.Search.MaxResults)},
	}
	endpoint := strings.TrimRight(c.cfg.Search.BaseURL, "/") + "/customsearch/v1?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search backend returned status %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			DisplayLink string `json:"displayLink"`
			Snippet     string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	sources := make([]Source, 0, len(payload.Items))
	for _, it := range payload.Items {
		sources = append(sources, Source{
			Title:       it.Title,
			Link:        it.Link,
			DisplayLink: it.DisplayLink,
			Snippet:     it.Snippet,
		})
	}
	return c.filterReachable(ctx, sources), nil
}

// filterReachable probes every source page concurrently and keeps the
// engine's result order for the survivors.
func (c *Client) filterReachable(ctx context.Context, sources []Source) []Source {
	alive := make([]bool, len(sources))
	var wg sync.WaitGroup
	for i := range sources {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, sources[i].Link, nil)
			if err != nil {
				return
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return
			}
			io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
			resp.Body.Close()
			alive[i] = resp.StatusCode == http.StatusOK
		}(i)
	}
	wg.Wait()

	kept := make([]Source, 0, len(sources))
	for i, s := range sources {
		if alive[i] {
			kept = append(kept, s)
		}
	}
	return kept
}

// SourceTexts renders sources as citable lines, stopping once the token
// budget is spent. A non-positive budget yields no sources.
func SourceTexts(enc tokenizer.Encoder, sources []Source, budget int) []string {
	texts := make([]string, 0, len(sources))
	used := 0
	for _, s := range sources {
		link := s.Link
		if decoded, err := url.QueryUnescape(link); err == nil {
			link = decoded
		}
		text := fmt.Sprintf("%s (%s):\n%s", s.Title, link, s.Snippet)
		n := enc.Count(text)
		if used+n > budget {
			break
		}
		texts = append(texts, text)
		used += n
	}
	return texts
}

// AnswerPrompt wraps the user's question and the source lines into the
// role-played search answer prompt sent as the final user turn.
func AnswerPrompt(query string, sourceTexts []string) string {
	return fmt.Sprintf(`Answer the following questions as best you can. Pretend to utilize a "Programmable Search Engine" functionality to fetch and verify data from the web. Use the provided "sources" to give an accurate, role-played response. Respond in markdown format. Cite the "sources" you "used" as a markdown link at the end of each sentence by the number of the "source" (ex: [[1]](link.com)). Provide an accurate role-played response and then stop. Today's date is %s.

Input:
%s

"Sources":
%s

Role-played Response:`,
		time.Now().Format("1/2/2006"), strings.TrimSpace(query), strings.Join(sourceTexts, "\n\n"))
}
