// Package plugin runs security tools through the external tool-runner
// service and streams progress back as events.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hackmate-ai/hackmate/internal/command"
	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/logging"
	"github.com/hackmate-ai/hackmate/internal/relay"
	"github.com/hackmate-ai/hackmate/internal/stream"
	"github.com/hackmate-ai/hackmate/internal/types"
)

const (
	startingText  = "🚀 Starting the scan. It might take a minute."
	heartbeatText = "⏳ Still working on it, please hold on..."
	processedText = "✅ Scan done! Now processing the results..."
	scanFailText  = "🚨 There was a problem during the scan. Please try again."
)

// Substrings in a backend payload that mean the tool run itself failed.
var failureMarkers = []string{
	"Error executing",
	"Error reading output file",
	"process exited with code 1",
}

// Narrator streams an AI summary of a finished scan. Satisfied by
// *relay.Client; tests plug in fakes.
type Narrator interface {
	Stream(ctx context.Context, model string, window []types.Message, opts relay.Options) (<-chan stream.Event, error)
}

// Job is one tool execution request.
type Job struct {
	Command *command.Command
	Model   string
	Window  []types.Message
	// Preface is emitted before the starting status. The tool-id flow
	// uses it to show the model's translated command.
	Preface string
}

// Executor issues plugin backend calls with heartbeat progress events.
type Executor struct {
	baseURL   string
	secret    string
	heartbeat time.Duration
	wait      time.Duration
	httpc     *http.Client
	narrator  Narrator
}

func New(cfg config.Config, narrator Narrator) *Executor {
	return &Executor{
		baseURL:   strings.TrimRight(cfg.Plugins.BaseURL, "/"),
		secret:    cfg.Plugins.AuthSecret,
		heartbeat: cfg.HeartbeatInterval(),
		wait:      cfg.PluginWaitTimeout(),
		httpc:     &http.Client{},
		narrator:  narrator,
	}
}

// Execute runs the job asynchronously. The returned channel carries status,
// heartbeat and report events and is closed after exactly one terminal
// event. Cancelling ctx aborts the backend call and the heartbeat.
func (e *Executor) Execute(ctx context.Context, job Job) <-chan stream.Event {
	events := make(chan stream.Event, 16)
	go e.run(ctx, job, events)
	return events
}

type fetchResult struct {
	output string
	err    error
}

func (e *Executor) run(ctx context.Context, job Job, events chan<- stream.Event) {
	defer close(events)
	spec := job.Command.Spec

	if job.Preface != "" {
		events <- stream.Status(job.Preface)
	}
	events <- stream.Status(startingText)

	ctx, cancel := context.WithTimeout(ctx, e.wait)
	defer cancel()

	resCh := make(chan fetchResult, 1)
	reqURL := e.requestURL(job.Command)
	go func() { resCh <- e.fetch(ctx, reqURL) }()

	ticker := time.NewTicker(e.heartbeat)
	defer ticker.Stop()

	var res fetchResult
wait:
	for {
		select {
		case <-ticker.C:
			events <- stream.Heartbeat(heartbeatText)
		case <-ctx.Done():
			events <- stream.Error(scanFailText, ctx.Err())
			return
		case res = <-resCh:
			break wait
		}
	}
	ticker.Stop()

	if res.err != nil {
		events <- stream.Error(scanFailText, res.err)
		return
	}
	output := strings.TrimSpace(res.output)
	if marker := failureMarker(output); marker != "" {
		events <- stream.Error(scanFailText, fmt.Errorf("%s backend reported: %s", spec.Name, marker))
		return
	}
	if output == "" {
		events <- stream.Status(fmt.Sprintf(spec.NoResults, job.Command.Target()))
		events <- stream.End()
		return
	}

	events <- stream.Status(processedText)
	events <- stream.Status(BuildReport(job.Command, output, time.Now()))

	if spec.Summarize && e.narrator != nil {
		e.narrate(ctx, job, output, events)
	}
	events <- stream.End()
}

// narrate splices an AI summary after the report. A summary failure is
// logged but never fails a scan that already produced results.
func (e *Executor) narrate(ctx context.Context, job Job, output string, events chan<- stream.Event) {
	nev, err := e.narrator.Stream(ctx, job.Model, job.Window, relay.Options{
		ToolContext: analysisPrompt(job.Command, output),
	})
	if err != nil {
		logging.Warnf("%s: narrative summary unavailable: %v", job.Command.Spec.Name, err)
		return
	}
	for ev := range nev {
		switch ev.Type {
		case stream.EventDelta:
			events <- ev
		case stream.EventError:
			logging.Warnf("%s: narrative summary aborted: %v", job.Command.Spec.Name, ev.Err)
			return
		}
	}
}

// requestURL serializes the command into its backend call. url.Values
// encoding sorts keys, so equal commands always produce equal URLs and
// distinct commands never collide.
func (e *Executor) requestURL(cmd *command.Command) string {
	return e.baseURL + cmd.Spec.Path + "?" + cmd.Spec.Query(cmd).Encode()
}

func (e *Executor) fetch(ctx context.Context, reqURL string) fetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fetchResult{err: fmt.Errorf("build plugin request: %w", err)}
	}
	req.Header.Set("Authorization", e.secret)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return fetchResult{err: fmt.Errorf("plugin backend call: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fetchResult{err: fmt.Errorf("read plugin response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return fetchResult{err: fmt.Errorf("plugin backend status %d", resp.StatusCode)}
	}

	// The backend answers either {"output": "..."} or plain text.
	var payload struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Output != "" {
		return fetchResult{output: payload.Output}
	}
	return fetchResult{output: string(raw)}
}

func failureMarker(output string) string {
	for _, marker := range failureMarkers {
		if strings.Contains(output, marker) {
			return marker
		}
	}
	return ""
}
