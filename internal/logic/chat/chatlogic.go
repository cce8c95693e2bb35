package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hackmate-ai/hackmate/internal/auth"
	"github.com/hackmate-ai/hackmate/internal/command"
	"github.com/hackmate-ai/hackmate/internal/dispatch"
	"github.com/hackmate-ai/hackmate/internal/httputil"
	"github.com/hackmate-ai/hackmate/internal/logging"
	"github.com/hackmate-ai/hackmate/internal/plugin"
	"github.com/hackmate-ai/hackmate/internal/relay"
	"github.com/hackmate-ai/hackmate/internal/search"
	"github.com/hackmate-ai/hackmate/internal/stream"
	"github.com/hackmate-ai/hackmate/internal/svc"
	"github.com/hackmate-ai/hackmate/internal/tokenizer"
	"github.com/hackmate-ai/hackmate/internal/types"
	"github.com/hackmate-ai/hackmate/internal/window"
)

type ChatLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Full chat pipeline: entitlement check, window fit, dispatch, stream.
func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Chat processes one turn and writes the streamed response. Parser and
// budget failures are written as 200 plain text so the chat UI renders
// them as assistant messages; backend failures get real error statuses.
func (l *ChatLogic) Chat(req *types.ChatRequest, authToken string, w http.ResponseWriter) {
	if err := validateParams(req.Temperature, req.MaxTokens); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := l.svcCtx.Config.ModelFor(req.Model); !ok {
		httputil.Error(w, http.StatusBadRequest, fmt.Sprintf("unknown model %q", req.Model))
		return
	}
	if len(req.Messages) == 0 {
		httputil.Error(w, http.StatusBadRequest, "messages must not be empty")
		return
	}

	if err := l.svcCtx.Status.Check(l.ctx, authToken, req.Model); err != nil {
		var rejected *auth.StatusError
		if errors.As(err, &rejected) {
			httputil.PlainText(w, rejected.Status, rejected.Body)
			return
		}
		l.Errorf("status check failed: %v", err)
		httputil.Error(w, http.StatusBadGateway, "entitlement check unavailable")
		return
	}

	enc, err := l.svcCtx.Tokenizer()
	if err != nil {
		l.Errorf("tokenizer init failed: %v", err)
		httputil.InternalError(w, "")
		return
	}
	win, used, err := window.Build(enc, l.svcCtx.Config, req.Model, l.svcCtx.Config.Completion.SystemPrompt, req.Messages)
	if err != nil {
		var tooLong *window.MessageTooLongError
		if errors.As(err, &tooLong) {
			httputil.PlainText(w, http.StatusOK, tooLong.Error())
			return
		}
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	l.Infof("model=%s window=%d/%d tokens=%d", req.Model, len(win), len(req.Messages), used)

	last := req.Messages[len(req.Messages)-1]
	plan := l.svcCtx.Dispatcher.Dispatch(last.Content, req.Model, req.ToolID)

	switch plan.Kind {
	case dispatch.PlanStatic:
		httputil.PlainText(w, http.StatusOK, plan.Text)
	case dispatch.PlanTool:
		l.runTool(req, plan, last, win, w)
	case dispatch.PlanSearch:
		l.runSearch(req, enc, win, used, w)
	default:
		l.runCompletion(req, win, w)
	}
}

func (l *ChatLogic) runTool(req *types.ChatRequest, plan dispatch.Plan, last types.Message, win []types.Message, w http.ResponseWriter) {
	cmdText := plan.Command
	preface := ""
	if plan.Translate {
		translated, raw, err := l.translate(plan.Spec, req.Model, last, win)
		if err != nil {
			l.Errorf("command translation failed: %v", err)
			l.completionError(w, err)
			return
		}
		if translated == "" {
			httputil.PlainText(w, http.StatusOK,
				raw+"\n\nNo runnable command could be extracted from the reply. Try `/"+plan.Spec.Name+" -h` for the syntax.")
			return
		}
		cmdText = translated
		preface = fmt.Sprintf("Translated your request to: `%s`", translated)
	}

	cmd, err := plan.Spec.Parse(cmdText)
	if err != nil {
		httputil.PlainText(w, http.StatusOK, err.Error())
		return
	}
	if cmd.Help {
		httputil.PlainText(w, http.StatusOK, plan.Spec.Help)
		return
	}

	httputil.StreamHeaders(w)
	merger := stream.NewMerger(w)
	merger.Consume(l.svcCtx.Executor.Execute(l.ctx, plugin.Job{
		Command: cmd,
		Model:   req.Model,
		Window:  win,
		Preface: preface,
	}))
}

// translate asks the model to turn a natural-language request into the
// tool's flag syntax. The empty-command case returns the raw reply so the
// user sees what the model said instead.
func (l *ChatLogic) translate(spec *command.Spec, model string, last types.Message, win []types.Message) (cmd, raw string, err error) {
	prompt := win[: len(win)-1 : len(win)-1]
	prompt = append(prompt, types.Message{Role: types.RoleUser, Content: spec.TranslatePrompt(last.Content)})
	reply, err := l.svcCtx.Relay.CompleteText(l.ctx, model, prompt, relay.Options{})
	if err != nil {
		return "", "", err
	}
	if translated, ok := command.ExtractCommand(reply); ok {
		return translated, reply, nil
	}
	return "", reply, nil
}

// runSearch answers the question from live web results. The last user
// turn is dropped from the window because the answer prompt restates the
// question alongside the sources.
func (l *ChatLogic) runSearch(req *types.ChatRequest, enc tokenizer.Encoder, win []types.Message, used int, w http.ResponseWriter) {
	last, ok := types.LastUserMessage(req.Messages)
	if !ok {
		l.runCompletion(req, win, w)
		return
	}
	if n := len(win); n > 0 && win[n-1].Role == types.RoleUser {
		win = win[:n-1]
	}

	query := strings.TrimSpace(last.Content)
	sources, err := l.svcCtx.Search.Search(l.ctx, query)
	if err != nil {
		l.Errorf("web search failed: %v", err)
		httputil.Error(w, http.StatusBadGateway, "Web search is currently unavailable. Please try again later.")
		return
	}

	m, _ := l.svcCtx.Config.ModelFor(req.Model)
	budget := m.TokenLimit - used - m.ReservedTokens
	prompt := search.AnswerPrompt(query, search.SourceTexts(enc, sources, budget))

	events, err := l.svcCtx.Relay.Stream(l.ctx, req.Model, win, relay.Options{
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		ToolContext:  prompt,
		SystemPrompt: l.svcCtx.Config.Completion.SearchSystemPrompt,
	})
	if err != nil {
		l.completionError(w, err)
		return
	}
	httputil.StreamHeaders(w)
	stream.NewMerger(w).Consume(events)
}

func (l *ChatLogic) runCompletion(req *types.ChatRequest, win []types.Message, w http.ResponseWriter) {
	events, err := l.svcCtx.Relay.Stream(l.ctx, req.Model, win, relay.Options{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		l.completionError(w, err)
		return
	}
	httputil.StreamHeaders(w)
	stream.NewMerger(w).Consume(events)
}

func (l *ChatLogic) completionError(w http.ResponseWriter, err error) {
	var apierr *relay.APIError
	if errors.As(err, &apierr) {
		l.Errorf("completion backend: %v", apierr)
		httputil.Error(w, apierr.HTTPStatus(), apierr.UserMessage())
		return
	}
	l.Errorf("completion backend: %v", err)
	httputil.Error(w, http.StatusBadGateway, "The model backend is currently unavailable. Please try again later.")
}

func validateParams(temperature *float64, maxTokens int) error {
	if temperature != nil && (*temperature < 0 || *temperature > 2) {
		return errors.New("temperature must be between 0 and 2")
	}
	if maxTokens < 0 || maxTokens > 2000 {
		return errors.New("max_tokens must be between 1 and 2000")
	}
	return nil
}
