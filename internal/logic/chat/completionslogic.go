package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/hackmate-ai/hackmate/internal/auth"
	"github.com/hackmate-ai/hackmate/internal/httputil"
	"github.com/hackmate-ai/hackmate/internal/logging"
	"github.com/hackmate-ai/hackmate/internal/relay"
	"github.com/hackmate-ai/hackmate/internal/stream"
	"github.com/hackmate-ai/hackmate/internal/svc"
	"github.com/hackmate-ai/hackmate/internal/types"
	"github.com/hackmate-ai/hackmate/internal/window"
)

// The public completions endpoint always serves the default model and
// never dispatches tools.
const completionsModel = "hackergpt"

type CompletionsLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Public API completion, no tool dispatch
func NewCompletionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CompletionsLogic {
	return &CompletionsLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CompletionsLogic) Complete(req *types.CompletionsRequest, authToken string, w http.ResponseWriter) {
	if err := validateParams(req.Temperature, req.MaxTokens); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Messages) == 0 {
		httputil.Error(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if authToken == "" {
		httputil.Unauthorized(w, "missing API key")
		return
	}

	if err := l.svcCtx.Status.Check(l.ctx, authToken, completionsModel); err != nil {
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
	win, _, err := window.Build(enc, l.svcCtx.Config, completionsModel, l.svcCtx.Config.Completion.SystemPrompt, req.Messages)
	if err != nil {
		var tooLong *window.MessageTooLongError
		if errors.As(err, &tooLong) {
			httputil.PlainText(w, http.StatusOK, tooLong.Error())
			return
		}
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := l.svcCtx.Relay.Stream(l.ctx, completionsModel, win, relay.Options{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		var apierr *relay.APIError
		if errors.As(err, &apierr) {
			l.Errorf("completion backend: %v", apierr)
			httputil.Error(w, apierr.HTTPStatus(), apierr.UserMessage())
			return
		}
		l.Errorf("completion backend: %v", err)
		httputil.Error(w, http.StatusBadGateway, "The model backend is currently unavailable. Please try again later.")
		return
	}
	httputil.StreamHeaders(w)
	stream.NewMerger(w).Consume(events)
}
