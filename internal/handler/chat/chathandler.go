package chat

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hackmate-ai/hackmate/internal/httputil"
	"github.com/hackmate-ai/hackmate/internal/logging"
	"github.com/hackmate-ai/hackmate/internal/logic/chat"
	"github.com/hackmate-ai/hackmate/internal/svc"
	"github.com/hackmate-ai/hackmate/internal/types"
)

var chatBodyKeys = []string{"model", "messages", "toolId", "temperature", "max_tokens", "stream"}

// Chat turn: window fit, tool dispatch, streamed response
func ChatHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := httputil.ParseStrict(r, &req, chatBodyKeys, svcCtx.Config.Security.MaxRequestBodyLen); err != nil {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx := logging.WithRequestID(r.Context(), uuid.NewString()[:8])
		l := chat.NewChatLogic(ctx, svcCtx)
		l.Chat(&req, r.Header.Get("Authorization"), w)
	}
}
