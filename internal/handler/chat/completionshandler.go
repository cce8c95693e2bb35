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

var completionsBodyKeys = []string{"messages", "temperature", "max_tokens", "stream"}

// Public API completion endpoint
func CompletionsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CompletionsRequest
		if err := httputil.ParseStrict(r, &req, completionsBodyKeys, svcCtx.Config.Security.MaxRequestBodyLen); err != nil {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx := logging.WithRequestID(r.Context(), uuid.NewString()[:8])
		l := chat.NewCompletionsLogic(ctx, svcCtx)
		l.Complete(&req, r.Header.Get("Authorization"), w)
	}
}
