package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"liqradar-api/internal/types"
)

// writeError answers with {"error": msg}.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	httpx.WriteJsonCtx(r.Context(), w, status, types.ErrorResponse{Error: err.Error()})
}
