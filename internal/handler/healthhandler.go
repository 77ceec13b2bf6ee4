package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"liqradar-api/internal/logic"
	"liqradar-api/internal/svc"
)

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewHealthLogic(r.Context(), svcCtx)
		resp, err := l.Health()
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
