package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"liqradar-api/internal/logic"
	"liqradar-api/internal/svc"
	"liqradar-api/internal/types"
)

func LiquidationsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SymbolRequest
		if err := httpx.Parse(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}

		l := logic.NewLiquidationsLogic(r.Context(), svcCtx)
		resp, err := l.Liquidations(&req)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
