package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"liqradar-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/health",
				Handler: HealthHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/liquidations",
				Handler: LiquidationsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/analysis",
				Handler: AnalysisHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
	)
}
