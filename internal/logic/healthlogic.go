package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"liqradar-api/internal/svc"
	"liqradar-api/internal/types"
)

const (
	healthStatus = "ok"
	agentName    = "Liquidation-Radar"
)

type HealthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *HealthLogic) Health() (resp *types.HealthResponse, err error) {
	return &types.HealthResponse{Status: healthStatus, Agent: agentName}, nil
}
