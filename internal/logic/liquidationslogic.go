package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"liqradar-api/internal/svc"
	"liqradar-api/internal/types"
)

var errLiquidationsUnavailable = errors.New("liquidation service not configured")

type LiquidationsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewLiquidationsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *LiquidationsLogic {
	return &LiquidationsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *LiquidationsLogic) Liquidations(req *types.SymbolRequest) (resp *types.LiquidationsResponse, err error) {
	if l.svcCtx == nil || l.svcCtx.Builder == nil {
		return nil, errLiquidationsUnavailable
	}

	symbol := requestSymbol(req.Symbol)
	dataset := l.svcCtx.Builder.Build(l.ctx, symbol)
	l.Debugf("liquidations %s: price=%v levels=%d", symbol, dataset.CurrentPrice, len(dataset.LiquidationLevels))
	return dataset, nil
}
