package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"liqradar-api/internal/svc"
	"liqradar-api/internal/types"
	"liqradar-api/pkg/analysis"
)

var (
	errAnalysisUnavailable = errors.New("analysis service not configured")
	errAnalysisFailed      = errors.New("failed to generate analysis")
)

type AnalysisLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAnalysisLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalysisLogic {
	return &AnalysisLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AnalysisLogic) Analysis(req *types.SymbolRequest) (resp *types.AnalysisResponse, err error) {
	if l.svcCtx == nil || l.svcCtx.Narrator == nil {
		return nil, errAnalysisUnavailable
	}

	symbol := requestSymbol(req.Symbol)
	result, err := l.svcCtx.Narrator.Analyze(l.ctx, symbol)
	if errors.Is(err, analysis.ErrNoGenerator) {
		return nil, errAnalysisUnavailable
	}
	if err != nil {
		l.Errorf("analysis %s failed: %v", symbol, err)
		return nil, errAnalysisFailed
	}
	return result, nil
}
