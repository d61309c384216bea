package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/google/wire"

	"github.com/iWorld-y/crowd_voice/pkg/fetcher"
	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewAnalysisUseCase)

var (
	ErrSessionNotFound = errors.NotFound("SESSION_NOT_FOUND", "session not found")
	ErrNotRefreshable  = errors.Conflict("NOT_REFRESHABLE", "nothing to refresh yet")

	ErrLinksNotApplicable = errors.Conflict("NOT_REFRESHABLE", "links analysis is not applicable to pasted text")
)

// SessionRepo 会话存储
type SessionRepo interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
}

// Fetcher 内容抓取
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, error)
}

// Analyzer 各类分析的调用方
type Analyzer interface {
	Summary(ctx context.Context, req dm.SummaryRequest) (*dm.Summary, error)
	KeyPoints(ctx context.Context, req dm.KeyPointsRequest) (*dm.KeyPoints, error)
	Sentiment(ctx context.Context, req dm.SentimentRequest) (*dm.Sentiment, error)
	Links(ctx context.Context, req dm.LinksRequest) (dm.Links, error)
	WordCloud(ctx context.Context, req dm.WordCloudRequest) (dm.WordCloud, error)
	ActionItems(ctx context.Context, req dm.ActionItemsRequest) (*dm.ActionItems, error)
	HeaderImage(ctx context.Context, req dm.HeaderImageRequest) (*dm.HeaderImage, error)
}
