package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/crowd_voice/internal/conf"
	"github.com/iWorld-y/crowd_voice/pkg/analysis"
	"github.com/iWorld-y/crowd_voice/pkg/metrics"
	dm "github.com/iWorld-y/crowd_voice/pkg/model"
	"github.com/iWorld-y/crowd_voice/pkg/sentiment"
)

const (
	defaultAnalysisTimeout = 90 * time.Second
	defaultImageSeedWait   = 45 * time.Second
	defaultMaxContentChars = 100000

	msgTimedOut    = "analysis timed out"
	msgUnavailable = "analysis unavailable"
	msgInvalid     = "analysis returned an invalid response"
)

// AnalysisUseCase 编排抓取与各类分析
type AnalysisUseCase struct {
	repo       SessionRepo
	fetcher    Fetcher
	analyzer   Analyzer
	policies   map[dm.Kind]Policy
	timeout    time.Duration
	seedWait   time.Duration
	maxContent int
	log        *log.Helper
}

// NewAnalysisUseCase 创建编排器
func NewAnalysisUseCase(repo SessionRepo, f Fetcher, a Analyzer, c *conf.Analysis, logger log.Logger) (*AnalysisUseCase, error) {
	if c == nil {
		c = &conf.Analysis{}
	}
	policies, err := ParsePolicies(c.Policies)
	if err != nil {
		return nil, err
	}
	maxContent := int(c.MaxContentChars)
	if maxContent <= 0 {
		maxContent = defaultMaxContentChars
	}
	return &AnalysisUseCase{
		repo:       repo,
		fetcher:    f,
		analyzer:   a,
		policies:   policies,
		timeout:    conf.Duration(c.Timeout, defaultAnalysisTimeout),
		seedWait:   conf.Duration(c.ImageSeedWait, defaultImageSeedWait),
		maxContent: maxContent,
		log:        log.NewHelper(log.With(logger, "module", "biz/analysis")),
	}, nil
}

// Submit 提交新的来源；id 为空时创建新会话。立即返回快照，抓取与分析在后台进行
func (uc *AnalysisUseCase) Submit(ctx context.Context, id string, src dm.Source) (*dm.Session, error) {
	var s *Session
	if id == "" {
		s = NewSession(uuid.NewString())
		if err := uc.repo.Save(ctx, s); err != nil {
			return nil, err
		}
	} else {
		var err error
		if s, err = uc.repo.Get(ctx, id); err != nil {
			return nil, err
		}
	}
	uc.start(ctx, s, src)
	return s.Snapshot(), nil
}

// Get 返回会话快照
func (uc *AnalysisUseCase) Get(ctx context.Context, id string) (*dm.Session, error) {
	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Wait 阻塞直到当前世代的所有分析都进入终态
func (uc *AnalysisUseCase) Wait(ctx context.Context, id string) (*dm.Session, error) {
	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.await(ctx, s.settledLocked); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Refresh 针对已抓取的内容重新运行单个分析，取代该类型进行中的调用
func (uc *AnalysisUseCase) Refresh(ctx context.Context, id string, kind dm.Kind) (*dm.Session, error) {
	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	gen, src, _, ok := s.current()
	if !ok {
		return nil, ErrNotRefreshable
	}
	if kind == dm.KindLinks && src.Mode == dm.SourceText {
		return nil, ErrLinksNotApplicable
	}
	uc.log.Infof("刷新分析 [%s] session=%s", kind, id)
	uc.launch(ctx, s, gen, kind)
	return s.Snapshot(), nil
}

// RefreshAll 使用最近解析出的来源重新抓取并运行全部分析
func (uc *AnalysisUseCase) RefreshAll(ctx context.Context, id string) (*dm.Session, error) {
	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, ok := s.lastSource()
	if !ok {
		return nil, ErrNotRefreshable
	}
	next := dm.Source{Mode: src.Mode, Input: src.Input}
	if src.Mode == dm.SourceURL && src.ResolvedURL != "" {
		next.Input = src.ResolvedURL
	}
	uc.start(ctx, s, next)
	return s.Snapshot(), nil
}

func (uc *AnalysisUseCase) start(ctx context.Context, s *Session, src dm.Source) {
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	gen := s.reset(src, cancel)
	uc.log.Infof("新的提交 session=%s generation=%d mode=%s", s.ID(), gen, src.Mode)

	if src.Mode == dm.SourceText {
		uc.onFetched(ctx, s, gen, content{text: src.Input})
		return
	}
	go uc.fetch(fetchCtx, s, gen, src.Input)
}

func (uc *AnalysisUseCase) fetch(ctx context.Context, s *Session, gen uint64, url string) {
	page, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		if _, ok := s.apply(event{typ: eventFetchFailed, generation: gen, err: err.Error()}); ok {
			uc.log.Warnf("抓取失败 session=%s: %v", s.ID(), err)
		}
		return
	}
	uc.onFetched(ctx, s, gen, content{
		finalURL: page.FinalURL,
		title:    page.Title,
		text:     page.Text,
		raw:      page.Content,
	})
}

// onFetched 内容就绪后并发启动全部适用的分析
func (uc *AnalysisUseCase) onFetched(ctx context.Context, s *Session, gen uint64, c content) {
	c.text = analysis.Truncate(c.text, uc.maxContent)
	c.raw = analysis.Truncate(c.raw, uc.maxContent)
	if _, ok := s.apply(event{typ: eventFetched, generation: gen, content: &c}); !ok {
		uc.log.Debugf("丢弃过期的抓取结果 session=%s generation=%d", s.ID(), gen)
		return
	}

	_, src, _, _ := s.current()
	for _, kind := range dm.AllKinds {
		if kind == dm.KindLinks && src.Mode == dm.SourceText {
			s.apply(event{typ: eventNotApplicable, generation: gen, kind: kind})
			continue
		}
		uc.launch(ctx, s, gen, kind)
	}
}

// launch 启动一次分析；每次运行有独立的超时与取消
func (uc *AnalysisUseCase) launch(ctx context.Context, s *Session, gen uint64, kind dm.Kind) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.timeout)
	token, ok := s.apply(event{typ: eventStarted, generation: gen, kind: kind, cancel: cancel})
	if !ok {
		cancel()
		return
	}
	go uc.run(runCtx, cancel, s, gen, token, kind)
}

func (uc *AnalysisUseCase) run(ctx context.Context, cancel context.CancelFunc, s *Session, gen, token uint64, kind dm.Kind) {
	defer cancel()
	started := time.Now()

	cur, src, c, ok := s.current()
	if !ok || cur != gen {
		return
	}
	result, err := uc.invoke(ctx, s, gen, kind, src, c)

	e := event{typ: eventSucceeded, generation: gen, token: token, kind: kind, result: result}
	outcome := "ok"
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			metrics.ObserveAnalysis(string(kind), "cancelled", started)
			return
		}
		uc.log.Warnf("分析失败 [%s] session=%s: %v", kind, s.ID(), err)
		e, outcome = uc.onFailure(ctx, e, c, err)
	}
	metrics.ObserveAnalysis(string(kind), outcome, started)

	if _, ok := s.apply(e); !ok {
		uc.log.Debugf("丢弃过期的分析结果 [%s] session=%s generation=%d", kind, s.ID(), gen)
	}
}

func (uc *AnalysisUseCase) invoke(ctx context.Context, s *Session, gen uint64, kind dm.Kind, src dm.Source, c content) (dm.Result, error) {
	switch kind {
	case dm.KindSummary:
		return nilOnError(uc.analyzer.Summary(ctx, dm.SummaryRequest{URL: src.Reference(), Content: c.text}))
	case dm.KindKeyPoints:
		return nilOnError(uc.analyzer.KeyPoints(ctx, dm.KeyPointsRequest{Conversation: c.text}))
	case dm.KindSentiment:
		return nilOnError(uc.analyzer.Sentiment(ctx, dm.SentimentRequest{Text: c.text}))
	case dm.KindLinks:
		return nilOnError(uc.analyzer.Links(ctx, dm.LinksRequest{PageContent: c.raw, SourceURL: src.Reference()}))
	case dm.KindWordCloud:
		return nilOnError(uc.analyzer.WordCloud(ctx, dm.WordCloudRequest{TextContent: c.text}))
	case dm.KindActionItems:
		return nilOnError(uc.analyzer.ActionItems(ctx, dm.ActionItemsRequest{Conversation: c.text}))
	case dm.KindHeaderImage:
		waitCtx, cancel := context.WithTimeout(ctx, uc.seedWait)
		if err := s.await(waitCtx, s.wordCloudSettled(gen)); err != nil {
			uc.log.Infof("等待词云超时，头图使用备用主题 session=%s", s.ID())
		}
		cancel()
		seed := analysis.HeaderImageSeed(s.wordCloud(), c.title, c.text)
		return nilOnError(uc.analyzer.HeaderImage(ctx, dm.HeaderImageRequest{Text: seed}))
	}
	return nil, fmt.Errorf("unknown analysis kind %q", kind)
}

// onFailure 按策略把失败转换为事件
func (uc *AnalysisUseCase) onFailure(ctx context.Context, e event, c content, err error) (event, string) {
	switch uc.policies[e.kind] {
	case PolicyEmpty:
		e.result = dm.EmptyResult(e.kind)
		return e, "empty"
	case PolicyFallback:
		if e.kind == dm.KindSentiment {
			e.result = sentiment.Analyze(c.text)
			return e, "fallback"
		}
	}

	e.typ, e.result = eventFailed, nil
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		e.err = msgTimedOut
		return e, "timeout"
	case errors.Is(err, analysis.ErrValidation):
		e.err = msgInvalid
	default:
		e.err = msgUnavailable
	}
	return e, "failed"
}

// nilOnError 避免把带类型的 nil 指针装进 dm.Result
func nilOnError[T dm.Result](r T, err error) (dm.Result, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}
