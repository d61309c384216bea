package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/iWorld-y/crowd_voice/internal/biz"
	"github.com/iWorld-y/crowd_voice/pkg/export"
	"github.com/iWorld-y/crowd_voice/pkg/fetcher"
	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewCrowdVoiceService)

const (
	minTextChars = 50
	maxTextChars = 100000

	// waitLimit ?wait=true 的最长阻塞时间，超时后返回当前快照
	waitLimit = 2 * time.Minute
)

var ErrNothingToExport = kerrors.Conflict("NOTHING_TO_EXPORT", "no analysis results are available to export")

func invalidSource(format string, args ...any) error {
	return kerrors.BadRequest("INVALID_SOURCE", fmt.Sprintf(format, args...))
}

func unknownAnalysis(kind string) error {
	return kerrors.BadRequest("UNKNOWN_ANALYSIS", fmt.Sprintf("unknown analysis kind %q", kind))
}

// SubmitRequest 提交请求，url 与 text 二选一
type SubmitRequest struct {
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

// ExportReply 导出的文档
type ExportReply struct {
	Filename    string
	ContentType string
	Body        []byte
}

type CrowdVoiceService struct {
	uc  *biz.AnalysisUseCase
	log *log.Helper
}

func NewCrowdVoiceService(uc *biz.AnalysisUseCase, logger log.Logger) *CrowdVoiceService {
	return &CrowdVoiceService{
		uc:  uc,
		log: log.NewHelper(log.With(logger, "module", "service/crowd_voice")),
	}
}

// CreateSession 创建会话并提交来源
func (s *CrowdVoiceService) CreateSession(ctx context.Context, req *SubmitRequest) (*dm.Session, error) {
	src, err := sourceFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.uc.Submit(ctx, "", src)
}

// Submit 向已有会话提交新的来源，上一次提交的分析全部作废
func (s *CrowdVoiceService) Submit(ctx context.Context, id string, req *SubmitRequest) (*dm.Session, error) {
	src, err := sourceFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.uc.Submit(ctx, id, src)
}

// GetSession 返回会话快照；wait 为 true 时等待全部分析结束
func (s *CrowdVoiceService) GetSession(ctx context.Context, id string, wait bool) (*dm.Session, error) {
	if !wait {
		return s.uc.Get(ctx, id)
	}
	waitCtx, cancel := context.WithTimeout(ctx, waitLimit)
	defer cancel()
	snap, err := s.uc.Wait(waitCtx, id)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		return s.uc.Get(context.WithoutCancel(ctx), id)
	}
	return snap, err
}

func (s *CrowdVoiceService) RefreshAll(ctx context.Context, id string) (*dm.Session, error) {
	return s.uc.RefreshAll(ctx, id)
}

func (s *CrowdVoiceService) RefreshAnalysis(ctx context.Context, id, kind string) (*dm.Session, error) {
	k, err := dm.ParseKind(kind)
	if err != nil {
		return nil, unknownAnalysis(kind)
	}
	return s.uc.Refresh(ctx, id, k)
}

// Section 单个面板的纯文本，用于复制
func (s *CrowdVoiceService) Section(ctx context.Context, id, kind string) (string, error) {
	k, err := dm.ParseKind(kind)
	if err != nil {
		return "", unknownAnalysis(kind)
	}
	snap, err := s.uc.Get(ctx, id)
	if err != nil {
		return "", err
	}
	text, ok := export.Section(snap, k)
	if !ok {
		return "", kerrors.Conflict("NOTHING_TO_EXPORT", fmt.Sprintf("%s has no result yet", k.Title()))
	}
	return text, nil
}

func (s *CrowdVoiceService) ExportMarkdown(ctx context.Context, id string) (*ExportReply, error) {
	snap, err := s.exportable(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ExportReply{
		Filename:    export.Filename(snap, "md"),
		ContentType: "text/markdown; charset=utf-8",
		Body:        []byte(export.Markdown(snap)),
	}, nil
}

func (s *CrowdVoiceService) ExportHTML(ctx context.Context, id string) (*ExportReply, error) {
	snap, err := s.exportable(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ExportReply{
		Filename:    export.Filename(snap, "html"),
		ContentType: "text/html; charset=utf-8",
		Body:        export.HTML(snap),
	}, nil
}

func (s *CrowdVoiceService) exportable(ctx context.Context, id string) (*dm.Session, error) {
	snap, err := s.uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !export.HasContent(snap) {
		return nil, ErrNothingToExport
	}
	return snap, nil
}

// sourceFromRequest 校验输入边界并规范化来源
func sourceFromRequest(req *SubmitRequest) (dm.Source, error) {
	if req == nil {
		return dm.Source{}, invalidSource("provide a url or text")
	}
	rawURL, text := strings.TrimSpace(req.URL), strings.TrimSpace(req.Text)
	switch {
	case rawURL != "" && text != "":
		return dm.Source{}, invalidSource("provide either a url or text, not both")
	case rawURL != "":
		u, err := fetcher.NormalizeURL(rawURL)
		if err != nil {
			return dm.Source{}, invalidSource("%v", err)
		}
		return dm.Source{Mode: dm.SourceURL, Input: u}, nil
	case text != "":
		n := utf8.RuneCountInString(text)
		if n < minTextChars {
			return dm.Source{}, invalidSource("pasted text must be at least %d characters", minTextChars)
		}
		if n > maxTextChars {
			return dm.Source{}, invalidSource("pasted text must be at most %d characters", maxTextChars)
		}
		return dm.Source{Mode: dm.SourceText, Input: text}, nil
	}
	return dm.Source{}, invalidSource("provide a url or text")
}
