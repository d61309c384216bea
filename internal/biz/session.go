package biz

import (
	"context"
	"sync"
	"time"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

type eventType int

const (
	eventFetched eventType = iota
	eventFetchFailed
	eventStarted
	eventSucceeded
	eventFailed
	eventNotApplicable
)

// event 会话状态的唯一变更方式，generation/token 过期的事件会被丢弃
type event struct {
	typ        eventType
	generation uint64
	token      uint64
	kind       dm.Kind
	content    *content
	result     dm.Result
	err        string
	cancel     context.CancelFunc
}

// content 本世代的分析输入
type content struct {
	finalURL string
	title    string
	text     string // 可读正文
	raw      string // 原始页面，仅用于链接分析
}

type slot struct {
	state  dm.AnalysisState
	token  uint64
	cancel context.CancelFunc
}

// Session 单个用户会话的可变聚合
type Session struct {
	mu          sync.Mutex
	id          string
	generation  uint64
	fetching    bool
	source      *dm.Source
	content     content
	fetchErr    string
	submittedAt time.Time
	lastActive  time.Time
	slots       map[dm.Kind]*slot
	cancelFetch context.CancelFunc
	changed     chan struct{}
}

// NewSession 创建空会话
func NewSession(id string) *Session {
	s := &Session{
		id:         id,
		lastActive: time.Now(),
		slots:      make(map[dm.Kind]*slot, len(dm.AllKinds)),
		changed:    make(chan struct{}),
	}
	for _, k := range dm.AllKinds {
		s.slots[k] = &slot{}
	}
	return s
}

func (s *Session) ID() string { return s.id }

// Touch 刷新最近访问时间
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// LastActive 最近访问时间
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close 取消所有进行中的调用
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

// reset 开始新的一次提交：世代 +1，取消上一世代的全部调用，所有面板回到 NotStarted
func (s *Session) reset(src dm.Source, cancelFetch context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAllLocked()
	s.generation++
	s.source = &src
	s.fetching = true
	s.content = content{}
	s.fetchErr = ""
	s.submittedAt = time.Now()
	s.lastActive = s.submittedAt
	for _, k := range dm.AllKinds {
		s.slots[k] = &slot{}
	}
	s.cancelFetch = cancelFetch
	s.notifyLocked()
	return s.generation
}

// apply 应用事件，返回 Started 事件分配的令牌；事件过期时 ok 为 false
func (s *Session) apply(e event) (token uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.generation != s.generation || s.source == nil {
		return 0, false
	}
	now := time.Now()

	switch e.typ {
	case eventFetched:
		if !s.fetching {
			return 0, false
		}
		s.fetching = false
		s.content = *e.content
		if e.content.finalURL != "" {
			s.source.ResolvedURL = e.content.finalURL
		}

	case eventFetchFailed:
		if !s.fetching {
			return 0, false
		}
		s.fetching = false
		s.fetchErr = e.err

	case eventStarted:
		if s.fetching || s.fetchErr != "" {
			return 0, false
		}
		sl := s.slots[e.kind]
		if sl.state.Status == dm.StatusNotApplicable {
			return 0, false
		}
		if sl.cancel != nil {
			sl.cancel()
		}
		sl.token++
		sl.cancel = e.cancel
		sl.state = dm.AnalysisState{Status: dm.StatusLoading, StartedAt: now}
		token = sl.token

	case eventSucceeded, eventFailed:
		sl := s.slots[e.kind]
		if e.token != sl.token || sl.state.Status != dm.StatusLoading {
			return 0, false
		}
		sl.cancel = nil
		next := dm.AnalysisState{StartedAt: sl.state.StartedAt, FinishedAt: now}
		if e.typ == eventSucceeded {
			next.Status, next.Result = dm.StatusSucceeded, e.result
		} else {
			next.Status, next.Error = dm.StatusFailed, e.err
		}
		sl.state = next

	case eventNotApplicable:
		sl := s.slots[e.kind]
		if sl.cancel != nil {
			sl.cancel()
		}
		s.slots[e.kind] = &slot{token: sl.token + 1, state: dm.AnalysisState{Status: dm.StatusNotApplicable}}
	}

	s.notifyLocked()
	return token, true
}

// current 当前世代及其分析输入；内容尚不可用时 ok 为 false
func (s *Session) current() (gen uint64, src dm.Source, c content, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil || s.fetching || s.fetchErr != "" {
		return s.generation, dm.Source{}, content{}, false
	}
	return s.generation, *s.source, s.content, true
}

// lastSource 最近一次提交的来源
func (s *Session) lastSource() (dm.Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return dm.Source{}, false
	}
	return *s.source, true
}

// Snapshot 返回只读快照
func (s *Session) Snapshot() *dm.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *dm.Session {
	out := &dm.Session{
		ID:          s.id,
		Generation:  s.generation,
		Title:       s.content.title,
		Content:     s.content.text,
		FetchError:  s.fetchErr,
		SubmittedAt: s.submittedAt,
		Analyses:    make(map[dm.Kind]dm.AnalysisState, len(s.slots)),
	}
	if s.source != nil {
		src := *s.source
		out.Source = &src
	}
	for k, sl := range s.slots {
		out.Analyses[k] = sl.state
	}
	out.Phase = s.phaseLocked()
	return out
}

func (s *Session) phaseLocked() dm.Phase {
	switch {
	case s.source == nil:
		return dm.PhaseIdle
	case s.fetching:
		return dm.PhaseFetching
	case s.fetchErr != "":
		return dm.PhaseError
	}
	states := make(map[dm.Kind]dm.AnalysisState, len(s.slots))
	for k, sl := range s.slots {
		states[k] = sl.state
	}
	return dm.DerivePhase(states)
}

func (s *Session) settledLocked() bool {
	switch s.phaseLocked() {
	case dm.PhaseIdle, dm.PhaseError, dm.PhaseComplete:
		return true
	}
	return false
}

// await 阻塞直到 cond（持锁调用）成立或 ctx 结束
func (s *Session) await(ctx context.Context, cond func() bool) error {
	for {
		s.mu.Lock()
		done := cond()
		ch := s.changed
		s.mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// wordCloudSettled 本世代词云已结束，或世代已切换
func (s *Session) wordCloudSettled(gen uint64) func() bool {
	return func() bool {
		return s.generation != gen || s.slots[dm.KindWordCloud].state.Status.Terminal()
	}
}

// wordCloud 当前成功的词云结果
func (s *Session) wordCloud() dm.WordCloud {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.slots[dm.KindWordCloud].state
	if st.Status != dm.StatusSucceeded {
		return nil
	}
	words, _ := st.Result.(dm.WordCloud)
	return words
}

func (s *Session) cancelAllLocked() {
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	for _, sl := range s.slots {
		if sl.cancel != nil {
			sl.cancel()
			sl.cancel = nil
		}
	}
}

func (s *Session) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
