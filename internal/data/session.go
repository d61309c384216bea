package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/crowd_voice/internal/biz"
	"github.com/iWorld-y/crowd_voice/pkg/metrics"
)

type sessionRepo struct {
	data *Data
	log  *log.Helper
}

// NewSessionRepo 创建会话仓库
func NewSessionRepo(data *Data, logger log.Logger) biz.SessionRepo {
	return &sessionRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *sessionRepo) Save(ctx context.Context, s *biz.Session) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	r.data.sessions[s.ID()] = s
	metrics.SessionsActive.Set(float64(len(r.data.sessions)))
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*biz.Session, error) {
	r.data.mu.RLock()
	s, ok := r.data.sessions[id]
	r.data.mu.RUnlock()
	if !ok {
		return nil, biz.ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}
