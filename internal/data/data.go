package data

import (
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/iWorld-y/crowd_voice/internal/biz"
	"github.com/iWorld-y/crowd_voice/internal/conf"
	"github.com/iWorld-y/crowd_voice/pkg/metrics"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewSessionRepo, NewFetcher, NewAnalyzer)

const defaultSessionTTL = time.Hour

// Data 内存中的会话表，不做持久化
type Data struct {
	mu       sync.RWMutex
	sessions map[string]*biz.Session
	ttl      time.Duration
	log      *log.Helper
}

// NewData 创建会话表并启动过期清理
func NewData(c *conf.Analysis, logger log.Logger) (*Data, func(), error) {
	ttl := defaultSessionTTL
	if c != nil {
		ttl = conf.Duration(c.SessionTtl, defaultSessionTTL)
	}
	d := &Data{
		sessions: make(map[string]*biz.Session),
		ttl:      ttl,
		log:      log.NewHelper(log.With(logger, "module", "data")),
	}

	stop := make(chan struct{})
	go d.janitor(stop, ttl/4)

	cleanup := func() {
		d.log.Info("closing the data resources")
		close(stop)
		d.mu.Lock()
		for id, s := range d.sessions {
			s.Close()
			delete(d.sessions, id)
		}
		d.mu.Unlock()
		metrics.SessionsActive.Set(0)
	}
	return d, cleanup, nil
}

func (d *Data) janitor(stop <-chan struct{}, interval time.Duration) {
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if n := d.evict(now); n > 0 {
				d.log.Infof("清理过期会话 %d 个", n)
			}
		}
	}
}

// evict 移除闲置超过 ttl 的会话
func (d *Data) evict(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for id, s := range d.sessions {
		if now.Sub(s.LastActive()) > d.ttl {
			s.Close()
			delete(d.sessions, id)
			n++
		}
	}
	metrics.SessionsActive.Set(float64(len(d.sessions)))
	return n
}
