package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crowd_voice"

var (
	// AnalysisRequests 按分析类型和结果统计调用次数
	AnalysisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_requests_total",
		Help:      "Analysis invocations by kind and outcome.",
	}, []string{"kind", "outcome"})

	// AnalysisDuration 分析耗时
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Analysis latency by kind.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
	}, []string{"kind"})

	// FetchRequests 抓取结果统计
	FetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_requests_total",
		Help:      "Content fetches by outcome.",
	}, []string{"outcome"})

	// SessionsActive 当前保存在内存中的会话数
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory.",
	})
)

// ObserveAnalysis 记录一次分析的结果和耗时
func ObserveAnalysis(kind, outcome string, started time.Time) {
	AnalysisRequests.WithLabelValues(kind, outcome).Inc()
	AnalysisDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}
