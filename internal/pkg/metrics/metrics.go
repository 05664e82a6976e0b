// Package metrics 基于 OpenTelemetry 的朗读与 HTTP 指标
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "narrator"

// 运行结束原因
const (
	OutcomeCompleted = "completed"
	OutcomeStopped   = "stopped"
	OutcomeError     = "error"
)

// Metrics 全部指标
type Metrics struct {
	// NarrationRuns 结束的朗读次数，按 outcome 区分
	NarrationRuns metric.Int64Counter

	// NarrationSegments 已送入语音引擎的句段数
	NarrationSegments metric.Int64Counter

	// SpeechErrors 语音引擎报错次数
	SpeechErrors metric.Int64Counter

	// ActiveNarrations 正在进行的朗读
	ActiveNarrations metric.Int64UpDownCounter

	// NarrationDuration 一次朗读从开始到结束的时长（秒）
	NarrationDuration metric.Float64Histogram

	// AnalysisCache 分析缓存访问，按 result=hit|miss 区分
	AnalysisCache metric.Int64Counter

	// HTTPRequestDuration HTTP 请求耗时（秒）
	HTTPRequestDuration metric.Float64Histogram
}

var durationBuckets = []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600}

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// NewMetrics 在给定的 MeterProvider 上创建全部指标
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.NarrationRuns, err = m.Int64Counter("narrator.narration.runs",
		metric.WithDescription("Finished narration runs by outcome."),
	); err != nil {
		return nil, err
	}
	if met.NarrationSegments, err = m.Int64Counter("narrator.narration.segments",
		metric.WithDescription("Segments handed to the speech engine."),
	); err != nil {
		return nil, err
	}
	if met.SpeechErrors, err = m.Int64Counter("narrator.speech.errors",
		metric.WithDescription("Speech engine failures."),
	); err != nil {
		return nil, err
	}
	if met.ActiveNarrations, err = m.Int64UpDownCounter("narrator.narration.active",
		metric.WithDescription("Narration runs currently in progress."),
	); err != nil {
		return nil, err
	}
	if met.NarrationDuration, err = m.Float64Histogram("narrator.narration.duration",
		metric.WithDescription("Wall-clock duration of a narration run."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AnalysisCache, err = m.Int64Counter("narrator.analysis.cache",
		metric.WithDescription("Prosody analysis cache lookups by result."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("narrator.http.request.duration",
		metric.WithDescription("HTTP request latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// Default 返回基于全局 MeterProvider 的单例
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("metrics: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RunStarted 记录一次朗读开始
func (m *Metrics) RunStarted(ctx context.Context) {
	m.ActiveNarrations.Add(ctx, 1)
}

// RunFinished 记录一次朗读结束
func (m *Metrics) RunFinished(ctx context.Context, outcome string, elapsed time.Duration) {
	m.ActiveNarrations.Add(ctx, -1)
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.NarrationRuns.Add(ctx, 1, attrs)
	m.NarrationDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// SegmentSpoken 记录一个句段送入引擎
func (m *Metrics) SegmentSpoken(ctx context.Context) {
	m.NarrationSegments.Add(ctx, 1)
}

// SpeechError 记录一次引擎错误
func (m *Metrics) SpeechError(ctx context.Context) {
	m.SpeechErrors.Add(ctx, 1)
}

// CacheLookup 记录一次分析缓存访问
func (m *Metrics) CacheLookup(ctx context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.AnalysisCache.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
