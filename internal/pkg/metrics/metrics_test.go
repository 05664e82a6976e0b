package metrics

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumByAttr(met *metricdata.Metrics, key, value string) int64 {
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		return -1
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if key == "" {
			total += dp.Value
			continue
		}
		for _, kv := range dp.Attributes.ToSlice() {
			if string(kv.Key) == key && kv.Value.AsString() == value {
				total += dp.Value
			}
		}
	}
	return total
}

func TestNarrationMetrics(t *testing.T) {
	Convey("朗读指标", t, func() {
		m, reader := newTestMetrics(t)
		ctx := context.Background()

		m.RunStarted(ctx)
		m.RunStarted(ctx)
		m.SegmentSpoken(ctx)
		m.SegmentSpoken(ctx)
		m.SegmentSpoken(ctx)
		m.SpeechError(ctx)
		m.RunFinished(ctx, OutcomeCompleted, 2*time.Second)
		m.RunFinished(ctx, OutcomeError, time.Second)

		rm := collect(t, reader)

		active := findMetric(rm, "narrator.narration.active")
		So(active, ShouldNotBeNil)
		So(sumByAttr(active, "", ""), ShouldEqual, 0)

		runs := findMetric(rm, "narrator.narration.runs")
		So(runs, ShouldNotBeNil)
		So(sumByAttr(runs, "outcome", OutcomeCompleted), ShouldEqual, 1)
		So(sumByAttr(runs, "outcome", OutcomeError), ShouldEqual, 1)

		So(sumByAttr(findMetric(rm, "narrator.narration.segments"), "", ""), ShouldEqual, 3)
		So(sumByAttr(findMetric(rm, "narrator.speech.errors"), "", ""), ShouldEqual, 1)

		dur := findMetric(rm, "narrator.narration.duration")
		So(dur, ShouldNotBeNil)
		hist, ok := dur.Data.(metricdata.Histogram[float64])
		So(ok, ShouldBeTrue)
		var count uint64
		for _, dp := range hist.DataPoints {
			count += dp.Count
		}
		So(count, ShouldEqual, 2)
	})
}

func TestCacheLookup(t *testing.T) {
	Convey("分析缓存命中统计", t, func() {
		m, reader := newTestMetrics(t)
		ctx := context.Background()

		m.CacheLookup(ctx, true)
		m.CacheLookup(ctx, false)
		m.CacheLookup(ctx, false)

		met := findMetric(collect(t, reader), "narrator.analysis.cache")
		So(met, ShouldNotBeNil)
		So(sumByAttr(met, "result", "hit"), ShouldEqual, 1)
		So(sumByAttr(met, "result", "miss"), ShouldEqual, 2)
	})
}

func TestDefault(t *testing.T) {
	Convey("Default 返回同一实例", t, func() {
		So(Default(), ShouldNotBeNil)
		So(Default(), ShouldEqual, Default())
	})
}
