package cache

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryCache(t *testing.T) {
	Convey("MemoryCache", t, func() {
		c := NewMemoryCache()
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }
		ctx := context.Background()

		var got []string
		So(c.Get(ctx, "k", &got), ShouldEqual, ErrMiss)

		So(c.Set(ctx, "k", []string{"a", "b"}, time.Minute), ShouldBeNil)
		So(c.Get(ctx, "k", &got), ShouldBeNil)
		So(got, ShouldResemble, []string{"a", "b"})

		Convey("过期后未命中", func() {
			now = now.Add(time.Minute)
			So(c.Get(ctx, "k", &got), ShouldEqual, ErrMiss)
		})

		Convey("不过期的条目", func() {
			So(c.Set(ctx, "p", 1, 0), ShouldBeNil)
			now = now.Add(24 * time.Hour)
			var n int
			So(c.Get(ctx, "p", &n), ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}

func TestAnalysisCacheKey(t *testing.T) {
	Convey("AnalysisCacheKey 区分文本、语言与设置", t, func() {
		type s struct{ Intensity float64 }
		a := AnalysisCacheKey("Bonjour!", "fr-CA", s{0.7})

		So(a, ShouldStartWith, AnalysisCacheKeyPrefix)
		So(AnalysisCacheKey("Bonjour!", "fr-CA", s{0.7}), ShouldEqual, a)
		So(AnalysisCacheKey("Bonjour?", "fr-CA", s{0.7}), ShouldNotEqual, a)
		So(AnalysisCacheKey("Bonjour!", "fr-FR", s{0.7}), ShouldNotEqual, a)
		So(AnalysisCacheKey("Bonjour!", "fr-CA", s{0.5}), ShouldNotEqual, a)
	})
}
