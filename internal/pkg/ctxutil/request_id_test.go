package ctxutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	Convey("请求ID", t, func() {
		_, ok := GetRequestID(context.Background())
		So(ok, ShouldBeFalse)

		ctx := WithRequestID(context.Background(), "req-1")
		id, ok := GetRequestID(ctx)
		So(ok, ShouldBeTrue)
		So(id, ShouldEqual, "req-1")

		Convey("日志带上请求ID", func() {
			var buf bytes.Buffer
			prev := log.Logger
			log.Logger = zerolog.New(&buf)
			defer func() { log.Logger = prev }()

			Logger(ctx).Info().Msg("hello")
			So(buf.String(), ShouldContainSubstring, `"request_id":"req-1"`)

			buf.Reset()
			Logger(context.Background()).Info().Msg("hello")
			So(buf.String(), ShouldNotContainSubstring, "request_id")
		})
	})
}
