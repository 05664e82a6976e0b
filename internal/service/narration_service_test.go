package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"narrator/internal/narrator"
	"narrator/internal/pkg/speech"
	"narrator/internal/pkg/speech/mock"
	"narrator/internal/pkg/voiceprofile"
)

func receive(ch <-chan narrator.Message) (narrator.Message, bool) {
	select {
	case m := <-ch:
		return m, true
	case <-time.After(time.Second):
		return narrator.Message{}, false
	}
}

func TestNarrationService(t *testing.T) {
	Convey("NarrationService", t, func() {
		ctx := context.Background()
		eng := &mock.Engine{WordBoundaries: true, CanPause: true}
		store := frenchStore()
		svc := NewNarrationService(eng, store, narrator.NewBroadcaster(16), narrator.Options{})
		defer svc.Close()

		Convey("使用已保存设置开始朗读", func() {
			events, unsubscribe := svc.Subscribe()
			defer unsubscribe()

			res, err := svc.Start(ctx, &StartNarrationRequest{Text: "Bonjour tout le monde."})
			So(err, ShouldBeNil)
			So(res.RunID, ShouldNotBeEmpty)
			So(len(res.Segments), ShouldEqual, 1)

			call, ok := eng.LastSpeak()
			So(ok, ShouldBeTrue)
			So(call.Options.Language, ShouldEqual, "fr-FR")

			st := svc.Status()
			So(st.RunID, ShouldEqual, res.RunID)
			So(st.State, ShouldEqual, narrator.StateSpeaking)

			m, ok := receive(events)
			So(ok, ShouldBeTrue)
			So(m.Event, ShouldNotBeNil)
			So(m.Event.Kind, ShouldEqual, narrator.EventStarted)

			So(svc.Pause(), ShouldBeTrue)
			So(svc.Status().State, ShouldEqual, narrator.StatePaused)
			So(svc.Resume(), ShouldBeTrue)

			So(eng.Complete(), ShouldBeTrue)
			st = svc.Status()
			So(st.State, ShouldEqual, narrator.StateStopped)
			So(st.IsSpeaking, ShouldBeFalse)

			So(svc.Stop(), ShouldBeFalse)
		})

		Convey("空文本", func() {
			_, err := svc.Start(ctx, &StartNarrationRequest{Text: " \n "})
			So(err, ShouldEqual, ErrNothingToNarrate)
		})

		Convey("合并更新设置", func() {
			rate := 1.5
			vs, err := svc.UpdateSettings(ctx, &SettingsPatch{Rate: &rate})
			So(err, ShouldBeNil)
			So(vs.Rate, ShouldEqual, 1.5)
			So(vs.Language, ShouldEqual, "fr-FR")

			loaded, _ := svc.GetSettings(ctx)
			So(loaded, ShouldResemble, vs)

			tooFast := 9.0
			vs, _ = svc.UpdateSettings(ctx, &SettingsPatch{Rate: &tooFast})
			So(vs.Rate, ShouldEqual, 2.0)

			unknown := voiceprofile.ID("pirate")
			_, err = svc.UpdateSettings(ctx, &SettingsPatch{Personality: &unknown})
			So(err, ShouldEqual, ErrUnknownProfile)
		})

		Convey("列出音色", func() {
			eng.VoicesResult = []speech.Voice{{ID: "v1", Language: "fr-CA"}}
			voices, err := svc.Voices(ctx, "fr")
			So(err, ShouldBeNil)
			So(len(voices), ShouldEqual, 1)
		})
	})
}
