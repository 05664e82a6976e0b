package voiceprofile

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"narrator/internal/pkg/prosody"
)

func TestCatalog(t *testing.T) {
	Convey("内嵌人设目录", t, func() {
		all := All()
		So(len(all), ShouldEqual, 4)

		ids := make([]ID, len(all))
		for i, p := range all {
			ids[i] = p.ID
		}
		So(ids, ShouldResemble, []ID{Professionnel, Conversationnel, Dramatique, Decontracte})

		Convey("dramatique 的预设", func() {
			p, ok := Get(Dramatique)
			So(ok, ShouldBeTrue)
			So(p.NameFr, ShouldEqual, "Dramatique")
			So(p.Prosody.Intensity, ShouldEqual, 0.9)
			So(p.Prosody.PauseMultiplier, ShouldEqual, 1.3)
			So(p.Prosody.BreathingSounds, ShouldBeTrue)
			So(p.Adjustments, ShouldResemble, Adjustments{Pitch: 1.0, Rate: 0.9, Volume: 1.05})
			So(p.SampleText, ShouldStartWith, "Il était une fois...")
		})

		Convey("未知人设", func() {
			_, ok := Get("robot")
			So(ok, ShouldBeFalse)
		})

		Convey("All 返回副本", func() {
			all[0].Name = "changed"
			p, _ := Get(Professionnel)
			So(p.Name, ShouldEqual, "Professional")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parse 校验目录内容", t, func() {
		_, err := Parse([]byte("profiles:\n  - name: x\n"))
		So(err, ShouldNotBeNil)

		_, err = Parse([]byte("profiles:\n  - id: a\n  - id: a\n"))
		So(err, ShouldNotBeNil)

		_, err = Parse([]byte("profiles: ["))
		So(err, ShouldNotBeNil)

		Convey("超出范围的预设被钳制", func() {
			profiles, err := Parse([]byte("profiles:\n  - id: a\n    prosody:\n      intensity: 3\n      pause_multiplier: 0.1\n"))
			So(err, ShouldBeNil)
			So(profiles[0].Prosody.Intensity, ShouldEqual, 1.0)
			So(profiles[0].Prosody.PauseMultiplier, ShouldEqual, 0.5)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Apply 乘以人设倍率并钳制", t, func() {
		p, _ := Get(Decontracte)
		got := Apply(prosody.SpeechParams{Pitch: 1.0, Rate: 1.0, Volume: 1.0}, p)
		So(got.Pitch, ShouldAlmostEqual, 1.1, 1e-9)
		So(got.Rate, ShouldAlmostEqual, 1.1, 1e-9)
		So(got.Volume, ShouldEqual, 1.0)

		d, _ := Get(Dramatique)
		got = Apply(prosody.SpeechParams{Pitch: 1.9, Rate: 2.0, Volume: 1.0}, d)
		So(got.Rate, ShouldAlmostEqual, 1.8, 1e-9)
		So(got.Volume, ShouldEqual, 1.0) // 1.05 倍后钳制

		c, _ := Get(Conversationnel)
		got = Apply(prosody.SpeechParams{Pitch: 2.0, Rate: 1.0, Volume: 0.5}, c)
		So(got.Pitch, ShouldEqual, 2.0)
	})
}

func TestRecommend(t *testing.T) {
	Convey("Recommend 根据关键词推荐人设", t, func() {
		So(Recommend("Le gouvernement publie un rapport sur l'économie."), ShouldEqual, Professionnel)
		So(Recommend("Hey salut, c'est cool!"), ShouldEqual, Decontracte)
		So(Recommend("Il était une fois un héros."), ShouldEqual, Dramatique)
		So(Recommend("Comment ça va? Tu viens?"), ShouldEqual, Conversationnel)
		So(Recommend(""), ShouldEqual, Conversationnel)

		Convey("正式优先于随意", func() {
			So(Recommend("Salut! Hey, voici le rapport et l'analyse."), ShouldEqual, Professionnel)
		})
	})
}
