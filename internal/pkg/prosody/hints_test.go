package prosody

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func hintsOf(hints []ProsodyHint, typ HintType) []ProsodyHint {
	var out []ProsodyHint
	for _, h := range hints {
		if h.Type == typ {
			out = append(out, h)
		}
	}
	return out
}

func analyzeOne(engine *Engine, text string) TextSegment {
	segs := engine.Analyze(text)
	So(len(segs), ShouldEqual, 1)
	return segs[0]
}

func TestGenerateHints_Pauses(t *testing.T) {
	Convey("停顿提示", t, func() {
		engine := NewEngine(DefaultSettings())

		Convey("逗号停顿与句末停顿", func() {
			seg := analyzeOne(engine, "Hello, world.")
			pauses := hintsOf(seg.ProsodyHints, HintPause)
			So(len(pauses), ShouldEqual, 2)
			So(pauses[0].Position, ShouldEqual, 5)
			So(pauses[0].Duration, ShouldEqual, 200)
			So(pauses[1].Position, ShouldEqual, 12)
			So(pauses[1].Duration, ShouldEqual, 400)
			So(len(seg.ProsodyHints), ShouldEqual, 2)
		})

		Convey("停顿时长乘以 PauseMultiplier", func() {
			s := DefaultSettings()
			s.PauseMultiplier = 1.5
			seg := analyzeOne(NewEngine(s), "Hello, world.")
			pauses := hintsOf(seg.ProsodyHints, HintPause)
			So(pauses[0].Duration, ShouldEqual, 300)
			So(pauses[1].Duration, ShouldEqual, 600)
			v, ok := pauses[1].Value.Float()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 600)
		})

		Convey("超出范围的倍率被钳制", func() {
			s := DefaultSettings()
			s.PauseMultiplier = 10
			seg := analyzeOne(NewEngine(s), "Fin.")
			So(hintsOf(seg.ProsodyHints, HintPause)[0].Duration, ShouldEqual, 800)
		})

		Convey("省略号停顿 600ms，且判定为 dramatic", func() {
			seg := analyzeOne(engine, "...et alors")
			So(seg.EmotionalTone, ShouldEqual, ToneDramatic)
			pauses := hintsOf(seg.ProsodyHints, HintPause)
			So(len(pauses), ShouldEqual, 2)
			So(pauses[0], ShouldResemble, ProsodyHint{Type: HintPause, Position: 0, Value: Number(600), Duration: 600})
			So(pauses[1].Duration, ShouldEqual, 300)
		})

		Convey("列表项在句末位置追加停顿", func() {
			seg := analyzeOne(engine, "- acheter du pain")
			So(seg.ContentType, ShouldEqual, ContentList)
			pauses := hintsOf(seg.ProsodyHints, HintPause)
			So(len(pauses), ShouldEqual, 1)
			So(pauses[0].Position, ShouldEqual, len([]rune("- acheter du pain")))
			So(pauses[0].Duration, ShouldEqual, 300)
		})

		Convey("长句在中点插入换气停顿", func() {
			text := strings.TrimSpace(strings.Repeat("mot ", 21))
			seg := analyzeOne(engine, text)
			pauses := hintsOf(seg.ProsodyHints, HintPause)
			So(len(pauses), ShouldEqual, 1)
			So(pauses[0].Position, ShouldEqual, len(text)/2)
			So(pauses[0].Duration, ShouldEqual, 250)

			Convey("关闭 NaturalPacing 后不插入", func() {
				s := DefaultSettings()
				s.NaturalPacing = false
				seg := analyzeOne(NewEngine(s), text)
				So(hintsOf(seg.ProsodyHints, HintPause), ShouldBeEmpty)
			})

			Convey("恰好 20 个词不插入", func() {
				seg := analyzeOne(engine, strings.TrimSpace(strings.Repeat("mot ", 20)))
				So(hintsOf(seg.ProsodyHints, HintPause), ShouldBeEmpty)
			})
		})
	})
}

func TestGenerateHints_Intonation(t *testing.T) {
	Convey("音高、重音与语速提示", t, func() {
		engine := NewEngine(DefaultSettings())

		Convey("疑问句在句尾前 5 个字符处升调", func() {
			seg := analyzeOne(engine, "Vous venez demain?")
			pitch := hintsOf(seg.ProsodyHints, HintPitch)
			So(len(pitch), ShouldEqual, 1)
			So(pitch[0].Position, ShouldEqual, len("Vous venez demain?")-5)
			So(pitch[0].Value, ShouldResemble, Text("+10%"))
		})

		Convey("短疑问句的位置钳制为 0", func() {
			seg := analyzeOne(engine, "Oui?")
			So(hintsOf(seg.ProsodyHints, HintPitch)[0].Position, ShouldEqual, 0)
		})

		Convey("感叹句的提示按规则顺序生成", func() {
			seg := analyzeOne(engine, "Wow!")
			So(seg.SentenceType, ShouldEqual, SentenceExclamation)
			So(seg.EmotionalTone, ShouldEqual, ToneExcited)
			So(seg.ProsodyHints, ShouldResemble, []ProsodyHint{
				{Type: HintPause, Position: 3, Value: Number(400), Duration: 400},
				{Type: HintEmphasis, Position: 0, Value: Text("strong")},
				{Type: HintVolume, Position: 0, Value: Number(1.1)},
				{Type: HintRate, Position: 0, Value: Number(1.15)},
				{Type: HintPitch, Position: 0, Value: Text("+5%")},
			})
		})

		Convey("大写词与强调词", func() {
			seg := analyzeOne(engine, "C'est VRAIMENT bien.")
			emphasis := hintsOf(seg.ProsodyHints, HintEmphasis)
			So(len(emphasis), ShouldEqual, 2)
			So(emphasis[0], ShouldResemble, ProsodyHint{Type: HintEmphasis, Position: 6, Value: Text("strong")})
			So(emphasis[1], ShouldResemble, ProsodyHint{Type: HintEmphasis, Position: 6, Value: Text("moderate")})

			Convey("关闭 EmphasisDetection 后不生成", func() {
				s := DefaultSettings()
				s.EmphasisDetection = false
				seg := analyzeOne(NewEngine(s), "C'est VRAIMENT bien.")
				So(hintsOf(seg.ProsodyHints, HintEmphasis), ShouldBeEmpty)
			})
		})

		Convey("强调词位置按字符计算", func() {
			seg := analyzeOne(engine, "Éléonore était très calme.")
			emphasis := hintsOf(seg.ProsodyHints, HintEmphasis)
			So(len(emphasis), ShouldEqual, 1)
			So(emphasis[0].Position, ShouldEqual, 15)
		})

		Convey("serious 与 sad 的语速与音高", func() {
			seg := analyzeOne(engine, "Ceci est crucial.")
			So(hintsOf(seg.ProsodyHints, HintRate)[0].Value, ShouldResemble, Number(0.9))
			So(hintsOf(seg.ProsodyHints, HintPitch)[0].Value, ShouldResemble, Text("-3%"))

			seg = analyzeOne(engine, "Je suis triste.")
			So(hintsOf(seg.ProsodyHints, HintRate)[0].Value, ShouldResemble, Number(0.85))
			So(hintsOf(seg.ProsodyHints, HintPitch)[0].Value, ShouldResemble, Text("-5%"))
		})

		Convey("内容类型的语速", func() {
			seg := analyzeOne(engine, "La distance est de 10km.")
			So(hintsOf(seg.ProsodyHints, HintRate), ShouldResemble, []ProsodyHint{
				{Type: HintRate, Position: 0, Value: Number(0.85)},
			})

			seg = analyzeOne(engine, `Il dit "allons-y".`)
			So(hintsOf(seg.ProsodyHints, HintRate), ShouldResemble, []ProsodyHint{
				{Type: HintRate, Position: 0, Value: Number(1.1)},
			})
		})
	})
}
