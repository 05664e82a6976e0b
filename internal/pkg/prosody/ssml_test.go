package prosody

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateSSML(t *testing.T) {
	Convey("GenerateSSML 序列化句段", t, func() {
		engine := NewEngine(DefaultSettings())

		Convey("空句段", func() {
			So(engine.GenerateSSML(nil), ShouldEqual, "<speak></speak>")
		})

		Convey("只有停顿的句段追加 break", func() {
			ssml := engine.GenerateSSML(engine.Analyze("Hello, world."))
			So(ssml, ShouldEqual, `<speak>Hello, world.<break time="400ms"/></speak>`)
		})

		Convey("感叹句包含 prosody 与 emphasis", func() {
			ssml := engine.GenerateSSML(engine.Analyze("Wow!"))
			So(ssml, ShouldEqual,
				`<speak><emphasis level="strong"><prosody pitch="+5%" rate="1.15x" volume="110%">Wow!</prosody></emphasis><break time="400ms"/></speak>`)
		})

		Convey("每类取第一条提示", func() {
			seg := TextSegment{Text: "abc", ProsodyHints: []ProsodyHint{
				{Type: HintRate, Value: Number(0.9)},
				{Type: HintRate, Value: Number(1.5)},
				{Type: HintEmphasis, Position: 1, Value: Text("moderate")},
				{Type: HintEmphasis, Position: 0, Value: Text("strong")},
			}}
			So(engine.GenerateSSML([]TextSegment{seg}), ShouldEqual,
				`<speak><emphasis level="moderate"><prosody rate="0.9x">abc</prosody></emphasis></speak>`)
		})

		Convey("break 取最后 2 个字符内的最长停顿", func() {
			seg := TextSegment{Text: "abcdef", ProsodyHints: []ProsodyHint{
				{Type: HintPause, Position: 3, Value: Number(900), Duration: 900},
				{Type: HintPause, Position: 4, Value: Number(200), Duration: 200},
				{Type: HintPause, Position: 6, Value: Number(300), Duration: 300},
			}}
			So(engine.GenerateSSML([]TextSegment{seg}), ShouldEqual, `<speak>abcdef<break time="300ms"/></speak>`)
		})

		Convey("转义 XML 特殊字符", func() {
			seg := TextSegment{Text: "Tom & Jerry <3"}
			So(engine.GenerateSSML([]TextSegment{seg}), ShouldEqual, `<speak>Tom &amp; Jerry &lt;3</speak>`)
		})

		Convey("多个句段依次拼接", func() {
			ssml := engine.GenerateSSML(engine.Analyze("Bonjour! Comment allez-vous?"))
			So(ssml, ShouldEqual,
				`<speak><emphasis level="strong"><prosody volume="110%">Bonjour!</prosody></emphasis><break time="400ms"/>`+
					`<prosody pitch="+10%">Comment allez-vous?</prosody><break time="400ms"/></speak>`)
		})
	})
}

func TestPreprocessCanadianFrench(t *testing.T) {
	Convey("PreprocessCanadianFrench 规整加拿大法语文本", t, func() {
		So(PreprocessCanadianFrench("M. Tremblay a payé 95$ à Mme. Roy."), ShouldEqual,
			"Monsieur Tremblay a payé quatre-vingt-quinze dollars à Madame Roy.")
		So(PreprocessCanadianFrench("Le Dr. Gagnon habite rue Ste. Catherine, près de St. Laurent."), ShouldEqual,
			"Le Docteur Gagnon habite rue Sainte Catherine, près de Saint Laurent.")
		So(PreprocessCanadianFrench("Mlle. Côté a 91 ans"), ShouldEqual, "Mademoiselle Côté a quatre-vingt-onze ans")
		So(PreprocessCanadianFrench("  un\n\n\ndeux   trois  "), ShouldEqual, "un deux trois")
		So(PreprocessCanadianFrench("190 et 990"), ShouldEqual, "190 et 990")

		Convey("仅在开启韵律且语言为 fr-CA 时处理", func() {
			s := DefaultSettings()
			So(ShouldPreprocess(s, "fr-CA"), ShouldBeTrue)
			So(ShouldPreprocess(s, "fr-FR"), ShouldBeFalse)
			s.Enabled = false
			So(ShouldPreprocess(s, "fr-CA"), ShouldBeFalse)
		})
	})
}
