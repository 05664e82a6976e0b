package prosody

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDetectSentenceType(t *testing.T) {
	Convey("DetectSentenceType 按顺序判断句子类型", t, func() {
		So(DetectSentenceType("Is this a question?"), ShouldEqual, SentenceQuestion)
		So(DetectSentenceType("Wow!"), ShouldEqual, SentenceExclamation)
		So(DetectSentenceType("1. First item"), ShouldEqual, SentenceListItem)
		So(DetectSentenceType("A plain sentence."), ShouldEqual, SentenceStatement)

		Convey("问号优先于感叹号", func() {
			So(DetectSentenceType("Quoi?!"), ShouldEqual, SentenceQuestion)
		})

		Convey("感叹号优先于列表标记", func() {
			So(DetectSentenceType("- Attention!"), ShouldEqual, SentenceExclamation)
		})

		Convey("各种列表标记", func() {
			for _, s := range []string{"- tiret", "• puce", "· point", "* étoile", "b) lettre", "  3 pommes"} {
				So(DetectSentenceType(s), ShouldEqual, SentenceListItem)
			}
		})
	})
}

func TestDetectEmotionalTone(t *testing.T) {
	Convey("DetectEmotionalTone 首个命中的类别胜出", t, func() {
		So(DetectEmotionalTone("C'est GÉNIAL"), ShouldEqual, ToneExcited)
		So(DetectEmotionalTone("Un point important."), ShouldEqual, ToneSerious)
		So(DetectEmotionalTone("Quel dommage."), ShouldEqual, ToneSad)
		So(DetectEmotionalTone("Et soudain..."), ShouldEqual, ToneDramatic)
		So(DetectEmotionalTone("Il a crié NON."), ShouldEqual, ToneDramatic)
		So(DetectEmotionalTone("Il fait beau."), ShouldEqual, ToneNeutral)

		Convey("excited 优先于 serious 与 sad", func() {
			So(DetectEmotionalTone("Super, mais c'est important et triste."), ShouldEqual, ToneExcited)
		})

		Convey("serious 优先于 sad", func() {
			So(DetectEmotionalTone("Une perte grave et triste."), ShouldEqual, ToneSerious)
		})

		Convey("关键词命中时不再判断 dramatic", func() {
			So(DetectEmotionalTone("Bravo... VRAIMENT."), ShouldEqual, ToneExcited)
		})

		Convey("感叹号本身不决定情感", func() {
			So(DetectEmotionalTone("Bonjour!"), ShouldEqual, ToneNeutral)
		})
	})
}

func TestDetectContentType(t *testing.T) {
	Convey("DetectContentType 判断内容类型", t, func() {
		So(DetectContentType(`Il a dit "bonjour".`), ShouldEqual, ContentDialogue)
		So(DetectContentType("« Salut », dit-elle."), ShouldEqual, ContentDialogue)
		So(DetectContentType("Il fait 25°C dehors."), ShouldEqual, ContentTechnical)
		So(DetectContentType("Une hausse de 3%."), ShouldEqual, ContentTechnical)
		So(DetectContentType("Encore 12km à faire."), ShouldEqual, ContentTechnical)
		So(DetectContentType("- acheter du pain"), ShouldEqual, ContentList)
		So(DetectContentType("Une histoire simple."), ShouldEqual, ContentNarrative)

		Convey("对话优先于技术性内容", func() {
			So(DetectContentType("« 10% de plus »"), ShouldEqual, ContentDialogue)
		})

		Convey("技术性内容优先于列表", func() {
			So(DetectContentType("1. Chauffer à 180°"), ShouldEqual, ContentTechnical)
		})
	})
}
