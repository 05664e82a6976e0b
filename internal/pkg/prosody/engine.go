package prosody

// Engine 韵律引擎
// 持有一份已钳制的设置快照，可在多个 goroutine 中并发使用
type Engine struct {
	settings Settings
}

// NewEngine 创建韵律引擎
func NewEngine(settings Settings) *Engine {
	return &Engine{settings: settings.Normalize()}
}

// Settings 返回引擎使用的设置
func (e *Engine) Settings() Settings {
	return e.settings
}

// Analyze 切句、分类并生成韵律提示
func (e *Engine) Analyze(text string) []TextSegment {
	spans := splitSpans(text)
	segments := make([]TextSegment, len(spans))
	for i, s := range spans {
		segments[i] = e.analyzeSentence(s)
	}
	return segments
}

func (e *Engine) analyzeSentence(s span) TextSegment {
	st := DetectSentenceType(s.text)
	tone := DetectEmotionalTone(s.text)
	ct := DetectContentType(s.text)

	return TextSegment{
		Text:          s.text,
		StartIndex:    s.start,
		EndIndex:      s.end,
		SentenceType:  st,
		EmotionalTone: tone,
		ContentType:   ct,
		ProsodyHints:  e.GenerateHints(s.text, st, tone, ct),
	}
}
