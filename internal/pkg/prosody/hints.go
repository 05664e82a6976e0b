package prosody

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// 基础停顿时长（毫秒），实际时长再乘以 PauseMultiplier
const (
	commaPauseMs     = 200
	terminalPauseMs  = 400
	ellipsisPauseMs  = 600
	dramaticPauseMs  = 300
	listPauseMs      = 300
	breathingPauseMs = 250

	// 超过该词数的句子在中点插入换气停顿
	breathingWordThreshold = 20
)

var (
	capsWordPattern    = regexp.MustCompile(`\b[A-Z]{2,}\b`)
	terminalEndPattern = regexp.MustCompile(`[.!?]$`)
)

// 强调词，大小写不敏感，整词匹配
var intensifierPatterns = compileWordPatterns(
	"très", "vraiment", "absolument", "jamais", "toujours", "extrêmement",
)

func compileWordPatterns(words ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return patterns
}

// GenerateHints 按固定规则顺序为句子生成韵律提示，规则之间可叠加
func (e *Engine) GenerateHints(sentence string, st SentenceType, tone EmotionalTone, ct ContentType) []ProsodyHint {
	hints := make([]ProsodyHint, 0, 8)
	length := utf8.RuneCountInString(sentence)

	// 1. 逗号停顿
	for i, r := range []rune(sentence) {
		if r == ',' {
			hints = append(hints, e.pause(i, commaPauseMs))
		}
	}

	// 2. 句末标点停顿
	if terminalEndPattern.MatchString(sentence) {
		hints = append(hints, e.pause(length-1, terminalPauseMs))
	}

	// 3. 省略号停顿
	for _, pos := range runeOffsets(sentence, "...") {
		hints = append(hints, e.pause(pos, ellipsisPauseMs))
	}

	// 4. 疑问句句尾升调
	if st == SentenceQuestion {
		hints = append(hints, ProsodyHint{Type: HintPitch, Position: max(length-5, 0), Value: Text("+10%")})
	}

	// 5. 感叹句整句重读并提高音量
	if st == SentenceExclamation {
		hints = append(hints,
			ProsodyHint{Type: HintEmphasis, Position: 0, Value: Text("strong")},
			ProsodyHint{Type: HintVolume, Position: 0, Value: Number(1.1)},
		)
	}

	// 6. 重音识别
	if e.settings.EmphasisDetection {
		for _, pos := range patternOffsets(sentence, capsWordPattern) {
			hints = append(hints, ProsodyHint{Type: HintEmphasis, Position: pos, Value: Text("strong")})
		}
		for _, p := range intensifierPatterns {
			for _, pos := range patternOffsets(sentence, p) {
				hints = append(hints, ProsodyHint{Type: HintEmphasis, Position: pos, Value: Text("moderate")})
			}
		}
	}

	// 7. 情感基调
	switch tone {
	case ToneExcited:
		hints = append(hints,
			ProsodyHint{Type: HintRate, Position: 0, Value: Number(1.15)},
			ProsodyHint{Type: HintPitch, Position: 0, Value: Text("+5%")},
		)
	case ToneSerious:
		hints = append(hints,
			ProsodyHint{Type: HintRate, Position: 0, Value: Number(0.9)},
			ProsodyHint{Type: HintPitch, Position: 0, Value: Text("-3%")},
		)
	case ToneSad:
		hints = append(hints,
			ProsodyHint{Type: HintRate, Position: 0, Value: Number(0.85)},
			ProsodyHint{Type: HintPitch, Position: 0, Value: Text("-5%")},
		)
	case ToneDramatic:
		hints = append(hints, e.pause(0, dramaticPauseMs))
	}

	// 8. 内容类型
	switch ct {
	case ContentTechnical:
		hints = append(hints, ProsodyHint{Type: HintRate, Position: 0, Value: Number(0.85)})
	case ContentDialogue:
		hints = append(hints, ProsodyHint{Type: HintRate, Position: 0, Value: Number(1.1)})
	case ContentList:
		hints = append(hints, e.pause(length, listPauseMs))
	}

	// 9. 长句换气
	if e.settings.NaturalPacing && WordCount(sentence) > breathingWordThreshold {
		hints = append(hints, e.pause(length/2, breathingPauseMs))
	}

	return hints
}

// pause 生成按倍率缩放后的停顿提示
func (e *Engine) pause(position, baseMs int) ProsodyHint {
	ms := int(math.Round(float64(baseMs) * e.settings.PauseMultiplier))
	return ProsodyHint{
		Type:     HintPause,
		Position: position,
		Value:    Number(float64(ms)),
		Duration: ms,
	}
}

// runeOffsets 返回 sub 在 s 中每次（不重叠）出现的 rune 偏移
func runeOffsets(s, sub string) []int {
	var offsets []int
	byteOff := 0
	runeOff := 0
	for {
		i := strings.Index(s[byteOff:], sub)
		if i < 0 {
			return offsets
		}
		runeOff += utf8.RuneCountInString(s[byteOff : byteOff+i])
		offsets = append(offsets, runeOff)
		runeOff += utf8.RuneCountInString(sub)
		byteOff += i + len(sub)
	}
}

// patternOffsets 返回正则每个匹配起点的 rune 偏移
func patternOffsets(s string, p *regexp.Regexp) []int {
	matches := p.FindAllStringIndex(s, -1)
	offsets := make([]int, len(matches))
	for i, m := range matches {
		offsets[i] = utf8.RuneCountInString(s[:m[0]])
	}
	return offsets
}
