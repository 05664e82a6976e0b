package prosody

import (
	"strings"
	"unicode"
)

// span 原文中的一个句段（rune 偏移，左闭右开）
type span struct {
	text  string
	start int
	end   int
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}

// splitSpans 以 . ! ? 换行 为句末分隔符切分文本
// 句末标点串跟随所在句段；没有句末标点的尾部文本单独成段；
// 句段去除首尾空白后为空则丢弃
func splitSpans(text string) []span {
	runes := []rune(text)
	var spans []span

	start := 0
	hasBody := false // 当前句段已出现非分隔符字符
	inTail := false  // 正处于正文之后的分隔符串中

	for i, r := range runes {
		if isTerminal(r) {
			if hasBody {
				inTail = true
			}
			continue
		}
		if inTail {
			spans = appendTrimmed(spans, runes, start, i)
			start = i
			inTail = false
		}
		hasBody = true
	}
	spans = appendTrimmed(spans, runes, start, len(runes))

	return spans
}

func appendTrimmed(spans []span, runes []rune, start, end int) []span {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	if start == end {
		return spans
	}
	return append(spans, span{
		text:  string(runes[start:end]),
		start: start,
		end:   end,
	})
}

// SplitSentences 把文本切分为去空白后的非空句子
// 空文本返回空切片；没有句末标点时返回整段文本
func SplitSentences(text string) []string {
	spans := splitSpans(text)
	sentences := make([]string, len(spans))
	for i, s := range spans {
		sentences[i] = s.text
	}
	return sentences
}

// PlainSegments 仅切句、不做分类与提示生成
// 关闭韵律时使用：所有句段视为 statement/neutral/narrative，且不带任何提示
func PlainSegments(text string) []TextSegment {
	spans := splitSpans(text)
	segments := make([]TextSegment, len(spans))
	for i, s := range spans {
		segments[i] = TextSegment{
			Text:          s.text,
			StartIndex:    s.start,
			EndIndex:      s.end,
			SentenceType:  SentenceStatement,
			EmotionalTone: ToneNeutral,
			ContentType:   ContentNarrative,
			ProsodyHints:  []ProsodyHint{},
		}
	}
	return segments
}

// WordCount 按空白分词计数
func WordCount(text string) int {
	return len(strings.Fields(text))
}
