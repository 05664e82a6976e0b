package prosody

import (
	"regexp"
	"strings"
)

// 列表标记：数字、项目符号、破折号，或 "a)" 形式的字母编号
var listMarkerPattern = regexp.MustCompile(`^(?:[\d\-•·*]|[a-z]\))`)

// 数字+单位
var technicalPattern = regexp.MustCompile(`\d+%|\d+°|°C|°F|\d+km|\d+m`)

var upperRunPattern = regexp.MustCompile(`[A-Z]{2,}`)

// 情感关键词（法语），按优先级检查
var (
	excitedWords = []string{"génial", "super", "incroyable", "fantastique", "excellent", "bravo", "hourra", "wow"}
	seriousWords = []string{"important", "crucial", "essentiel", "critique", "attention", "grave"}
	sadWords     = []string{"triste", "malheureux", "désolé", "regret", "peine", "dommage"}
)

// DetectSentenceType 判断句子类型
// 检查顺序：? → ! → 列表标记 → 陈述
func DetectSentenceType(sentence string) SentenceType {
	if strings.Contains(sentence, "?") {
		return SentenceQuestion
	}
	if strings.Contains(sentence, "!") {
		return SentenceExclamation
	}
	if listMarkerPattern.MatchString(strings.TrimSpace(sentence)) {
		return SentenceListItem
	}
	return SentenceStatement
}

// DetectEmotionalTone 判断情感基调
// 关键词按 excited、serious、sad 顺序匹配，首个命中即返回；
// 都未命中时，出现省略号或连续大写字母视为 dramatic
func DetectEmotionalTone(sentence string) EmotionalTone {
	lower := strings.ToLower(sentence)

	switch {
	case containsAny(lower, excitedWords):
		return ToneExcited
	case containsAny(lower, seriousWords):
		return ToneSerious
	case containsAny(lower, sadWords):
		return ToneSad
	case strings.Contains(sentence, "..."), upperRunPattern.MatchString(sentence):
		return ToneDramatic
	}
	return ToneNeutral
}

// DetectContentType 判断内容类型
func DetectContentType(sentence string) ContentType {
	if strings.ContainsAny(sentence, `"«»`) {
		return ContentDialogue
	}
	if technicalPattern.MatchString(sentence) {
		return ContentTechnical
	}
	if listMarkerPattern.MatchString(strings.TrimSpace(sentence)) {
		return ContentList
	}
	return ContentNarrative
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
