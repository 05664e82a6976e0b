package prosody

import (
	"regexp"
	"strings"
)

type replacement struct {
	pattern *regexp.Regexp
	repl    string
}

// 加拿大法语朗读前的文本规整规则，按顺序执行
var canadianFrenchRules = []replacement{
	// 缩写
	{regexp.MustCompile(`\bM\.\s`), "Monsieur "},
	{regexp.MustCompile(`\bMme\.\s`), "Madame "},
	{regexp.MustCompile(`\bMlle\.\s`), "Mademoiselle "},
	{regexp.MustCompile(`\bDr\.\s`), "Docteur "},
	{regexp.MustCompile(`\bSte\.\s`), "Sainte "},
	{regexp.MustCompile(`\bSt\.\s`), "Saint "},

	// 货币
	{regexp.MustCompile(`(\d+)\$`), "${1} dollars"},

	// 90-99
	{regexp.MustCompile(`\b90\b`), "quatre-vingt-dix"},
	{regexp.MustCompile(`\b91\b`), "quatre-vingt-onze"},
	{regexp.MustCompile(`\b92\b`), "quatre-vingt-douze"},
	{regexp.MustCompile(`\b93\b`), "quatre-vingt-treize"},
	{regexp.MustCompile(`\b94\b`), "quatre-vingt-quatorze"},
	{regexp.MustCompile(`\b95\b`), "quatre-vingt-quinze"},
	{regexp.MustCompile(`\b96\b`), "quatre-vingt-seize"},
	{regexp.MustCompile(`\b97\b`), "quatre-vingt-dix-sept"},
	{regexp.MustCompile(`\b98\b`), "quatre-vingt-dix-huit"},
	{regexp.MustCompile(`\b99\b`), "quatre-vingt-dix-neuf"},

	// 网页残留的多余空白
	{regexp.MustCompile(`\s+`), " "},
}

// PreprocessCanadianFrench 展开常见缩写、货币与 90-99 的读法，并压缩空白
func PreprocessCanadianFrench(text string) string {
	for _, r := range canadianFrenchRules {
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return strings.TrimSpace(text)
}

// ShouldPreprocess 仅在开启韵律且语言为 fr-CA 时规整文本
func ShouldPreprocess(settings Settings, language string) bool {
	return settings.Enabled && strings.EqualFold(language, "fr-CA")
}
