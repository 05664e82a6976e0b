package prosody

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SSML 中句段末尾停顿的取值窗口（字符数）
const ssmlBreakWindow = 2

var ssmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// GenerateSSML 把句段序列化为 SSML 文档
// pitch/rate/volume 各取第一条提示生成 <prosody>，存在重音提示时外层包 <emphasis>（取第一条的级别），
// 句段最后 2 个字符内的最长停顿追加为 <break>
func (e *Engine) GenerateSSML(segments []TextSegment) string {
	var b strings.Builder
	b.WriteString("<speak>")

	for _, seg := range segments {
		body := ssmlEscaper.Replace(seg.Text)

		var pitch, rate, volume, emphasis *ProsodyHint
		for i := range seg.ProsodyHints {
			h := &seg.ProsodyHints[i]
			switch h.Type {
			case HintPitch:
				if pitch == nil {
					pitch = h
				}
			case HintRate:
				if rate == nil {
					rate = h
				}
			case HintVolume:
				if volume == nil {
					volume = h
				}
			case HintEmphasis:
				if emphasis == nil {
					emphasis = h
				}
			}
		}

		var attrs strings.Builder
		if pitch != nil {
			fmt.Fprintf(&attrs, ` pitch="%s"`, pitch.Value.String())
		}
		if rate != nil {
			fmt.Fprintf(&attrs, ` rate="%s"`, rateAttr(rate.Value))
		}
		if volume != nil {
			fmt.Fprintf(&attrs, ` volume="%s"`, volumeAttr(volume.Value))
		}
		if attrs.Len() > 0 {
			body = "<prosody" + attrs.String() + ">" + body + "</prosody>"
		}

		if emphasis != nil {
			body = fmt.Sprintf(`<emphasis level="%s">%s</emphasis>`, emphasis.Value.String(), body)
		}

		b.WriteString(body)

		if ms, ok := TrailingPause(seg, ssmlBreakWindow); ok {
			fmt.Fprintf(&b, `<break time="%dms"/>`, ms)
		}
	}

	b.WriteString("</speak>")
	return b.String()
}

func rateAttr(v HintValue) string {
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64) + "x"
	}
	return v.String()
}

func volumeAttr(v HintValue) string {
	if f, ok := v.Float(); ok {
		return strconv.Itoa(int(math.Round(f*100))) + "%"
	}
	return v.String()
}
