package prosody

import (
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"
)

var percentPattern = regexp.MustCompile(`([+-]?\d+)%`)

// ApplyProsodyToSpeech 把句段提示叠加到基础语音参数上
// 依次折叠每条提示并在每一步后钳制，最后按 intensity 向基础值插值：
// final = base + (adjusted - base) * intensity
func (e *Engine) ApplyProsodyToSpeech(base SpeechParams, seg TextSegment) SpeechParams {
	base = base.Clamp()
	adjusted := base

	for _, h := range seg.ProsodyHints {
		switch h.Type {
		case HintPitch:
			if pct, ok := parsePercent(h.Value); ok {
				adjusted.Pitch = clamp(adjusted.Pitch*(1+pct/100), MinPitch, MaxPitch)
			}
		case HintRate:
			if v, ok := h.Value.Float(); ok {
				adjusted.Rate = clamp(adjusted.Rate*v, MinRate, MaxRate)
			}
		case HintVolume:
			if v, ok := h.Value.Float(); ok {
				adjusted.Volume = clamp(adjusted.Volume*v, MinVolume, MaxVolume)
			}
		}
	}

	k := e.settings.Intensity
	return SpeechParams{
		Pitch:  base.Pitch + (adjusted.Pitch-base.Pitch)*k,
		Rate:   base.Rate + (adjusted.Rate-base.Rate)*k,
		Volume: base.Volume + (adjusted.Volume-base.Volume)*k,
	}
}

func parsePercent(v HintValue) (float64, bool) {
	if !v.IsText() {
		return 0, false
	}
	m := percentPattern.FindStringSubmatch(v.String())
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// PausesForSegment 返回句段中带时长的停顿，按位置升序
func (e *Engine) PausesForSegment(seg TextSegment) []Pause {
	return SegmentPauses(seg)
}

// SegmentPauses 返回句段中带时长的停顿，按位置升序（位置相同保持插入顺序）
func SegmentPauses(seg TextSegment) []Pause {
	var pauses []Pause
	for _, h := range seg.ProsodyHints {
		if h.Type == HintPause && h.Duration > 0 {
			pauses = append(pauses, Pause{Position: h.Position, Duration: h.Duration})
		}
	}
	sort.SliceStable(pauses, func(i, j int) bool {
		return pauses[i].Position < pauses[j].Position
	})
	return pauses
}

// TrailingPause 返回位于句段最后 window 个字符内的最长停顿
// 没有符合条件的停顿时 ok 为 false
func TrailingPause(seg TextSegment, window int) (ms int, ok bool) {
	threshold := utf8.RuneCountInString(seg.Text) - window
	for _, p := range SegmentPauses(seg) {
		if p.Position >= threshold && (!ok || p.Duration > ms) {
			ms = p.Duration
			ok = true
		}
	}
	return ms, ok
}
