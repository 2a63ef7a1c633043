// ABOUTME: Podcast script segments and playback-position mapping
// ABOUTME: Maps elapsed playback time to the active speaker turn
package script

import "unicode/utf8"

// Speaker identifies which podcast host a segment belongs to.
type Speaker int

const (
	SpeakerA Speaker = iota
	SpeakerB
)

// Label returns the display name for a speaker.
func (s Speaker) Label() string {
	if s == SpeakerA {
		return "Host A"
	}
	return "Host B"
}

// SpeakerFor returns the speaker for a segment position. Turns alternate:
// even indexes belong to Host A, odd to Host B.
func SpeakerFor(index int) Speaker {
	if index%2 == 0 {
		return SpeakerA
	}
	return SpeakerB
}

// ActiveIndex maps the current playback position to the segment being
// spoken. Each segment is weighted by its character count, a proxy for
// spoken duration that assumes a uniform speaking rate. Boundaries are
// inclusive on the upper end: a position exactly at a segment's end ratio
// still belongs to that segment.
//
// Degenerate inputs (zero duration, empty script, all-empty segments)
// return index 0.
func ActiveIndex(currentTime, duration float64, segments []string) int {
	if duration <= 0 || len(segments) == 0 {
		return 0
	}

	totalChars := 0
	for _, seg := range segments {
		totalChars += utf8.RuneCountInString(seg)
	}
	if totalChars == 0 {
		return 0
	}

	progress := currentTime / duration

	charsSoFar := 0
	for i, seg := range segments {
		charsSoFar += utf8.RuneCountInString(seg)
		endRatio := float64(charsSoFar) / float64(totalChars)
		if progress <= endRatio {
			return i
		}
	}

	// Floating rounding can leave progress just past 1.0.
	return len(segments) - 1
}
