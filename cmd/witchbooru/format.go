package main

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/witchbooru/witchbooru/tagger"
)

const (
	scoreWidth    = 14
	scoreBarWidth = 8
	separator     = "─"
	wikiURL       = "https://danbooru.donmai.us/wiki_pages/"
)

// formatPrediction renders general and character tags side by side. Tag
// names are terminal hyperlinks to their wiki pages.
func formatPrediction(p *tagger.Prediction) string {
	const leftTitle, rightTitle = "General tag", "Character"
	leftWidth := nameWidth(leftTitle, p.General)
	rightWidth := nameWidth(rightTitle, p.Character)

	var b strings.Builder
	fmt.Fprintf(&b, " %-*s %-*s   %-*s %-*s \n",
		leftWidth, leftTitle, scoreWidth, "Score",
		rightWidth, rightTitle, scoreWidth, "Score")
	fmt.Fprintf(&b, "%s %s",
		strings.Repeat(separator, leftWidth+scoreWidth+3),
		strings.Repeat(separator, rightWidth+scoreWidth+3))

	rows := max(len(p.General), len(p.Character))
	for i := 0; i < rows; i++ {
		var left, right string
		if i < len(p.General) {
			left = formatTag(p.General[i], leftWidth)
		}
		if i < len(p.Character) {
			right = formatTag(p.Character[i], rightWidth)
		}
		fmt.Fprintf(&b, "\n %-*s   %s ", leftWidth+scoreWidth+1, left, right)
	}
	return b.String()
}

func nameWidth(title string, tags []tagger.Tag) int {
	w := utf8.RuneCountInString(title)
	for _, t := range tags {
		w = max(w, utf8.RuneCountInString(t.Name))
	}
	return w
}

func formatTag(t tagger.Tag, width int) string {
	pad := max(width-utf8.RuneCountInString(t.Name), 0)
	// OSC 8 hyperlink; escape sequences do not count towards the padding
	name := "\x1b]8;;" + wikiURL + encodeURIComponent(t.Name) + "\x1b\\" + t.Name + "\x1b]8;;\x1b\\" + strings.Repeat(" ", pad)

	bars := int(math.Round(float64(t.Score * scoreBarWidth)))
	bars = min(max(bars, 0), scoreBarWidth)
	bar := strings.Repeat("▄", bars) + strings.Repeat(" ", scoreBarWidth-bars)

	return fmt.Sprintf("%s %s %*.3f", name, bar, scoreWidth-scoreBarWidth-1, t.Score)
}

const uriReserved = " \"#$%&+,/:;<=>?@[\\]^`{|}"

// encodeURIComponent percent-encodes s the way the JavaScript function of
// the same name does.
func encodeURIComponent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c >= 0x7f || strings.IndexByte(uriReserved, c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
