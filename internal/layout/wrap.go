// internal/layout/wrap.go
package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Measurer returns the advance width of a cluster in layout units
type Measurer interface {
	Measure(cluster string) int
}

// MeasureString sums the cluster widths of s
func MeasureString(m Measurer, s string) int {
	w := 0
	for _, c := range Clusters(s) {
		w += m.Measure(c)
	}
	return w
}

// columns measures one column per cluster, used for printer font text blocks
type columns struct{}

func (columns) Measure(string) int { return 1 }

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept. Latin text breaks after whitespace; Thai text may also break
// between any two clusters. A run with no break opportunity that is still
// too wide is broken at the last cluster that fits.
func Wrap(text string, width int, m Measurer) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width, m)...)
	}
	return lines
}

func wrapParagraph(paragraph string, width int, m Measurer) []string {
	clusters := Clusters(paragraph)
	if len(clusters) == 0 {
		return []string{""}
	}

	var lines []string
	start := 0
	lineWidth := 0
	lastBreak := -1 // index of the first cluster after a break opportunity

	for i := 0; i < len(clusters); i++ {
		c := clusters[i]
		w := m.Measure(c)

		if i > start && canBreakBefore(clusters, i) {
			lastBreak = i
		}

		if lineWidth+w > width && i > start && !isSpace(c) {
			end := i
			if lastBreak > start {
				end = lastBreak
			}
			lines = append(lines, strings.TrimRightFunc(strings.Join(clusters[start:end], ""), unicode.IsSpace))

			start = end
			for start < len(clusters) && isSpace(clusters[start]) {
				start++
			}
			lastBreak = -1
			lineWidth = 0
			i = start - 1
			continue
		}
		lineWidth += w
	}

	if start < len(clusters) {
		lines = append(lines, strings.TrimRightFunc(strings.Join(clusters[start:], ""), unicode.IsSpace))
	}
	return lines
}

// canBreakBefore reports a break opportunity between clusters i-1 and i
func canBreakBefore(clusters []string, i int) bool {
	prev, cur := clusters[i-1], clusters[i]
	if isSpace(prev) && !isSpace(cur) {
		return true
	}
	return isThaiCluster(prev) && isThaiCluster(cur)
}

func isSpace(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return unicode.IsSpace(r)
}

func isThaiCluster(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return IsThai(r)
}
