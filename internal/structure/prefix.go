package structure

import (
	"sort"
	"strings"
)

// maxPrefixSamples bounds the numbering survey kept in the report.
const maxPrefixSamples = 50

// maxPrefixExample truncates survey example lines, in runes.
const maxPrefixExample = 140

// PrefixCounter surveys section-numbering prefixes across scanned pages.
// The result is diagnostic: it shows a reviewer which numbering scheme the
// document uses without feeding back into resolution.
type PrefixCounter struct {
	counts   map[string]int
	examples map[string]string
}

// NewPrefixCounter returns an empty survey.
func NewPrefixCounter() *PrefixCounter {
	return &PrefixCounter{
		counts:   make(map[string]int),
		examples: make(map[string]string),
	}
}

// AddLine records the line's numbering prefix, if it has one.
func (c *PrefixCounter) AddLine(line string) {
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return
	}
	m := numberingRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	prefix := m[1]
	c.counts[prefix]++
	if _, ok := c.examples[prefix]; !ok {
		example := line
		if r := []rune(example); len(r) > maxPrefixExample {
			example = string(r[:maxPrefixExample])
		}
		c.examples[prefix] = example
	}
}

// Top returns the most common prefixes, capped at maxPrefixSamples, ordered
// by count descending then prefix ascending for determinism.
func (c *PrefixCounter) Top() []PrefixSample {
	out := make([]PrefixSample, 0, len(c.counts))
	for prefix, n := range c.counts {
		out = append(out, PrefixSample{
			Prefix:  prefix,
			Count:   n,
			Example: c.examples[prefix],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Prefix < out[j].Prefix
	})
	if len(out) > maxPrefixSamples {
		out = out[:maxPrefixSamples]
	}
	return out
}
