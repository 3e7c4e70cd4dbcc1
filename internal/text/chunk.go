package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Strategy selects how Chunk groups text into segments.
type Strategy string

const (
	// StrategySmart packs whole paragraphs into chunks up to the limit and
	// only splits paragraphs that cannot fit on their own.
	StrategySmart Strategy = "smart"
	// StrategyParagraph emits one chunk per paragraph, splitting oversized ones.
	StrategyParagraph Strategy = "paragraph"
	// StrategySentence packs sentences into chunks up to the limit.
	StrategySentence Strategy = "sentence"
)

// DefaultMaxChars is the per-request character ceiling of the synthesis API.
const DefaultMaxChars = 3500

// ParseStrategy maps a config string to a Strategy, defaulting to smart.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyParagraph:
		return StrategyParagraph
	case StrategySentence:
		return StrategySentence
	default:
		return StrategySmart
	}
}

// Chunk normalizes s and splits it into an ordered sequence of segments,
// each at most maxChars runes long. Chunk boundaries prefer, in order,
// sentence terminators, newlines, clause punctuation and word boundaries;
// a single word longer than maxChars is hard-broken at the limit. Empty
// input yields an empty sequence and no chunk is ever empty.
func Chunk(s string, maxChars int, strategy Strategy) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	s = Normalize(s)
	if s == "" {
		return nil
	}
	switch strategy {
	case StrategyParagraph:
		return chunkByParagraphs(s, maxChars)
	case StrategySentence:
		return chunkBySentences(s, maxChars)
	default:
		return chunkSmart(s, maxChars)
	}
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// findSafeBreakPoint returns the index (in runes) at which r should be cut
// so that the head stays within maxChars. It searches backward for, in
// priority order: a sentence terminator, a newline, clause punctuation,
// any whitespace. When nothing qualifies it breaks exactly at maxChars.
//
// A terminator that ends an abbreviation-looking token ("U.S.", "Dr.",
// initials) is skipped. The heuristic also suppresses breaks after any
// short capitalized word followed by a period; a dictionary of known
// abbreviations would be more precise.
func findSafeBreakPoint(r []rune, maxChars int) int {
	if len(r) <= maxChars {
		return len(r)
	}

	// Breaking at i keeps r[:i+1], so i must stay below maxChars. len(r)
	// exceeds maxChars here, which also keeps i+1 in bounds for the guard.
	hi := maxChars - 1

	for i := hi; i >= 1; i-- {
		if !isSentenceEnd(r[i]) {
			continue
		}
		if isAbbreviationEnd(r, i) {
			continue
		}
		return i + 1
	}
	for i := hi; i >= 1; i-- {
		if r[i] == '\n' {
			return i + 1
		}
	}
	for i := hi; i >= 1; i-- {
		if r[i] == ',' || r[i] == ';' {
			return i + 1
		}
	}
	for i := hi; i >= 1; i-- {
		if unicode.IsSpace(r[i]) {
			return i + 1
		}
	}
	return maxChars
}

// isAbbreviationEnd reports whether the terminator at r[i] looks like the
// end of an abbreviation rather than a sentence: it is followed by
// whitespace and either directly preceded by an uppercase letter ("U.S.")
// or closes a capitalized token of at most three letters ("Dr.", "Mrs.").
func isAbbreviationEnd(r []rune, i int) bool {
	if i+1 >= len(r) || !unicode.IsSpace(r[i+1]) {
		return false
	}
	if unicode.IsUpper(r[i-1]) {
		return true
	}
	j := i - 1
	for j >= 0 && unicode.IsLetter(r[j]) {
		j--
	}
	tok := r[j+1 : i]
	return len(tok) > 0 && len(tok) <= 3 && unicode.IsUpper(tok[0])
}

// splitLong repeatedly cuts s at safe break points until every piece fits.
func splitLong(s string, maxChars int) []string {
	var out []string
	r := []rune(s)
	for len(r) > 0 {
		bp := findSafeBreakPoint(r, maxChars)
		if part := strings.TrimSpace(string(r[:bp])); part != "" {
			out = append(out, part)
		}
		r = []rune(strings.TrimSpace(string(r[bp:])))
	}
	return out
}

// splitParagraphs groups consecutive non-blank lines into paragraphs,
// joining the lines of a paragraph with single spaces.
func splitParagraphs(s string) []string {
	var paras []string
	var cur strings.Builder

	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			paras = append(paras, p)
		}
		cur.Reset()
	}

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cur.WriteString(line)
			cur.WriteByte(' ')
		} else if cur.Len() > 0 {
			flush()
		}
	}
	flush()
	return paras
}

// splitSentences cuts s after every sentence terminator that is followed
// by whitespace.
func splitSentences(s string) []string {
	var out []string
	r := []rune(s)
	start := 0
	for i := 0; i < len(r); i++ {
		if !isSentenceEnd(r[i]) || i+1 >= len(r) || !unicode.IsSpace(r[i+1]) {
			continue
		}
		out = append(out, string(r[start:i+1]))
		j := i + 1
		for j < len(r) && unicode.IsSpace(r[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(r) {
		out = append(out, string(r[start:]))
	}
	return out
}

func chunkSmart(s string, maxChars int) []string {
	var chunks []string
	var cur string

	for _, para := range splitParagraphs(s) {
		if cur != "" && utf8.RuneCountInString(cur)+utf8.RuneCountInString(para)+1 > maxChars {
			chunks = append(chunks, strings.TrimSpace(cur))
			cur = ""
		}
		if utf8.RuneCountInString(para) > maxChars {
			if cur != "" {
				chunks = append(chunks, strings.TrimSpace(cur))
				cur = ""
			}
			chunks = append(chunks, splitLong(para, maxChars)...)
			continue
		}
		if cur != "" {
			cur += " " + para
		} else {
			cur = para
		}
	}
	if c := strings.TrimSpace(cur); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

func chunkByParagraphs(s string, maxChars int) []string {
	var chunks []string
	for _, para := range splitParagraphs(s) {
		if utf8.RuneCountInString(para) <= maxChars {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, splitLong(para, maxChars)...)
	}
	return chunks
}

func chunkBySentences(s string, maxChars int) []string {
	var chunks []string
	var cur string

	for _, sentence := range splitSentences(s) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if cur != "" && utf8.RuneCountInString(cur)+utf8.RuneCountInString(sentence)+1 > maxChars {
			chunks = append(chunks, strings.TrimSpace(cur))
			cur = ""
		}
		if utf8.RuneCountInString(sentence) > maxChars {
			if cur != "" {
				chunks = append(chunks, strings.TrimSpace(cur))
				cur = ""
			}
			chunks = append(chunks, splitLong(sentence, maxChars)...)
			continue
		}
		if cur != "" {
			cur += " " + sentence
		} else {
			cur = sentence
		}
	}
	if c := strings.TrimSpace(cur); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}
