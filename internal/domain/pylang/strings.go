package pylang

import "strings"

// Range is a half-open byte range relative to the start of a literal's text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one byte.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Intersect returns the overlap of r and o and whether it is non-empty.
func (r Range) Intersect(o Range) (Range, bool) {
	out := Range{Start: max(r.Start, o.Start), End: min(r.End, o.End)}

	return out, out.Start < out.End
}

// Substring returns the part of s covered by r.
func (r Range) Substring(s string) string {
	return s[r.Start:r.End]
}

// Quotes describes the delimiters of a single string literal.
type Quotes struct {
	Prefix string
	Quote  string
}

// Open returns the text before the literal's value.
func (q Quotes) Open() string {
	return q.Prefix + q.Quote
}

// Close returns the text after the literal's value.
func (q Quotes) Close() string {
	return q.Quote
}

// Raw reports whether escapes are disabled.
func (q Quotes) Raw() bool {
	return strings.ContainsAny(q.Prefix, "rR")
}

// Bytes reports whether the literal is a bytes literal.
func (q Quotes) Bytes() bool {
	return strings.ContainsAny(q.Prefix, "bB")
}

// DetectQuotes splits the prefix and quote off a single string literal. It
// returns false when text is not a complete literal.
func DetectQuotes(text string) (Quotes, bool) {
	i := 0
	for i < len(text) && i < 3 && strings.IndexByte("rRuUbBfF", text[i]) >= 0 {
		i++
	}

	rest := text[i:]

	for _, q := range []string{`'''`, `"""`, `'`, `"`} {
		if len(rest) >= 2*len(q) && strings.HasPrefix(rest, q) && strings.HasSuffix(rest, q) {
			return Quotes{Prefix: text[:i], Quote: q}, true
		}
	}

	return Quotes{}, false
}

// ValueRange returns the range of the literal's value between its quotes.
// Text that is not a literal yields the whole range.
func ValueRange(text string) Range {
	q, ok := DetectQuotes(text)
	if !ok {
		return Range{Start: 0, End: len(text)}
	}

	return Range{Start: len(q.Open()), End: len(text) - len(q.Close())}
}

// Placeholder is a format directive found in a literal.
type Placeholder struct {
	Range
	// Key is the mapping key of %(key)s or the field name of {key}.
	Key string
	// Args is how many positional values the directive consumes. %% and
	// doubled braces consume none.
	Args int
}

// PercentPlaceholders scans text for printf-style directives as understood
// by the % operator.
func PercentPlaceholders(text string) []Placeholder {
	value := ValueRange(text)

	var out []Placeholder

	for i := value.Start; i < value.End; i++ {
		if text[i] != '%' {
			continue
		}

		start := i
		j := i + 1
		p := Placeholder{Args: 1}

		if j < value.End && text[j] == '%' {
			out = append(out, Placeholder{Range: Range{Start: start, End: j + 1}})
			i = j

			continue
		}

		if j < value.End && text[j] == '(' {
			depth := 1
			k := j + 1

			for k < value.End && depth > 0 {
				switch text[k] {
				case '(':
					depth++
				case ')':
					depth--
				}

				k++
			}

			p.Key = text[j+1 : max(j+1, k-1)]
			j = k
		}

		for j < value.End && strings.IndexByte("#0- +", text[j]) >= 0 {
			j++
		}

		j = skipWidth(text, j, value.End, &p)

		if j < value.End && text[j] == '.' {
			j = skipWidth(text, j+1, value.End, &p)
		}

		for j < value.End && strings.IndexByte("hlL", text[j]) >= 0 {
			j++
		}

		if j < value.End {
			j++
		}

		p.Range = Range{Start: start, End: j}
		out = append(out, p)
		i = j - 1
	}

	return out
}

func skipWidth(text string, j, end int, p *Placeholder) int {
	if j < end && text[j] == '*' {
		p.Args++
		return j + 1
	}

	for j < end && text[j] >= '0' && text[j] <= '9' {
		j++
	}

	return j
}

// NewStylePlaceholders scans text for str.format replacement fields,
// including nested fields in format specs and doubled braces.
func NewStylePlaceholders(text string) []Placeholder {
	value := ValueRange(text)

	var out []Placeholder

	for i := value.Start; i < value.End; i++ {
		c := text[i]
		if c != '{' && c != '}' {
			continue
		}

		if i+1 < value.End && text[i+1] == c {
			out = append(out, Placeholder{Range: Range{Start: i, End: i + 2}})
			i++

			continue
		}

		if c == '}' {
			continue
		}

		depth := 1
		j := i + 1

		for j < value.End && depth > 0 {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
			}

			j++
		}

		field := text[i+1 : max(i+1, j-1)]
		if k := strings.IndexAny(field, "!:.["); k >= 0 {
			field = field[:k]
		}

		out = append(out, Placeholder{Range: Range{Start: i, End: j}, Key: field, Args: 1})
		i = j - 1
	}

	return out
}

// EscapeRanges returns the ranges of escape sequences in a literal. Raw
// literals have none.
func EscapeRanges(text string) []Range {
	q, ok := DetectQuotes(text)
	if ok && q.Raw() {
		return nil
	}

	value := ValueRange(text)

	var out []Range

	for i := value.Start; i < value.End; i++ {
		if text[i] != '\\' || i+1 >= value.End {
			continue
		}

		end := escapeEnd(text, i+1, value.End, q.Bytes())
		out = append(out, Range{Start: i, End: end})
		i = end - 1
	}

	return out
}

func escapeEnd(text string, j, end int, bytesLiteral bool) int {
	hex := func(n int) int {
		k := j + 1
		for k < end && k < j+1+n && isHex(text[k]) {
			k++
		}

		return k
	}

	switch c := text[j]; {
	case c >= '0' && c <= '7':
		k := j + 1
		for k < end && k < j+3 && text[k] >= '0' && text[k] <= '7' {
			k++
		}

		return k
	case c == 'x':
		return hex(2)
	case c == 'u' && !bytesLiteral:
		return hex(4)
	case c == 'U' && !bytesLiteral:
		return hex(8)
	case c == 'N' && !bytesLiteral && j+1 < end && text[j+1] == '{':
		if k := strings.IndexByte(text[j:end], '}'); k >= 0 {
			return j + k + 1
		}

		return end
	case c == '\r' && j+1 < end && text[j+1] == '\n':
		return j + 2
	}

	return j + 1
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
