package template

import (
	"strconv"
	"strings"
)

// segment is either fixed literal text or a range that expands to one of
// several decimal strings.
type segment struct {
	literal string
	values  []string
	isRange bool
}

// ExpandNumericList parses s as literal text interleaved with `[N..M]`
// ranges and returns the cross-product of all ranges, each substituted in
// place and concatenated with the surrounding literal text.
//
// A bracket group that is not a well-formed range (malformed, N > M,
// non-numeric or negative bound) is kept as literal text while any
// well-formed ranges around it still expand. If s holds no well-formed
// range at all, it is returned unchanged as the singleton result.
func ExpandNumericList(s string) []string {
	segments, ok := parseSegments(s)
	if !ok {
		return []string{s}
	}

	results := []string{""}
	for _, seg := range segments {
		if !seg.isRange {
			for i := range results {
				results[i] += seg.literal
			}
			continue
		}
		next := make([]string, 0, len(results)*len(seg.values))
		for _, prefix := range results {
			for _, v := range seg.values {
				next = append(next, prefix+v)
			}
		}
		results = next
	}
	return results
}

func parseSegments(s string) ([]segment, bool) {
	var segments []segment
	var lit strings.Builder

	flushLit := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '[' {
			lit.WriteByte(s[i])
			i++
			continue
		}

		end := strings.IndexByte(s[i:], ']')
		if end == -1 {
			// No closing bracket anywhere: treat the rest as literal '['.
			lit.WriteByte('[')
			i++
			continue
		}
		body := s[i+1 : i+end]
		lo, hi, ok := parseRangeBody(body)
		if !ok {
			// Not a well-formed range; '[' is literal, keep scanning from
			// the next rune.
			lit.WriteByte('[')
			i++
			continue
		}
		flushLit()
		values := make([]string, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			values = append(values, strconv.Itoa(n))
		}
		segments = append(segments, segment{values: values, isRange: true})
		i += end + 1
	}
	flushLit()

	for _, seg := range segments {
		if seg.isRange {
			return segments, true
		}
	}
	// No ranges found at all: this is not an expansion, signal failure so
	// the caller falls back to the singleton [s].
	return nil, false
}

func parseRangeBody(body string) (lo, hi int, ok bool) {
	parts := strings.SplitN(body, "..", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(parts[0])
	if err != nil || lo < 0 {
		return 0, 0, false
	}
	hi, err = strconv.Atoi(parts[1])
	if err != nil || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}
