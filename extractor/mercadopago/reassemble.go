package mercadopago

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	JoinerWrapped = "wrapped"
	JoinerPlain   = "plain"
)

// LineJoiner turns the physical lines produced by PDF text extraction into
// candidate transaction lines, one per element, in source order.
type LineJoiner interface {
	Join(lines []string) []string
}

func newJoiner(name string, cfg config) (LineJoiner, error) {
	switch name {
	case "", JoinerWrapped:
		return WrappedJoiner{Start: cfg.TransactionStart, WrappedStart: cfg.WrappedTransactionStart}, nil
	case JoinerPlain:
		return PlainJoiner{Start: cfg.TransactionStart}, nil
	}
	return nil, fmt.Errorf("unknown line joiner %q", name)
}

// WrappedJoiner repairs the layout where the description column wraps around the
// date row: one fragment is printed on the line above and one on the line below,
// and the date is directly followed by the operation id. Such a row is rebuilt as
//
//	<date> <line above> <line below> <rest of the date row>
//
// This depends on the exact column layout of the statement and will glue unrelated
// text together if the layout changes. Other dated lines are kept as they are and
// undated lines are dropped.
type WrappedJoiner struct {
	Start        *regexp.Regexp
	WrappedStart *regexp.Regexp
}

func (j WrappedJoiner) Join(lines []string) []string {
	joined := []string{}

	for i, line := range lines {
		if !j.Start.MatchString(line) {
			continue
		}
		if !j.WrappedStart.MatchString(line) {
			joined = append(joined, line)
			continue
		}

		var previous, next string
		if i > 0 {
			previous = lines[i-1]
		}
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		fields := strings.Split(line, " ")
		joined = append(joined, fields[0]+" "+previous+" "+next+" "+strings.Join(fields[1:], " "))
	}

	return joined
}

// PlainJoiner keeps dated lines only, for extractions that do not wrap descriptions.
type PlainJoiner struct {
	Start *regexp.Regexp
}

func (j PlainJoiner) Join(lines []string) []string {
	kept := []string{}
	for _, line := range lines {
		if j.Start.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return kept
}
