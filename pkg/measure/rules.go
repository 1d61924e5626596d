package measure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type conversion int

const (
	convFloat conversion = iota
	convInt
	convCount // integer or an "undefined" sentinel token
	convFlag  // marker only, no payload
)

// rule maps a marker phrase to the tokens it extracts. Rules are applied
// in table order and a single line may satisfy several of them.
type rule[T any] struct {
	marker  string
	require string // second phrase that must also appear
	reject  string // phrase that must not appear
	field   string
	tokens  []int
	// follow > 0 reads tokens from that many following lines instead of
	// the marker line.
	follow    int
	conv      conversion
	undefined string // convCount token meaning "undefined"
	stop      bool   // end the scan after this rule fires
	set       func(res *T, v values)
}

// values holds the converted tokens of one rule match, in file order.
type values struct {
	floats []float64
	ints   []int
	count  Count
}

func (r *rule[T]) matches(line string) bool {
	if !strings.Contains(line, r.marker) {
		return false
	}
	if r.require != "" && !strings.Contains(line, r.require) {
		return false
	}
	if r.reject != "" && strings.Contains(line, r.reject) {
		return false
	}
	return true
}

func (r *rule[T]) extract(line string, lines *lineReader) (values, error) {
	var v values
	if r.conv == convFlag {
		return v, nil
	}
	if r.follow == 0 {
		return v, r.convert(&v, strings.Fields(line), lines.n)
	}

	for i := 0; i < r.follow; i++ {
		next, ok := lines.next()
		if !ok {
			if err := lines.err(); err != nil {
				return v, err
			}
			return v, &ParseError{Field: r.field, Line: lines.n + 1, Err: ErrUnexpectedEOF}
		}
		if err := r.convert(&v, strings.Fields(next), lines.n); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (r *rule[T]) convert(v *values, fields []string, line int) error {
	for _, idx := range r.tokens {
		if idx >= len(fields) {
			return &ParseError{Field: r.field, Index: idx, Line: line, Err: ErrMissingToken}
		}
		tok := fields[idx]

		switch r.conv {
		case convFloat:
			f, err := parseFloat(tok)
			if err != nil {
				return &ParseError{Field: r.field, Token: tok, Index: idx, Line: line, Err: numError(err)}
			}
			v.floats = append(v.floats, f)
		case convInt:
			n, err := strconv.Atoi(tok)
			if err != nil {
				return &ParseError{Field: r.field, Token: tok, Index: idx, Line: line, Err: numError(err)}
			}
			v.ints = append(v.ints, n)
		case convCount:
			if tok == r.undefined {
				v.count = Count{Undefined: true}
				continue
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				return &ParseError{Field: r.field, Token: tok, Index: idx, Line: line, Err: numError(err)}
			}
			v.count = Count{N: n}
		}
	}
	return nil
}

// parseFloat also accepts the signed NaN glibc prints for degenerate
// values ("-nan", "+nan"), which strconv rejects.
func parseFloat(tok string) (float64, error) {
	mag := tok
	if mag != "" && (mag[0] == '+' || mag[0] == '-') {
		mag = mag[1:]
	}
	if strings.EqualFold(mag, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(tok, 64)
}

// numError strips the strconv wrapper, whose message repeats the token.
func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

// scan runs every line of r through rules, filling res.
func scan[T any](r io.Reader, res *T, rules []rule[T]) error {
	lines := newLineReader(r)
	for {
		raw, ok := lines.next()
		if !ok {
			return lines.err()
		}
		line := normalize(raw)

		for i := range rules {
			ru := &rules[i]
			if !ru.matches(line) {
				continue
			}
			v, err := ru.extract(line, lines)
			if err != nil {
				return err
			}
			ru.set(res, v)
			if ru.stop {
				return nil
			}
		}
	}
}

// normalize collapses runs of whitespace into single spaces.
func normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// lineReader reads lines of any length and counts them from 1.
type lineReader struct {
	r    *bufio.Reader
	n    int
	e    error
	done bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) next() (string, bool) {
	if l.done {
		return "", false
	}
	s, err := l.r.ReadString('\n')
	if err != nil {
		l.done = true
		if err != io.EOF {
			l.e = fmt.Errorf("line %d: %w", l.n+1, err)
			return "", false
		}
		if s == "" {
			return "", false
		}
	}
	l.n++
	return strings.TrimRight(s, "\r\n"), true
}

func (l *lineReader) err() error {
	return l.e
}
