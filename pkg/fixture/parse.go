package fixture

import (
	"bufio"
	"io"
	"strings"
)

type lineReader struct {
	sc *bufio.Scanner
	n  int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{sc: bufio.NewScanner(r)}
}

func (l *lineReader) next() (string, bool) {
	if !l.sc.Scan() {
		return "", false
	}
	l.n++
	return l.sc.Text(), true
}

// nextNonBlank skips blank lines.
func (l *lineReader) nextNonBlank() (string, bool) {
	for {
		s, ok := l.next()
		if !ok || strings.TrimSpace(s) != "" {
			return s, ok
		}
	}
}

func (l *lineReader) must(what string) (string, error) {
	s, ok := l.next()
	if !ok {
		if err := l.sc.Err(); err != nil {
			return "", err
		}
		return "", syntaxErr(l.n, "unexpected end of input, want %s", what)
	}
	return s, nil
}

// ParseCases reads a tests.in stream.
func ParseCases(r io.Reader) ([]Case, error) {
	lr := newLineReader(r)
	var cases []Case
	for {
		name, ok := lr.nextNonBlank()
		if !ok {
			return cases, lr.sc.Err()
		}
		c := Case{Name: strings.TrimSpace(name)}

		text, err := lr.must("register line")
		if err != nil {
			return nil, err
		}
		if c.HasMEMPTR, err = parseRegs(lr.n, text, &c.State); err != nil {
			return nil, err
		}
		if text, err = lr.must("state line"); err != nil {
			return nil, err
		}
		if c.TStates, err = parseState(lr.n, text, &c.State); err != nil {
			return nil, err
		}
		for {
			if text, err = lr.must("memory line or -1"); err != nil {
				return nil, err
			}
			if strings.TrimSpace(text) == "-1" {
				break
			}
			b, err := parseBlock(lr.n, text)
			if err != nil {
				return nil, err
			}
			c.Memory = append(c.Memory, b)
		}
		cases = append(cases, c)
	}
}

// ParseExpected reads a tests.expected stream.
func ParseExpected(r io.Reader) ([]Expected, error) {
	lr := newLineReader(r)
	var all []Expected
	for {
		name, ok := lr.nextNonBlank()
		if !ok {
			return all, lr.sc.Err()
		}
		e := Expected{Name: strings.TrimSpace(name)}

		var text string
		var err error
		for {
			if text, err = lr.must("event or register line"); err != nil {
				return nil, err
			}
			if !strings.HasPrefix(text, " ") && !strings.HasPrefix(text, "\t") {
				break
			}
			ev, err := parseEvent(lr.n, text)
			if err != nil {
				return nil, err
			}
			e.Events = append(e.Events, ev)
		}
		if e.HasMEMPTR, err = parseRegs(lr.n, text, &e.State); err != nil {
			return nil, err
		}
		if text, err = lr.must("state line"); err != nil {
			return nil, err
		}
		if e.TStates, err = parseState(lr.n, text, &e.State); err != nil {
			return nil, err
		}
		for {
			text, ok := lr.next()
			if !ok || strings.TrimSpace(text) == "" {
				break
			}
			b, err := parseBlock(lr.n, text)
			if err != nil {
				return nil, err
			}
			e.Memory = append(e.Memory, b)
		}
		all = append(all, e)
	}
}
