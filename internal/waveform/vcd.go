package waveform

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseVCD reads a Verilog VCD capture and returns an in-memory edge
// source for one scalar variable. signal selects the variable by name;
// when empty, the first one-bit variable in the header is tracked. The
// sample clock is derived from $timescale, and value-change timestamps
// become sample positions directly.
//
// The whole file is parsed up front so malformed captures fail at
// startup rather than mid-decode.
func ParseVCD(r io.Reader, signal string) (*Edges, error) {
	p := vcdParser{scan: bufio.NewScanner(r)}
	p.scan.Split(bufio.ScanWords)

	if err := p.header(signal); err != nil {
		return nil, err
	}
	if err := p.changes(); err != nil {
		return nil, err
	}
	return NewEdges(p.rate, p.edges), nil
}

type vcdParser struct {
	scan  *bufio.Scanner
	rate  float64
	id    string
	now   uint64
	last  Level
	prime bool
	edges []Edge
}

func (p *vcdParser) next() (string, bool) {
	if !p.scan.Scan() {
		return "", false
	}
	return p.scan.Text(), true
}

// collect gathers tokens up to the matching $end.
func (p *vcdParser) collect() ([]string, error) {
	var toks []string
	for {
		tok, ok := p.next()
		if !ok {
			return nil, io.ErrUnexpectedEOF
		}
		if tok == "$end" {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (p *vcdParser) header(signal string) error {
	for {
		tok, ok := p.next()
		if !ok {
			return fmt.Errorf("vcd: missing $enddefinitions")
		}
		switch tok {
		case "$timescale":
			toks, err := p.collect()
			if err != nil {
				return fmt.Errorf("vcd: unterminated $timescale")
			}
			rate, err := parseTimescale(strings.Join(toks, ""))
			if err != nil {
				return err
			}
			p.rate = rate
		case "$var":
			toks, err := p.collect()
			if err != nil {
				return fmt.Errorf("vcd: unterminated $var")
			}
			// $var <type> <size> <id> <name...> $end
			if len(toks) < 4 {
				return fmt.Errorf("vcd: malformed $var declaration %q", strings.Join(toks, " "))
			}
			size, name := toks[1], strings.Join(toks[3:], " ")
			match := signal != "" && name == signal
			if signal == "" && p.id == "" && size == "1" {
				match = true
			}
			if match {
				p.id = toks[2]
			}
		case "$enddefinitions":
			if _, err := p.collect(); err != nil {
				return fmt.Errorf("vcd: unterminated $enddefinitions")
			}
			if p.id == "" {
				if signal != "" {
					return fmt.Errorf("vcd: signal %q not declared", signal)
				}
				return fmt.Errorf("vcd: no one-bit variable declared")
			}
			return nil
		case "$comment", "$date", "$version", "$scope", "$upscope":
			if _, err := p.collect(); err != nil {
				return fmt.Errorf("vcd: unterminated %s", tok)
			}
		default:
			return fmt.Errorf("vcd: unexpected token %q in header", tok)
		}
	}
}

func (p *vcdParser) changes() error {
	for {
		tok, ok := p.next()
		if !ok {
			return p.scan.Err()
		}
		switch {
		case tok == "$dumpvars" || tok == "$dumpall" || tok == "$dumpon" || tok == "$dumpoff" || tok == "$end":
			// section markers carry no values of their own
		case tok == "$comment":
			if _, err := p.collect(); err != nil {
				return fmt.Errorf("vcd: unterminated $comment")
			}
		case strings.HasPrefix(tok, "#"):
			t, err := strconv.ParseUint(tok[1:], 10, 64)
			if err != nil {
				return fmt.Errorf("vcd: bad timestamp %q", tok)
			}
			p.now = t
		case strings.HasPrefix(tok, "b") || strings.HasPrefix(tok, "B") ||
			strings.HasPrefix(tok, "r") || strings.HasPrefix(tok, "R"):
			// vector/real change: value token then id token
			if _, ok := p.next(); !ok {
				return fmt.Errorf("vcd: truncated vector change %q", tok)
			}
		case len(tok) >= 2 && strings.ContainsRune("01xXzZ", rune(tok[0])):
			p.scalar(tok[0], tok[1:])
		default:
			return fmt.Errorf("vcd: unexpected token %q", tok)
		}
	}
}

// scalar records a value change for the tracked variable. Unknown and
// high-impedance states read as channel-low.
func (p *vcdParser) scalar(value byte, id string) {
	if id != p.id {
		return
	}
	level := Low
	if value == '1' {
		level = High
	}
	if !p.prime {
		p.prime = true
		p.last = level
		if level == High {
			p.edges = append(p.edges, Edge{Sample: p.now, Level: High})
		}
		return
	}
	if level != p.last {
		p.last = level
		p.edges = append(p.edges, Edge{Sample: p.now, Level: level})
	}
}

// parseTimescale converts a $timescale body like "1us" or "10 ns" into
// a sample rate in Hz.
func parseTimescale(s string) (float64, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("vcd: bad timescale %q", s)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || (n != 1 && n != 10 && n != 100) {
		return 0, fmt.Errorf("vcd: bad timescale magnitude %q", s)
	}
	unit, ok := map[string]float64{
		"s":  1,
		"ms": 1e-3,
		"us": 1e-6,
		"ns": 1e-9,
		"ps": 1e-12,
		"fs": 1e-15,
	}[strings.TrimSpace(s[i:])]
	if !ok {
		return 0, fmt.Errorf("vcd: bad timescale unit %q", s)
	}
	return 1 / (float64(n) * unit), nil
}
