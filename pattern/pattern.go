// Package pattern compiles byte signatures into token sequences and
// scans module images for them. The grammar is a compact code-signature
// notation: hex pairs are literal bytes, "?" matches any byte, "[N]"
// skips N bytes, "'" captures the current relative address, "u1"/"u2"/
// "u4" capture a little-endian field value, and "${...}" follows a
// signed 32-bit displacement and matches the braced subpattern at the
// target address.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

type Op uint8

const (
	// OpByte matches one literal byte.
	OpByte Op = iota
	// OpSkip advances the cursor by Arg bytes without matching.
	OpSkip
	// OpSave records the cursor as a relative address in the next slot.
	OpSave
	// OpRead records the little-endian unsigned value of the next Arg
	// bytes in the next slot, then advances past them.
	OpRead
	// OpFollow reads a signed 32-bit displacement and moves the cursor
	// to displacement-site + 4 + disp. The previous cursor is restored
	// by the matching OpReturn.
	OpFollow
	// OpReturn restores the cursor saved by the innermost OpFollow.
	OpReturn
)

// Atom is one compiled token. Arg holds the byte value for OpByte, the
// gap length for OpSkip and the field width for OpRead.
type Atom struct {
	Op  Op
	Arg uint32
}

// Pattern is a compiled signature. Compiling is a pure function of the
// signature text; a Pattern is immutable and safe for concurrent use.
type Pattern struct {
	text  string
	atoms []Atom
	saves int
}

// String returns the original signature text.
func (p *Pattern) String() string { return p.text }

// Atoms returns the compiled token sequence.
func (p *Pattern) Atoms() []Atom { return p.atoms }

// SaveLen returns the number of capture slots the pattern fills: one
// for the match start plus one per capture token at any depth.
func (p *Pattern) SaveLen() int { return p.saves + 1 }

// Compile parses signature text into a Pattern. Malformed text is an
// authoring bug and yields an error describing the offending position.
func Compile(text string) (*Pattern, error) {
	c := &compiler{src: text}
	if err := c.run(0); err != nil {
		return nil, err
	}
	return &Pattern{text: text, atoms: c.atoms, saves: c.saves}, nil
}

// MustCompile is Compile for static signature tables; it panics on
// malformed text.
func MustCompile(text string) *Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return p
}

type compiler struct {
	src   string
	pos   int
	atoms []Atom
	saves int
}

func (c *compiler) errorf(format string, args ...any) error {
	return fmt.Errorf("pattern %q at %d: %s", c.src, c.pos, fmt.Sprintf(format, args...))
}

func (c *compiler) emit(op Op, arg uint32) {
	c.atoms = append(c.atoms, Atom{Op: op, Arg: arg})
}

// run consumes tokens until end of input (depth 0) or a closing brace.
func (c *compiler) run(depth int) error {
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		switch {
		case ch == ' ' || ch == '\t':
			c.pos++
		case isHexDigit(ch):
			if c.pos+1 >= len(c.src) || !isHexDigit(c.src[c.pos+1]) {
				return c.errorf("dangling hex digit %q", ch)
			}
			b, _ := strconv.ParseUint(c.src[c.pos:c.pos+2], 16, 8)
			c.emit(OpByte, uint32(b))
			c.pos += 2
		case ch == '?':
			c.emit(OpSkip, 1)
			c.pos++
		case ch == '\'':
			c.emit(OpSave, 0)
			c.saves++
			c.pos++
		case ch == 'u':
			width, err := c.readWidth()
			if err != nil {
				return err
			}
			c.emit(OpRead, width)
			c.saves++
		case ch == '[':
			n, err := c.readGap()
			if err != nil {
				return err
			}
			c.emit(OpSkip, n)
		case ch == '$':
			if c.pos+1 >= len(c.src) || c.src[c.pos+1] != '{' {
				return c.errorf("expected { after $")
			}
			c.pos += 2
			c.emit(OpFollow, 0)
			if err := c.run(depth + 1); err != nil {
				return err
			}
		case ch == '}':
			if depth == 0 {
				return c.errorf("unmatched }")
			}
			c.emit(OpReturn, 0)
			c.pos++
			return nil
		default:
			return c.errorf("unexpected %q", ch)
		}
	}
	if depth != 0 {
		return c.errorf("unterminated ${")
	}
	return nil
}

func (c *compiler) readWidth() (uint32, error) {
	if c.pos+1 >= len(c.src) {
		return 0, c.errorf("dangling u")
	}
	switch c.src[c.pos+1] {
	case '1':
		c.pos += 2
		return 1, nil
	case '2':
		c.pos += 2
		return 2, nil
	case '4':
		c.pos += 2
		return 4, nil
	}
	return 0, c.errorf("unsupported read width u%c", c.src[c.pos+1])
}

func (c *compiler) readGap() (uint32, error) {
	end := strings.IndexByte(c.src[c.pos:], ']')
	if end < 0 {
		return 0, c.errorf("unterminated [")
	}
	n, err := strconv.ParseUint(c.src[c.pos+1:c.pos+end], 10, 16)
	if err != nil || n == 0 {
		return 0, c.errorf("bad gap length %q", c.src[c.pos+1:c.pos+end])
	}
	c.pos += end + 1
	return uint32(n), nil
}

func isHexDigit(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}
