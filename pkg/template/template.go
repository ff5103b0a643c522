// Package template implements the {{key}} placeholder grammar used to
// render request URLs, sink paths, and vars/params value strings.
package template

import (
	"fmt"
	"strings"
)

// Token is either literal text or a key reference.
type Token struct {
	Literal string
	Key     string
	isKey   bool
}

// Template is a compiled token sequence. Parse once, render many times.
type Template struct {
	tokens []Token
	source string
}

// Source returns the original template string.
func (t *Template) Source() string { return t.source }

// Keys returns the distinct key names referenced by the template, in
// first-occurrence order.
func (t *Template) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, tok := range t.tokens {
		if tok.isKey && !seen[tok.Key] {
			seen[tok.Key] = true
			keys = append(keys, tok.Key)
		}
	}
	return keys
}

// Render walks the token sequence, substituting each key token's value from
// values. The first missing key aborts rendering.
func (t *Template) Render(values map[string]string) (string, error) {
	var b strings.Builder
	for _, tok := range t.tokens {
		if !tok.isKey {
			b.WriteString(tok.Literal)
			continue
		}
		v, ok := values[tok.Key]
		if !ok {
			return "", fmt.Errorf("could not find value: %s", tok.Key)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// Compile parses s into a Template per the grammar:
//
//	template := (key | literal)+
//	key       := "{{" keyname "}}"
//	keyname   := (not '}' | '}' not '}')+
//	literal   := (not '{' | '{' not '{')+ | "{{"  (unmatched becomes literal)
func Compile(s string) (*Template, error) {
	p := &parser{src: s}
	tokens, err := p.run()
	if err != nil {
		return nil, err
	}
	return &Template{tokens: tokens, source: s}, nil
}

// Render is a convenience for compiling and rendering in one step.
func Render(s string, values map[string]string) (string, error) {
	t, err := Compile(s)
	if err != nil {
		return "", err
	}
	return t.Render(values)
}

type parser struct {
	src string
	pos int
}

func (p *parser) run() ([]Token, error) {
	var tokens []Token
	var lit strings.Builder

	flushLit := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Token{Literal: lit.String()})
			lit.Reset()
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '{':
			if p.peek(1) == '{' {
				key, ok := p.tryReadKey()
				if ok {
					flushLit()
					tokens = append(tokens, Token{Key: key, isKey: true})
					continue
				}
				// Unmatched "{{": literal "{{".
				lit.WriteString("{{")
				p.pos += 2
				continue
			}
			lit.WriteByte(c)
			p.pos++
		default:
			lit.WriteByte(c)
			p.pos++
		}
	}
	flushLit()
	return tokens, nil
}

// tryReadKey attempts to consume "{{" keyname "}}" starting at p.pos, where
// p.src[p.pos:p.pos+2] == "{{". keyname allows any run of characters that
// is not "}" or is a single "}" not followed by another "}". It returns
// ok=false (without advancing p.pos) if no closing "}}" is found.
func (p *parser) tryReadKey() (string, bool) {
	start := p.pos
	i := p.pos + 2
	var name strings.Builder
	for i < len(p.src) {
		c := p.src[i]
		if c == '}' {
			if i+1 < len(p.src) && p.src[i+1] == '}' {
				p.pos = i + 2
				return name.String(), true
			}
			// Single '}' is allowed inside the key name.
			name.WriteByte(c)
			i++
			continue
		}
		name.WriteByte(c)
		i++
	}
	p.pos = start
	return "", false
}

func (p *parser) peek(offset int) byte {
	idx := p.pos + offset
	if idx >= len(p.src) {
		return 0
	}
	return p.src[idx]
}
