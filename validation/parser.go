// validation/parser.go
package validation

import (
	"fmt"
	"strings"
)

// Effect is a policy's permit/forbid head.
type Effect string

const (
	EffectPermit Effect = "permit"
	EffectForbid Effect = "forbid"
)

// ScopeOp is the constraint operator used in a scope clause.
type ScopeOp string

const (
	ScopeAny ScopeOp = "any"
	ScopeEq  ScopeOp = "=="
	ScopeIs  ScopeOp = "is"
	ScopeIn  ScopeOp = "in"
)

// ScopeConstraint restricts the principal or resource of a policy.
// EntityType keeps the full (possibly namespaced) path as written.
type ScopeConstraint struct {
	Op         ScopeOp
	EntityType string
	EntityID   string
}

// SimpleType returns the entity type without its namespace prefix.
func (c ScopeConstraint) SimpleType() string {
	if idx := strings.LastIndex(c.EntityType, "::"); idx >= 0 {
		return c.EntityType[idx+2:]
	}
	return c.EntityType
}

// ActionConstraint restricts the action of a policy.
type ActionConstraint struct {
	Op    ScopeOp
	Names []string
}

// ConditionKind distinguishes when from unless clauses.
type ConditionKind string

const (
	ConditionWhen   ConditionKind = "when"
	ConditionUnless ConditionKind = "unless"
)

// Condition is one when/unless clause with its raw body text.
type Condition struct {
	Kind   ConditionKind
	Body   string
	Line   int
	Column int
}

// Policy is one parsed policy statement.
type Policy struct {
	Effect     Effect
	Principal  ScopeConstraint
	Action     ActionConstraint
	Resource   ScopeConstraint
	Conditions []Condition
	Line       int
	Column     int
}

// ParseError is a syntax diagnostic with a source position.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokInt
	tokOp
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	off  int
	line int
	col  int
}

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newLexer(content string) *lexer {
	return &lexer{src: []rune(content), line: 1, col: 1}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// tokenize converts the whole input into tokens, ending with tokEOF.
func (l *lexer) tokenize() ([]token, *ParseError) {
	var tokens []token
	twoCharOps := []string{"::", "==", "!=", "<=", ">=", "&&", "||"}
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.src) {
			tokens = append(tokens, token{kind: tokEOF, off: l.pos, line: l.line, col: l.col})
			return tokens, nil
		}

		start, line, col := l.pos, l.line, l.col
		r := l.peek()

		switch {
		case isIdentStart(r):
			for l.pos < len(l.src) && isIdentPart(l.peek()) {
				l.advance()
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(l.src[start:l.pos]), off: start, line: line, col: col})

		case isDigit(r):
			for l.pos < len(l.src) && isDigit(l.peek()) {
				l.advance()
			}
			tokens = append(tokens, token{kind: tokInt, text: string(l.src[start:l.pos]), off: start, line: line, col: col})

		case r == '"':
			l.advance()
			for l.pos < len(l.src) && l.peek() != '"' {
				if l.peek() == '\\' && l.pos+1 < len(l.src) {
					l.advance()
				}
				l.advance()
			}
			if l.pos >= len(l.src) {
				return nil, &ParseError{Message: "unterminated string literal", Line: line, Column: col}
			}
			l.advance() // closing quote
			tokens = append(tokens, token{kind: tokString, text: string(l.src[start+1 : l.pos-1]), off: start, line: line, col: col})

		default:
			matched := false
			if l.pos+1 < len(l.src) {
				pair := string(l.src[l.pos : l.pos+2])
				for _, op := range twoCharOps {
					if pair == op {
						l.advance()
						l.advance()
						tokens = append(tokens, token{kind: tokOp, text: pair, off: start, line: line, col: col})
						matched = true
						break
					}
				}
			}
			if matched {
				continue
			}
			switch r {
			case '(', ')', '[', ']', '{', '}', ',', ';', '.', '<', '>', '!', '=', '+', '-', '*', '&', '|', '@':
				l.advance()
				tokens = append(tokens, token{kind: tokOp, text: string(r), off: start, line: line, col: col})
			default:
				return nil, &ParseError{Message: fmt.Sprintf("unexpected character %q", string(r)), Line: line, Column: col}
			}
		}
	}
}

type parser struct {
	src    []rune
	tokens []token
	pos    int
}

func (p *parser) cur() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errf(t token, format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: t.line, Column: t.col}
}

func (p *parser) expectOp(text string) (*token, *ParseError) {
	t := p.cur()
	if t.kind != tokOp || t.text != text {
		return nil, p.errf(t, "expected %q, found %q", text, t.text)
	}
	p.next()
	return &t, nil
}

// ParsePolicySet parses a sequence of `;`-terminated policy statements.
func ParsePolicySet(content string) ([]*Policy, error) {
	lex := newLexer(content)
	tokens, lerr := lex.tokenize()
	if lerr != nil {
		return nil, lerr
	}

	p := &parser{src: lex.src, tokens: tokens}
	var policies []*Policy
	for p.cur().kind != tokEOF {
		policy, err := p.parsePolicy()
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	if len(policies) == 0 {
		return nil, &ParseError{Message: "no policy statements found", Line: 1, Column: 1}
	}
	return policies, nil
}

// ParsePolicy parses exactly one policy statement.
func ParsePolicy(content string) (*Policy, error) {
	policies, err := ParsePolicySet(content)
	if err != nil {
		return nil, err
	}
	if len(policies) != 1 {
		return nil, &ParseError{Message: fmt.Sprintf("expected a single policy statement, found %d", len(policies)), Line: 1, Column: 1}
	}
	return policies[0], nil
}

func (p *parser) parsePolicy() (*Policy, *ParseError) {
	// Optional @annotation("value") lines ahead of the effect
	for p.cur().kind == tokOp && p.cur().text == "@" {
		if err := p.skipAnnotation(); err != nil {
			return nil, err
		}
	}

	head := p.cur()
	if head.kind != tokIdent || (head.text != string(EffectPermit) && head.text != string(EffectForbid)) {
		return nil, p.errf(head, "expected %q or %q, found %q", EffectPermit, EffectForbid, head.text)
	}
	p.next()

	policy := &Policy{Effect: Effect(head.text), Line: head.line, Column: head.col}

	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}

	var err *ParseError
	policy.Principal, err = p.parseScope("principal")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp(","); err != nil {
		return nil, err
	}
	policy.Action, err = p.parseAction()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp(","); err != nil {
		return nil, err
	}
	policy.Resource, err = p.parseScope("resource")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp(")"); err != nil {
		return nil, err
	}

	for {
		t := p.cur()
		if t.kind == tokIdent && (t.text == string(ConditionWhen) || t.text == string(ConditionUnless)) {
			p.next()
			cond, cerr := p.parseConditionBody(ConditionKind(t.text), t)
			if cerr != nil {
				return nil, cerr
			}
			policy.Conditions = append(policy.Conditions, cond)
			continue
		}
		break
	}

	if _, err := p.expectOp(";"); err != nil {
		return nil, err
	}
	return policy, nil
}

func (p *parser) skipAnnotation() *ParseError {
	p.next() // consume '@'
	t := p.cur()
	if t.kind != tokIdent {
		return p.errf(t, "expected annotation name, found %q", t.text)
	}
	p.next()
	if p.cur().kind == tokOp && p.cur().text == "(" {
		p.next()
		if p.cur().kind != tokString {
			return p.errf(p.cur(), "expected annotation value string")
		}
		p.next()
		if _, err := p.expectOp(")"); err != nil {
			return err
		}
	}
	return nil
}

// parseScope parses `principal`/`resource` followed by an optional
// constraint: `== Type::"id"`, `is Type`, or `in Type::"id"`.
func (p *parser) parseScope(keyword string) (ScopeConstraint, *ParseError) {
	t := p.cur()
	if t.kind != tokIdent || t.text != keyword {
		return ScopeConstraint{}, p.errf(t, "expected %q, found %q", keyword, t.text)
	}
	p.next()

	constraint := ScopeConstraint{Op: ScopeAny}
	t = p.cur()
	switch {
	case t.kind == tokOp && t.text == "==":
		p.next()
		entityType, entityID, err := p.parseEntityRef()
		if err != nil {
			return ScopeConstraint{}, err
		}
		constraint = ScopeConstraint{Op: ScopeEq, EntityType: entityType, EntityID: entityID}

	case t.kind == tokIdent && t.text == "is":
		p.next()
		entityType, err := p.parseEntityPath()
		if err != nil {
			return ScopeConstraint{}, err
		}
		constraint = ScopeConstraint{Op: ScopeIs, EntityType: entityType}
		// `is Type in Group::"id"` narrows membership on top of the type
		if p.cur().kind == tokIdent && p.cur().text == "in" {
			p.next()
			if _, _, err := p.parseEntityRef(); err != nil {
				return ScopeConstraint{}, err
			}
		}

	case t.kind == tokIdent && t.text == "in":
		p.next()
		entityType, entityID, err := p.parseEntityRef()
		if err != nil {
			return ScopeConstraint{}, err
		}
		constraint = ScopeConstraint{Op: ScopeIn, EntityType: entityType, EntityID: entityID}
	}

	return constraint, nil
}

// parseAction parses `action` followed by an optional constraint:
// `== Action::"name"` or `in [Action::"a", Action::"b"]`.
func (p *parser) parseAction() (ActionConstraint, *ParseError) {
	t := p.cur()
	if t.kind != tokIdent || t.text != "action" {
		return ActionConstraint{}, p.errf(t, "expected %q, found %q", "action", t.text)
	}
	p.next()

	constraint := ActionConstraint{Op: ScopeAny}
	t = p.cur()
	switch {
	case t.kind == tokOp && t.text == "==":
		p.next()
		name, err := p.parseActionRef()
		if err != nil {
			return ActionConstraint{}, err
		}
		constraint = ActionConstraint{Op: ScopeEq, Names: []string{name}}

	case t.kind == tokIdent && t.text == "in":
		p.next()
		if _, err := p.expectOp("["); err != nil {
			return ActionConstraint{}, err
		}
		var names []string
		for {
			name, err := p.parseActionRef()
			if err != nil {
				return ActionConstraint{}, err
			}
			names = append(names, name)
			if p.cur().kind == tokOp && p.cur().text == "," {
				p.next()
				continue
			}
			break
		}
		if _, err := p.expectOp("]"); err != nil {
			return ActionConstraint{}, err
		}
		constraint = ActionConstraint{Op: ScopeIn, Names: names}
	}

	return constraint, nil
}

// parseEntityPath parses `Ident(::Ident)*`.
func (p *parser) parseEntityPath() (string, *ParseError) {
	t := p.cur()
	if t.kind != tokIdent {
		return "", p.errf(t, "expected entity type, found %q", t.text)
	}
	p.next()
	path := t.text
	for p.cur().kind == tokOp && p.cur().text == "::" {
		// Stop before the entity id string in `Type::"id"`
		if p.tokens[p.pos+1].kind == tokString {
			break
		}
		p.next()
		seg := p.cur()
		if seg.kind != tokIdent {
			return "", p.errf(seg, "expected entity type segment, found %q", seg.text)
		}
		p.next()
		path += "::" + seg.text
	}
	return path, nil
}

// parseEntityRef parses `Type::"id"`.
func (p *parser) parseEntityRef() (string, string, *ParseError) {
	entityType, err := p.parseEntityPath()
	if err != nil {
		return "", "", err
	}
	if _, err := p.expectOp("::"); err != nil {
		return "", "", err
	}
	t := p.cur()
	if t.kind != tokString {
		return "", "", p.errf(t, "expected entity id string, found %q", t.text)
	}
	p.next()
	return entityType, t.text, nil
}

// parseActionRef parses `Action::"name"` or a bare `"name"`.
func (p *parser) parseActionRef() (string, *ParseError) {
	if p.cur().kind == tokString {
		name := p.cur().text
		p.next()
		return name, nil
	}
	_, name, err := p.parseEntityRef()
	if err != nil {
		return "", err
	}
	return name, nil
}

// parseConditionBody consumes `{ ... }` after when/unless, capturing the
// raw source text between the braces.
func (p *parser) parseConditionBody(kind ConditionKind, at token) (Condition, *ParseError) {
	open, err := p.expectOp("{")
	if err != nil {
		return Condition{}, err
	}
	depth := 1
	var closing *token
	for depth > 0 {
		t := p.next()
		if t.kind == tokEOF {
			return Condition{}, p.errf(*open, "unterminated %s clause", kind)
		}
		if t.kind == tokOp {
			switch t.text {
			case "{":
				depth++
			case "}":
				depth--
				if depth == 0 {
					closing = &t
				}
			}
		}
	}
	body := strings.TrimSpace(string(p.src[open.off+1 : closing.off]))
	if body == "" {
		return Condition{}, p.errf(*open, "empty %s clause", kind)
	}
	return Condition{Kind: kind, Body: body, Line: at.line, Column: at.col}, nil
}
