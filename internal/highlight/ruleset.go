package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Rule defines a single-line highlighting rule.
type Rule struct {
	// Pattern is the regex pattern to match.
	Pattern *regexp.Regexp

	// Type is the token type assigned to matches.
	Type TokenType
}

// multiLineRule defines a construct that may span lines.
type multiLineRule struct {
	start string
	end   string
	typ   TokenType
	state LexerState
}

// Ruleset is a regex-based line tokenizer for one language.
type Ruleset struct {
	language  string
	rules     []Rule
	keywords  map[string]TokenType
	multiLine []multiLineRule
}

// NewRuleset creates an empty ruleset for a language.
func NewRuleset(language string) *Ruleset {
	return &Ruleset{
		language: language,
		keywords: make(map[string]TokenType),
	}
}

// Language returns the language name.
func (rs *Ruleset) Language() string {
	return rs.language
}

// AddRule appends a regex rule. The pattern must compile.
func (rs *Ruleset) AddRule(pattern string, typ TokenType) *Ruleset {
	rs.rules = append(rs.rules, Rule{
		Pattern: regexp.MustCompile(pattern),
		Type:    typ,
	})
	return rs
}

// AddKeywords registers keywords under a token type.
func (rs *Ruleset) AddKeywords(typ TokenType, keywords ...string) *Ruleset {
	for _, kw := range keywords {
		rs.keywords[kw] = typ
	}
	return rs
}

// AddMultiLine appends a multi-line construct rule. Rules are matched
// in registration order.
func (rs *Ruleset) AddMultiLine(start, end string, typ TokenType, state LexerState) *Ruleset {
	rs.multiLine = append(rs.multiLine, multiLineRule{
		start: start,
		end:   end,
		typ:   typ,
		state: state,
	})
	return rs
}

// TokenizeLine tokenizes a single line. prevState is the lexer state at
// the end of the previous line; the returned state feeds the next line.
func (rs *Ruleset) TokenizeLine(line string, prevState LexerState) ([]Token, LexerState) {
	if prevState != StateNormal {
		endIdx, found := rs.findMultiLineEnd(line, prevState)
		if !found {
			// Entire line continues the construct.
			return []Token{{Type: rs.typeForState(prevState), Start: 0, End: len(line)}}, prevState
		}
		tokens := []Token{{Type: rs.typeForState(prevState), Start: 0, End: endIdx}}
		rest, state := rs.tokenizeNormal(line[endIdx:])
		for i := range rest {
			rest[i].Start += endIdx
			rest[i].End += endIdx
		}
		return append(tokens, rest...), state
	}
	return rs.tokenizeNormal(line)
}

// tokenizeNormal tokenizes a line starting in the normal state.
func (rs *Ruleset) tokenizeNormal(line string) ([]Token, LexerState) {
	tokens := make([]Token, 0)
	covered := make([]bool, len(line))
	state := StateNormal

	// Multi-line construct starts take precedence over regex rules.
	for _, rule := range rs.multiLine {
		from := 0
		for from < len(line) {
			idx := strings.Index(line[from:], rule.start)
			if idx < 0 {
				break
			}
			idx += from
			if isCovered(covered, idx, idx+len(rule.start)) {
				from = idx + len(rule.start)
				continue
			}
			endIdx := strings.Index(line[idx+len(rule.start):], rule.end)
			if endIdx >= 0 {
				endPos := idx + len(rule.start) + endIdx + len(rule.end)
				tokens = append(tokens, Token{Type: rule.typ, Start: idx, End: endPos})
				markCovered(covered, idx, endPos)
				from = endPos
				continue
			}
			tokens = append(tokens, Token{Type: rule.typ, Start: idx, End: len(line)})
			markCovered(covered, idx, len(line))
			state = rule.state
			from = len(line)
		}
	}

	for _, rule := range rs.rules {
		for _, match := range rule.Pattern.FindAllStringIndex(line, -1) {
			start, end := match[0], match[1]
			if end > start && !isCovered(covered, start, end) {
				tokens = append(tokens, Token{Type: rule.Type, Start: start, End: end})
				markCovered(covered, start, end)
			}
		}
	}

	tokens = append(tokens, rs.findIdentifiers(line, covered)...)

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Start < tokens[j].Start })
	return tokens, state
}

// findMultiLineEnd locates the terminator for the construct owning the
// given state. Returns the offset just past the terminator.
func (rs *Ruleset) findMultiLineEnd(line string, state LexerState) (int, bool) {
	for _, rule := range rs.multiLine {
		if rule.state != state {
			continue
		}
		idx := strings.Index(line, rule.end)
		if idx >= 0 {
			return idx + len(rule.end), true
		}
		return 0, false
	}
	return 0, false
}

// typeForState returns the token type of the construct owning a state.
func (rs *Ruleset) typeForState(state LexerState) TokenType {
	for _, rule := range rs.multiLine {
		if rule.state == state {
			return rule.typ
		}
	}
	return TokenNone
}

// findIdentifiers scans uncovered regions for identifier runs and
// classifies keywords.
func (rs *Ruleset) findIdentifiers(line string, covered []bool) []Token {
	tokens := make([]Token, 0)
	i := 0
	for i < len(line) {
		if covered[i] {
			i++
			continue
		}
		r := rune(line[i])
		if !unicode.IsLetter(r) && r != '_' {
			i++
			continue
		}
		start := i
		for i < len(line) && !covered[i] {
			r = rune(line[i])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			i++
		}
		word := line[start:i]
		typ := TokenIdentifier
		if kw, ok := rs.keywords[word]; ok {
			typ = kw
		}
		tokens = append(tokens, Token{Type: typ, Start: start, End: start + len(word)})
		markCovered(covered, start, start+len(word))
	}
	return tokens
}

func isCovered(covered []bool, start, end int) bool {
	for i := start; i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

func markCovered(covered []bool, start, end int) {
	if start < 0 {
		start = 0
	}
	for i := start; i < end && i < len(covered); i++ {
		covered[i] = true
	}
}
