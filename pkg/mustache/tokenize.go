package mustache

import "strings"

const (
	openDelim  = "{{"
	closeDelim = "}}"
	rawSigil   = "&"
)

// Tokenize splits template into literal text and placeholder tokens in source
// order. It never fails: an unterminated `{{` and everything after it is kept
// as literal text, and unrecognised delimiter content becomes a Var token whose
// name does not validate.
func Tokenize(template string) []Token {
	if template == "" {
		return nil
	}

	var tokens []Token
	rest := template
	for rest != "" {
		open := strings.Index(rest, openDelim)
		if open < 0 {
			tokens = appendText(tokens, rest)
			break
		}
		end := strings.Index(rest[open+len(openDelim):], closeDelim)
		if end < 0 {
			tokens = appendText(tokens, rest)
			break
		}
		end += open + len(openDelim)

		tokens = appendText(tokens, rest[:open])
		span := rest[open : end+len(closeDelim)]
		tokens = append(tokens, parseVar(span, rest[open+len(openDelim):end]))
		rest = rest[end+len(closeDelim):]
	}
	return tokens
}

func parseVar(span, inner string) Token {
	tok := Token{Kind: TokenVar, Escaped: true, Source: span}
	name := strings.TrimSpace(inner)
	if strings.HasPrefix(name, rawSigil) {
		tok.Escaped = false
		name = strings.TrimSpace(name[len(rawSigil):])
	}
	tok.Value = name
	return tok
}

// appendText merges adjacent literal runs so callers never see two Text tokens
// in a row.
func appendText(tokens []Token, literal string) []Token {
	if literal == "" {
		return tokens
	}
	if n := len(tokens); n > 0 && tokens[n-1].Kind == TokenText {
		tokens[n-1].Value += literal
		tokens[n-1].Source += literal
		return tokens
	}
	return append(tokens, Text(literal))
}

// Source reassembles the template text a token sequence was read from.
func Source(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Source)
	}
	return b.String()
}

// Names lists the distinct valid placeholder names in first-use order.
func Names(tokens []Token) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok.Kind != TokenVar || !tok.Valid() {
			continue
		}
		if _, ok := seen[tok.Value]; ok {
			continue
		}
		seen[tok.Value] = struct{}{}
		names = append(names, tok.Value)
	}
	return names
}
