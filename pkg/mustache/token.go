package mustache

// TokenKind distinguishes literal text from placeholder references.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenVar
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenVar:
		return "var"
	default:
		return "unknown"
	}
}

// Token is one unit of a tokenized template.
//
// For TokenText, Value holds the literal content. For TokenVar, Value holds the
// trimmed placeholder name and Escaped is false for the raw `{{&name}}` form.
// Source is always the exact span of the template the token was read from, so
// concatenating every Source reproduces the input.
type Token struct {
	Kind    TokenKind
	Value   string
	Escaped bool
	Source  string
}

// Text builds a literal token.
func Text(literal string) Token {
	return Token{Kind: TokenText, Value: literal, Source: literal}
}

// Var builds an escaped placeholder token for name.
func Var(name string) Token {
	return Token{Kind: TokenVar, Value: name, Escaped: true, Source: "{{" + name + "}}"}
}

// RawVar builds an unescaped placeholder token for name.
func RawVar(name string) Token {
	return Token{Kind: TokenVar, Value: name, Source: "{{&" + name + "}}"}
}

// Valid reports whether a Var token carries a usable placeholder name. Literal
// tokens are always valid. Delimiter content such as `#section`, `/section` or
// `> partial` produces an invalid Var that renders its Source verbatim.
func (t Token) Valid() bool {
	if t.Kind != TokenVar {
		return true
	}
	return validName(t.Value)
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
