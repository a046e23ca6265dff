package sequencer

import "unicode/utf16"

// Token is a placeholder the sending platform substitutes per lead.
type Token string

const (
	TokenFirstName Token = "{{first_name}}"
	TokenLastName  Token = "{{last_name}}"
	TokenFullName  Token = "{{full_name}}"
	TokenEmail     Token = "{{email}}"
	TokenCompany   Token = "{{company}}"
	TokenTitle     Token = "{{title}}"
)

// Tokens lists the supported placeholders in display order.
var Tokens = []Token{
	TokenFirstName,
	TokenLastName,
	TokenFullName,
	TokenEmail,
	TokenCompany,
	TokenTitle,
}

var tokenLabels = map[Token]string{
	TokenFirstName: "First Name",
	TokenLastName:  "Last Name",
	TokenFullName:  "Full Name",
	TokenEmail:     "Email",
	TokenCompany:   "Company",
	TokenTitle:     "Title",
}

func (t Token) Label() string { return tokenLabels[t] }

// ParseToken accepts either the full placeholder ("{{email}}") or its bare name ("email").
func ParseToken(s string) (Token, bool) {
	for _, t := range Tokens {
		if string(t) == s || string(t) == "{{"+s+"}}" {
			return t, true
		}
	}
	return "", false
}

// Field names the step text a token is inserted into.
type Field string

const (
	FieldSubject Field = "subject"
	FieldBody    Field = "body"
)

func (f Field) Valid() bool {
	return f == FieldSubject || f == FieldBody
}

// InsertVariable replaces text[start:end) with token and returns the new text
// together with the cursor position just after the token. Offsets are UTF-16
// code units, the unit browsers report for selectionStart, and are clamped
// into range.
func InsertVariable(text string, start, end int, token Token) (string, int) {
	units := utf16.Encode([]rune(text))
	if start < 0 {
		start = 0
	}
	if start > len(units) {
		start = len(units)
	}
	if end < start {
		end = start
	}
	if end > len(units) {
		end = len(units)
	}

	tok := utf16.Encode([]rune(string(token)))
	out := make([]uint16, 0, len(units)-(end-start)+len(tok))
	out = append(out, units[:start]...)
	out = append(out, tok...)
	out = append(out, units[end:]...)
	return string(utf16.Decode(out)), start + len(tok)
}
