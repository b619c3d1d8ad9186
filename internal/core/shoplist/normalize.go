package shoplist

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matches a leading run of digits and numeric punctuation, optionally
// followed by unit text.
var amountPattern = regexp.MustCompile(`^([0-9.,]+)\s*(.*)$`)

// NormalizeName title-cases every whitespace-separated token of an
// ingredient name. Tokens that do not start with a letter are dropped.
func NormalizeName(name string) string {
	tokens := strings.Fields(name)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		r, size := utf8.DecodeRuneInString(tok)
		if !unicode.IsLetter(r) {
			continue
		}
		out = append(out, string(unicode.ToUpper(r))+strings.ToLower(tok[size:]))
	}
	return strings.Join(out, " ")
}

// NormalizeAmount inserts a single space between a leading numeric run
// and the following unit text ("100g" -> "100 g"). Amounts without a
// leading numeric run are returned trimmed unchanged.
func NormalizeAmount(amount string) string {
	amount = strings.TrimSpace(amount)
	m := amountPattern.FindStringSubmatch(amount)
	if m == nil {
		return amount
	}
	if m[2] == "" {
		return m[1]
	}
	return m[1] + " " + m[2]
}

// Normalize cleans a line's name and amount in place and returns it.
// Idempotent: applying it twice yields the same line.
func Normalize(line IngredientLine) IngredientLine {
	line.Name = NormalizeName(line.Name)
	line.Amount = NormalizeAmount(line.Amount)
	return line
}
