package generator

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"
	"unicode"
)

var abbrPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ValidAbbr reports whether abbr may name a module directory and package.
func ValidAbbr(abbr string) bool {
	return abbrPattern.MatchString(abbr)
}

// PackageName returns the Go package name for a module abbreviation.
func PackageName(abbr string) string {
	name := strings.ToLower(abbr)
	if token.IsKeyword(name) {
		name += "mod"
	}
	return name
}

// initialisms are upper-cased as a whole when they form a word.
var initialisms = map[string]bool{
	"ID": true, "IO": true, "URL": true, "HTTP": true, "JSON": true, "API": true,
	"CPU": true, "FFT": true, "SQL": true, "UUID": true,
}

// GoName converts a contract name such as "min_freq" or "sample-rate" to an
// exported Go identifier.
func GoName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var sb strings.Builder
	for _, w := range words {
		if up := strings.ToUpper(w); initialisms[up] {
			sb.WriteString(up)
			continue
		}
		runes := []rune(w)
		sb.WriteRune(unicode.ToUpper(runes[0]))
		sb.WriteString(string(runes[1:]))
	}
	out := sb.String()
	if out == "" {
		return ""
	}
	if r := []rune(out)[0]; !unicode.IsLetter(r) || !unicode.IsUpper(r) {
		out = "X" + out
	}
	return out
}

// FlagName converts a contract name to a kebab-case flag name.
func FlagName(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
			continue
		}
		dash = true
	}
	return sb.String()
}

// nameSet hands out unique identifiers in call order.
type nameSet struct {
	used     map[string]bool
	reserved map[string]string // name -> replacement
	fallback string
}

func newNameSet(fallback string, reserved map[string]string) *nameSet {
	return &nameSet{used: make(map[string]bool), reserved: reserved, fallback: fallback}
}

// take returns base, or base with a numeric suffix when already used.
// An empty base becomes the fallback with its position.
func (s *nameSet) take(base string, pos int) string {
	if base == "" {
		base = fmt.Sprintf("%s%d", s.fallback, pos+1)
	}
	if r, ok := s.reserved[base]; ok {
		base = r
	}
	name := base
	for i := 2; s.used[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	s.used[name] = true
	return name
}

// Go identifiers that clash with methods of generated types.
var methodNames = map[string]string{
	"ValidateRanges":   "ValidateRangesParam",
	"LoadContractDict": "LoadContractDictParam",
	"ContractFieldMap": "ContractFieldMapParam",
}

// Flag names the generated command defines itself.
var reservedFlags = map[string]string{
	"help":   "p-help",
	"params": "p-params",
	"input":  "p-input",
}

// flagSet hands out unique flag names with "-N" suffixes.
type flagSet struct {
	used map[string]bool
}

func (s *flagSet) take(base string, pos int) string {
	if base == "" {
		base = fmt.Sprintf("param-%d", pos+1)
	}
	if r, ok := reservedFlags[base]; ok {
		base = r
	}
	name := base
	for i := 2; s.used[name]; i++ {
		name = fmt.Sprintf("%s-%d", base, i)
	}
	s.used[name] = true
	return name
}

// oneLine collapses whitespace so text is safe inside a line comment.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
