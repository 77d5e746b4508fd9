package address

import (
	"regexp"
	"strings"
)

// rule is a single ordered rewrite applied during normalization.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

const directional = `(?:north|south|east|west|n|s|e|w)`

var punctuation = strings.NewReplacer(".", "", ",", "", "#", "")

// highwayRules unify the many spellings of state and US highways.
var highwayRules = []rule{
	{regexp.MustCompile(`\bhighway\s+(\d+)(?:\s+[ns]\b)?`), "hwy $1 "},
	{regexp.MustCompile(`\bsc-(\d+)\b`), "hwy $1"},
	{regexp.MustCompile(`(?:\b` + directional + `\s+)+hwy\b`), "hwy"},
	{regexp.MustCompile(`\bhwy\s+(\d+)(?:\s+` + directional + `\b)+`), "hwy $1"},
}

// streetTypeRules abbreviate street suffixes.
var streetTypeRules = []rule{
	{regexp.MustCompile(`\bstreet\b`), "st"},
	{regexp.MustCompile(`\bavenue\b`), "ave"},
	{regexp.MustCompile(`\bdrive\b`), "dr"},
	{regexp.MustCompile(`\broad\b`), "rd"},
	{regexp.MustCompile(`\blane\b`), "ln"},
	{regexp.MustCompile(`\bcourt\b`), "ct"},
	{regexp.MustCompile(`\bplace\b`), "pl"},
	{regexp.MustCompile(`\bboulevard\b`), "blvd"},
	{regexp.MustCompile(`\bcircle\b`), "cir"},
	{regexp.MustCompile(`\bparkway\b`), "pkwy"},
}

var directionalRules = []rule{
	{regexp.MustCompile(`\bnorth\b`), "n"},
	{regexp.MustCompile(`\bsouth\b`), "s"},
	{regexp.MustCompile(`\beast\b`), "e"},
	{regexp.MustCompile(`\bwest\b`), "w"},
}

var countrySuffix = regexp.MustCompile(`(?i),\s*united states\s*$`)

// Normalize returns the canonical form of a street address.
func Normalize(addr string) string {
	if addr == "" {
		return ""
	}

	s := collapse(strings.ToLower(addr))
	s = punctuation.Replace(s)
	s = collapse(s)

	s = apply(s, highwayRules)
	s = apply(s, streetTypeRules)
	s = apply(s, directionalRules)

	return collapse(s)
}

// StripCountry removes a trailing ", United States" from a formatted address.
func StripCountry(addr string) string {
	return strings.TrimSpace(countrySuffix.ReplaceAllString(addr, ""))
}

// StreetPart returns the portion of a formatted address before its first comma.
// An address without a comma is returned trimmed.
func StreetPart(addr string) string {
	street, _, _ := strings.Cut(addr, ",")
	return strings.TrimSpace(street)
}

func apply(s string, rules []rule) string {
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
