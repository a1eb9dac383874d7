package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// salaryTokenRegex matches numeric tokens in free-text salary strings,
// allowing thousands separators ("45,000") and decimals ("45000.50").
var salaryTokenRegex = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// parseSalaryText extracts up to two numeric tokens from a free-text salary
// string. One token is treated as a minimum; two become (min, max). Returns
// (nil, nil) when no numeric token is present, leaving the display string
// as the only salary information.
func parseSalaryText(s string) (*float64, *float64) {
	tokens := salaryTokenRegex.FindAllString(s, 2)
	if len(tokens) == 0 {
		return nil, nil
	}

	parse := func(tok string) *float64 {
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
		if err != nil {
			return nil
		}
		return &v
	}

	minVal := parse(tokens[0])
	if len(tokens) == 1 {
		return minVal, nil
	}
	return minVal, parse(tokens[1])
}
