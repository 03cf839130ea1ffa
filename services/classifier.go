package services

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRegexp captures the first integer-with-optional-fraction run in a
// price string, after comma separators have been normalized to dots.
var numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)

// currencyMarkers are the tokens that identify a line as a price line.
var currencyMarkers = []string{"$", "€", "EUR", "USD"}

// ParsePrice extracts a numeric price from strings like "0.08 $", "$1.16",
// or "0,29 €". Both "." and "," are accepted as decimal separators. The
// second return value is false when the string contains no number at all.
func ParsePrice(raw string) (float64, bool) {
	normalized := strings.ReplaceAll(raw, ",", ".")
	match := numberRegexp.FindString(normalized)
	if match == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// SplitCardLines breaks one raw result-card text block into trimmed,
// non-empty lines in original order.
func SplitCardLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ClassifyCard partitions a card's lines into a name and a price.
//
// A line qualifies as the price line when it contains a currency marker, or
// when it is the last line and contains at least one digit. When several
// lines qualify the last one wins; qualifying lines never contribute to the
// name. The remaining lines, joined by single spaces in original order, form
// the observed name — card layouts split long pet names across lines.
//
// Cards with fewer than two lines, no price line, or an unparseable price
// are rejected (ok=false). Rejection is silent here; the caller only counts
// how many cards survived.
func ClassifyCard(lines []string) (name string, price float64, ok bool) {
	if len(lines) < 2 {
		return "", 0, false
	}

	priceLine := ""
	var nameParts []string

	for i, line := range lines {
		isPrice := containsCurrencyMarker(line)
		if !isPrice && i == len(lines)-1 && containsDigit(line) {
			isPrice = true
		}
		if isPrice {
			priceLine = line
		} else {
			nameParts = append(nameParts, line)
		}
	}

	if priceLine == "" {
		return "", 0, false
	}
	price, ok = ParsePrice(priceLine)
	if !ok {
		return "", 0, false
	}

	return strings.Join(nameParts, " "), price, true
}

func containsCurrencyMarker(line string) bool {
	for _, marker := range currencyMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func containsDigit(line string) bool {
	return strings.ContainsAny(line, "0123456789")
}
