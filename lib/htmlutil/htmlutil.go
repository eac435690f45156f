package htmlutil

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses a text node's content into a single printable line.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

var priceRegex = regexp.MustCompile(`\d+(?:[ \x{202f}\x{00a0}]\d{3})*(?:[.,]\d{1,2})?`)

// ParsePrice reads the first currency amount out of marketplace card text
// like "12,50 €", "1 234,56 €" or "$12.50". Comma is accepted as the
// decimal separator, thin/non-breaking spaces as thousands separators.
func ParsePrice(s string) (float64, bool) {
	match := priceRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	for _, sep := range []string{" ", " ", " "} {
		match = strings.ReplaceAll(match, sep, "")
	}
	if i := strings.LastIndex(match, ","); i >= 0 {
		// only the last comma can be a decimal separator
		match = strings.ReplaceAll(match[:i], ",", "") + "." + match[i+1:]
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

var countRegex = regexp.MustCompile(`(\d+(?:[.,]\d+)?) *([kKmM]?)`)

// ParseCount reads an engagement counter like "345", "1,2 k" or "3.4M".
func ParseCount(s string) (int, bool) {
	groups := countRegex.FindStringSubmatch(s)
	if groups == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(groups[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(groups[2]) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	return int(v), true
}

// ParseTimestamp reads an ISO-8601 timestamp, tolerating a missing
// timezone (assumed UTC). ok=false for anything else; there is
// deliberately no error value, an unparsable timestamp is a defined
// degraded state rather than a failure.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
