package conversation

import (
	"regexp"
	"strings"
)

// SKUMatcher recognizes catalog references of the form SKU-#### in free text.
// It holds no mutable state and can be shared between goroutines.
type SKUMatcher struct {
	re *regexp.Regexp
}

func NewSKUMatcher() *SKUMatcher {
	return &SKUMatcher{re: regexp.MustCompile(`(?i)SKU-[0-9]{4}`)}
}

// Extract returns the upper-cased SKUs mentioned in text, deduplicated in
// first-seen order. A match followed by a fifth digit is not a SKU.
func (m *SKUMatcher) Extract(text string) []string {
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(locs))
	out := make([]string, 0, len(locs))
	for _, loc := range locs {
		if end := loc[1]; end < len(text) && isDigit(text[end]) {
			continue
		}
		sku := strings.ToUpper(text[loc[0]:loc[1]])
		if _, dup := seen[sku]; dup {
			continue
		}
		seen[sku] = struct{}{}
		out = append(out, sku)
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
