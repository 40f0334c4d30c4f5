package pricecheck

import (
	"errors"
	"fmt"
	"strings"
)

// PriceSelector returns an XPath to the price element of the inventory item
// whose name text equals product. Whitespace in product is collapsed the same
// way normalize-space() collapses the page text.
func PriceSelector(sel Selectors, product string) (string, error) {
	product = strings.Join(strings.Fields(product), " ")
	if product == "" {
		return "", errors.New("product name must not be empty")
	}
	if sel.ItemClass == "" || sel.NameClass == "" || sel.PriceClass == "" {
		return "", errors.New("item, name and price classes are required")
	}

	return fmt.Sprintf("//*[%s][.//*[%s][normalize-space()=%s]]//*[%s]",
		hasClass(sel.ItemClass),
		hasClass(sel.NameClass),
		xpathLiteral(product),
		hasClass(sel.PriceClass),
	), nil
}

func hasClass(class string) string {
	return fmt.Sprintf("contains(concat(' ',normalize-space(@class),' '),' %s ')", class)
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}
