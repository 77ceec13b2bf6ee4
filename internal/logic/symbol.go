package logic

import "strings"

// DefaultSymbol is used when a request names no symbol.
const DefaultSymbol = "BTC"

// requestSymbol returns symbol unchanged unless it is blank.
func requestSymbol(symbol string) string {
	if strings.TrimSpace(symbol) == "" {
		return DefaultSymbol
	}
	return symbol
}
