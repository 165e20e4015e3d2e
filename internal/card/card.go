package card

import (
	"fmt"
	"strings"
)

// BIN is the issuer prefix of every derived card number.
const BIN = "420769"

const bodyLength = 10

// Half selects which half of the contract address feeds the card body.
type Half string

const (
	FirstHalf  Half = "first"
	SecondHalf Half = "second"
)

// ParseHalf accepts "first" or "second", case-insensitively.
func ParseHalf(s string) (Half, error) {
	switch Half(strings.ToLower(strings.TrimSpace(s))) {
	case FirstHalf:
		return FirstHalf, nil
	case SecondHalf:
		return SecondHalf, nil
	}
	return "", fmt.Errorf("half must be %q or %q, got %q", FirstHalf, SecondHalf, s)
}

// Derive maps a contract address to a 16 character card number. It is total:
// an empty or fully invalid address yields BIN followed by ten zeros.
func Derive(contractAddress string, half Half) string {
	hex := sanitize(contractAddress)

	mid := len(hex) / 2
	part := hex[:mid]
	if half == SecondHalf {
		part = hex[mid:]
	}

	if len(part) > bodyLength {
		part = part[:bodyLength]
	}
	return BIN + part + strings.Repeat("0", bodyLength-len(part))
}

func sanitize(address string) string {
	address = strings.TrimPrefix(strings.ToLower(address), "0x")

	var b strings.Builder
	b.Grow(len(address))
	for i := 0; i < len(address); i++ {
		c := address[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
