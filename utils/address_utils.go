package utils

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TrimHexPrefix removes a leading "0x" or "0X" from the provided string, if present.
func TrimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// IsHexString checks that every character of s is a hexadecimal digit. An empty string is considered valid.
func IsHexString(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')) {
			return false
		}
	}
	return true
}

// HexStringToAddress converts a hex string (with or without the "0x" prefix) to a common.Address. Unlike
// common.HexToAddress, the input must consist of exactly 40 hex digits, with any casing. Returns the parsed
// address, or an error if one occurs during conversion.
func HexStringToAddress(s string) (*common.Address, error) {
	digits := TrimHexPrefix(strings.TrimSpace(s))
	if len(digits) != 2*common.AddressLength {
		return nil, fmt.Errorf("address must be %d hex digits, got %d", 2*common.AddressLength, len(digits))
	}
	if !IsHexString(digits) {
		return nil, fmt.Errorf("address contains non-hex characters")
	}

	// Decode the hex string into a byte array and parse the bytes as an address.
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, err
	}
	address := common.BytesToAddress(b)
	return &address, nil
}

// AddressToLowerHex renders an address as a lowercase, 0x-prefixed hex string without checksum casing.
func AddressToLowerHex(address common.Address) string {
	return "0x" + hex.EncodeToString(address[:])
}
