package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// hexFlag is a 16-bit address flag accepting 0x1234, 1234h or decimal.
type hexFlag uint16

var _ pflag.Value = (*hexFlag)(nil)

func (h *hexFlag) String() string { return fmt.Sprintf("0x%04X", uint16(*h)) }

func (h *hexFlag) Type() string { return "addr" }

func (h *hexFlag) Set(s string) error {
	v, err := parseImmediate(s)
	if err != nil {
		return fmt.Errorf("bad address %q: %w", s, err)
	}
	if v < 0 || v > 0xFFFF {
		return fmt.Errorf("address %q out of range", s)
	}
	*h = hexFlag(v)
	return nil
}

func parseImmediate(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}

	// Handle hex: 0xFF, FFh
	var v int
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, err := fmt.Sscanf(s[2:], "%x", &v)
		return v, err
	}
	if strings.HasSuffix(strings.ToUpper(s), "H") {
		_, err := fmt.Sscanf(s[:len(s)-1], "%x", &v)
		return v, err
	}

	// Decimal
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}
