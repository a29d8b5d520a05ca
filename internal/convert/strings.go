// Package convert holds string-in/string-out value conversions used by
// field tooling. Callers pass values exactly as scraped from device or
// log output ("0b1010 0110", "0xC0 01", "9600") and get strings back,
// keeping the functions chainable from shell pipelines.
package convert

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// stripBinary drops an optional 0b indicator and any spacing between
// nibbles, leaving bare binary digits.
func stripBinary(value string) string {
	if idx := strings.LastIndex(value, "b"); idx >= 0 {
		value = value[idx+1:]
	}
	return strings.ReplaceAll(value, " ", "")
}

// stripHex drops an optional 0x indicator and any spacing.
func stripHex(value string) string {
	if idx := strings.LastIndex(value, "x"); idx >= 0 {
		value = value[idx+1:]
	}
	return strings.ReplaceAll(value, " ", "")
}

func parseBase(value string, base int, what string) (*big.Int, error) {
	parsed, ok := new(big.Int).SetString(value, base)
	if !ok {
		return nil, fmt.Errorf("parse %s value %q", what, value)
	}
	return parsed, nil
}

func parseFloat(value string, what string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s value %q: %w", what, value, err)
	}
	return parsed, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// padLeft zero-fills text to at least width characters.
func padLeft(text string, width int) string {
	if len(text) >= width {
		return text
	}
	return strings.Repeat("0", width-len(text)) + text
}

// BaudToKBaud converts symbols per second to kilo symbols per second.
func BaudToKBaud(bauds string) (string, error) {
	value, err := parseFloat(bauds, "baud")
	if err != nil {
		return "", err
	}
	return formatFloat(value * 1e-3), nil
}

// KBaudToBaud converts kilo symbols per second to symbols per second.
func KBaudToBaud(kbaud string) (string, error) {
	value, err := parseFloat(kbaud, "kbaud")
	if err != nil {
		return "", err
	}
	return formatFloat(value * 1e3), nil
}

// HzToMHz converts Hertz to MegaHertz.
func HzToMHz(hz string) (string, error) {
	value, err := parseFloat(hz, "Hz")
	if err != nil {
		return "", err
	}
	return formatFloat(value * 1e-6), nil
}

// MHzToHz converts MegaHertz to Hertz.
func MHzToHz(mhz string) (string, error) {
	value, err := parseFloat(mhz, "MHz")
	if err != nil {
		return "", err
	}
	return formatFloat(value * 1e6), nil
}

// HHzToMHz converts HectoHertz to MegaHertz.
func HHzToMHz(hhz string) (string, error) {
	value, err := parseFloat(hhz, "hHz")
	if err != nil {
		return "", err
	}
	return formatFloat(value * 1e-4), nil
}

// MHzToHHz converts MegaHertz to HectoHertz.
func MHzToHHz(mhz string) (string, error) {
	value, err := parseFloat(mhz, "MHz")
	if err != nil {
		return "", err
	}
	return formatFloat(value * 1e4), nil
}

// BinaryToDecimal converts a binary representation, with or without the
// 0b indicator and nibble spacing, to its decimal representation.
func BinaryToDecimal(binary string) (string, error) {
	parsed, err := parseBase(stripBinary(binary), 2, "binary")
	if err != nil {
		return "", err
	}
	return parsed.Text(10), nil
}

// BinaryToHex converts a binary representation to uppercase hex without
// the 0x indicator, zero-filled to the nibble count of the input.
func BinaryToHex(binary string) (string, error) {
	stripped := stripBinary(binary)
	parsed, err := parseBase(stripped, 2, "binary")
	if err != nil {
		return "", err
	}
	width := (len(stripped) + 3) / 4
	return padLeft(strings.ToUpper(parsed.Text(16)), width), nil
}

// BytestringToDecimal interprets raw bytes as one big-endian integer and
// returns the decimal representation ("\xc0\x01" -> "49153").
func BytestringToDecimal(bytestring string) (string, error) {
	if bytestring == "" {
		return "", fmt.Errorf("parse bytestring: empty input")
	}
	return new(big.Int).SetBytes([]byte(bytestring)).Text(10), nil
}

// DecimalToBinary converts a decimal representation to binary without the
// 0b indicator, zero-filled to at least 8 bits.
func DecimalToBinary(decimal string) (string, error) {
	parsed, err := parseBase(strings.TrimSpace(decimal), 10, "decimal")
	if err != nil {
		return "", err
	}
	return padLeft(parsed.Text(2), 8), nil
}

// DecimalToHex converts a decimal representation to lowercase hex without
// the 0x indicator.
func DecimalToHex(decimal string) (string, error) {
	parsed, err := parseBase(strings.TrimSpace(decimal), 10, "decimal")
	if err != nil {
		return "", err
	}
	return parsed.Text(16), nil
}

// HexToBinary converts a hex representation to binary without the 0b
// indicator, zero-filled to four bits per input hex digit.
func HexToBinary(hexValue string) (string, error) {
	stripped := stripHex(hexValue)
	parsed, err := parseBase(stripped, 16, "hex")
	if err != nil {
		return "", err
	}
	return padLeft(parsed.Text(2), len(stripped)*4), nil
}

// HexToDecimal converts a hex representation to its decimal representation.
func HexToDecimal(hexValue string) (string, error) {
	parsed, err := parseBase(stripHex(hexValue), 16, "hex")
	if err != nil {
		return "", err
	}
	return parsed.Text(10), nil
}

// DecodeASCIIFromHex decodes ascii text from a hex representation
// ("61" -> "a"). Pairs that do not decode to ascii come back as "0"
// placeholders rather than failing the whole value, so a mostly-good
// input still yields something inspectable ("Taco 0ell").
func DecodeASCIIFromHex(hexValue string) (string, error) {
	stripped := stripHex(hexValue)
	if len(stripped)%2 != 0 {
		stripped = "0" + stripped
	}

	var builder strings.Builder
	for i := 0; i < len(stripped); i += 2 {
		pair := stripped[i : i+2]
		decoded, err := hex.DecodeString(pair)
		if err != nil || decoded[0] > 0x7f {
			builder.WriteByte('0')
			continue
		}
		builder.WriteByte(decoded[0])
	}
	return builder.String(), nil
}

// DecodeASCIIFromBinary decodes ascii text from a binary representation
// ("01100001" -> "a"), with the same "0" placeholder policy as
// DecodeASCIIFromHex.
func DecodeASCIIFromBinary(binary string) (string, error) {
	hexValue, err := BinaryToHex(binary)
	if err != nil {
		return "", err
	}
	return DecodeASCIIFromHex(hexValue)
}

// EncodeASCIIToHex encodes text to its ascii hex representation ("a" -> "61").
func EncodeASCIIToHex(asciiValue string) (string, error) {
	return hex.EncodeToString([]byte(asciiValue)), nil
}

// EncodeASCIIToBinary encodes text to its ascii binary representation
// ("a" -> "01100001").
func EncodeASCIIToBinary(asciiValue string) (string, error) {
	hexValue, err := EncodeASCIIToHex(asciiValue)
	if err != nil {
		return "", err
	}
	return HexToBinary(hexValue)
}

// EncodeASCIIToDecimal encodes text to concatenated per-character decimal
// codes ("ab" -> "9798").
func EncodeASCIIToDecimal(asciiValue string) (string, error) {
	var builder strings.Builder
	for _, b := range []byte(asciiValue) {
		builder.WriteString(strconv.Itoa(int(b)))
	}
	return builder.String(), nil
}
