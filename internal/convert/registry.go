package convert

import (
	"fmt"
	"sort"
)

// Func is a single string conversion.
type Func func(value string) (string, error)

// operations is the closed set of conversions reachable by name. Dispatch
// happens through Apply after membership is checked; nothing is looked up
// dynamically outside this map.
var operations = map[string]Func{
	"baud_to_kbaud":            BaudToKBaud,
	"binary_to_decimal":        BinaryToDecimal,
	"binary_to_hex":            BinaryToHex,
	"bytestring_to_decimal":    BytestringToDecimal,
	"decimal_to_binary":        DecimalToBinary,
	"decimal_to_hex":           DecimalToHex,
	"decode_ascii_from_binary": DecodeASCIIFromBinary,
	"decode_ascii_from_hex":    DecodeASCIIFromHex,
	"encode_ascii_to_binary":   EncodeASCIIToBinary,
	"encode_ascii_to_decimal":  EncodeASCIIToDecimal,
	"encode_ascii_to_hex":      EncodeASCIIToHex,
	"hex_to_binary":            HexToBinary,
	"hex_to_decimal":           HexToDecimal,
	"hhz_to_mhz":               HHzToMHz,
	"hz_to_mhz":                HzToMHz,
	"kbaud_to_baud":            KBaudToBaud,
	"mhz_to_hhz":               MHzToHHz,
	"mhz_to_hz":                MHzToHz,
}

// Names lists the available conversion operations, sorted.
func Names() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs the named conversion on value. Unknown names fail before any
// dispatch happens.
func Apply(name, value string) (string, error) {
	fn, ok := operations[name]
	if !ok {
		return "", fmt.Errorf("unknown conversion %q", name)
	}
	return fn(value)
}
