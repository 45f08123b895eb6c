package parser

import (
	"math"
	"strconv"

	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
)

// parseInteger reads an optionally signed decimal or 0x-hex literal. It
// returns the magnitude, the sign and the index of the digits token.
func (p *fileParser) parseInteger() (magnitude uint64, negative bool, idx int, err error) {
	if err := p.next(); err != nil {
		return 0, false, 0, err
	}
	if sign := p.cur().Text; sign == "+" || sign == "-" {
		negative = sign == "-"
		p.pos++
		if err := p.next(); err != nil {
			return 0, false, 0, err
		}
	}

	idx = p.pos
	magnitude, ok := parseMagnitude(p.cur().Text)
	if !ok {
		return 0, false, 0, p.errorAt(idx, idlErrors.ErrorTypeSyntax, msgInvalidInteger)
	}
	p.pos++
	return magnitude, negative, idx, nil
}

// parseMagnitude accepts "0", decimals without leading zeros, and 0x/0X
// hex literals that fit in 64 bits.
func parseMagnitude(text string) (uint64, bool) {
	if len(text) > 2 && text[0] == '0' && (text[1]|0x20) == 'x' {
		v, err := strconv.ParseUint(text[2:], 16, 64)
		return v, err == nil
	}
	if text == "" || (len(text) > 1 && text[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(text, 10, 64)
	return v, err == nil
}

// toInt64 applies the sign to a magnitude. It fails when the result does
// not fit in an int64.
func toInt64(magnitude uint64, negative bool) (int64, bool) {
	if negative {
		if magnitude > 1<<63 {
			return 0, false
		}
		if magnitude == 1<<63 {
			return math.MinInt64, true
		}
		return -int64(magnitude), true
	}
	if magnitude > math.MaxInt64 {
		return 0, false
	}
	return int64(magnitude), true
}
