package reader

import (
	"encoding/hex"
	"strings"
)

// FrameSize is the number of bytes the reader collects for a single scan.
const FrameSize = 128

// The reader types each serial byte as a key press followed by a release, so
// every 16 bytes of a frame carry one significant byte at offset 2.
var significantIndices = [8]int{2, 18, 34, 50, 66, 82, 98, 114}

// ExtractCardID derives the card identity from a raw frame. It only succeeds
// if all eight significant bytes are present and non-zero.
func ExtractCardID(frame []byte) (string, bool) {
	serial := make([]byte, 0, len(significantIndices))

	for _, i := range significantIndices {
		if i >= len(frame) || frame[i] == 0 {
			return "", false
		}

		serial = append(serial, frame[i])
	}

	return strings.ToUpper(hex.EncodeToString(serial)), true
}

// EncodeFrame is the inverse of ExtractCardID. It writes the serial bytes of
// card into a zeroed frame.
func EncodeFrame(card string, frame []byte) bool {
	for i := range frame {
		frame[i] = 0
	}

	serial, err := hex.DecodeString(strings.TrimSpace(card))
	if err != nil || len(serial) != len(significantIndices) {
		return false
	}

	for n, i := range significantIndices {
		if i >= len(frame) {
			return false
		}

		frame[i] = serial[n]
	}

	return true
}
