package audio

import (
	"encoding/binary"
	"math"
)

// putS16 writes samples into dst as little endian 16 bit PCM with the given
// channel count. Mono output averages left and right. It returns the bytes
// written.
func putS16(dst []byte, samples [][2]float64, channels int) int {
	off := 0
	for _, s := range samples {
		if channels == 1 {
			binary.LittleEndian.PutUint16(dst[off:], uint16(toS16((s[0]+s[1])/2)))
			off += 2
			continue
		}

		binary.LittleEndian.PutUint16(dst[off:], uint16(toS16(s[0])))
		binary.LittleEndian.PutUint16(dst[off+2:], uint16(toS16(s[1])))
		off += 4
	}

	return off
}

// toS16 clamps v to [-1, 1] and scales it to int16.
func toS16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}
