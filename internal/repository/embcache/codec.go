package embcache

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cache values are the raw little-endian float32 components.

func encodeVector(v []float32) []byte {
	out := make([]byte, 0, len(v)*4)
	for _, f := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("cached vector is %d bytes, not a multiple of 4", len(b))
	}
	v := make([]float32, 0, len(b)/4)
	for off := 0; off < len(b); off += 4 {
		v = append(v, math.Float32frombits(binary.LittleEndian.Uint32(b[off:])))
	}
	return v, nil
}
