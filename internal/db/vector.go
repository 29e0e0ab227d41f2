package db

import (
	"encoding/binary"
	"math"
)

// VectorToBytes encodes a float32 slice as the little-endian byte blob
// the query engine expects, both for hash writes and KNN query params.
func VectorToBytes(vec []float32) string {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return string(buf)
}

// BytesToVector decodes the blob form back into a float32 slice.
func BytesToVector(s string) []float32 {
	if len(s) < 4 {
		return nil
	}
	vec := make([]float32, len(s)/4)
	for i := range vec {
		bits := binary.LittleEndian.Uint32([]byte(s[i*4 : i*4+4]))
		vec[i] = math.Float32frombits(bits)
	}
	return vec
}
