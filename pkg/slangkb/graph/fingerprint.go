package graph

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"strconv"
)

// Fingerprint hashes the raw graph content into a cache identity.
func Fingerprint(nodes []RawNode, links []RawLink) string {
	h := fnv.New64a()
	var buf [8]byte
	writeString := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	for _, n := range nodes {
		writeString(n.ID)
		writeString(n.Category)
		writeFloat(n.Value)
	}
	h.Write([]byte{1})
	for _, l := range links {
		writeString(l.Source)
		writeString(l.Target)
		writeFloat(l.Value)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
