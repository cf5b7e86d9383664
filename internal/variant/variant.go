// Package variant computes the stable variant identifier derived from a
// module's output-affecting option set (spec §3 I4, §4.2).
package variant

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// ID is a module's variant identifier: the low 32 bits of the SHA-256
// digest of its canonicalized option bytes, big-endian (spec fixes 32
// bits "for parity with the source"; see SPEC_FULL.md's Open Questions
// decision for why we did not switch to 64).
type ID uint32

// String renders the id as unpadded lowercase hex, the form used in
// artifact paths (spec §6, <variant_id?>).
func (id ID) String() string {
	return fmt.Sprintf("%x", uint32(id))
}

// Canonicalize sorts opts by ASCII case-insensitive key order and
// serializes them as UTF-8 "key=value" lines separated by "\n", with no
// trailing newline (spec §4.2). Keys are lowercased before serialization,
// so option maps that differ only in key case canonicalize to the same
// bytes. Only call this with the subset of a
// module's options explicitly marked changes_output_binary.
func Canonicalize(opts map[string]string) []byte {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToLower(k))
		b.WriteByte('=')
		b.WriteString(opts[k])
	}
	return []byte(b.String())
}

// Compute returns the variant id for the given output-affecting option
// map. When useVariants is false, Compute always returns 0 (spec §4.2).
func Compute(opts map[string]string, useVariants bool) ID {
	if !useVariants {
		return 0
	}
	sum := sha256.Sum256(Canonicalize(opts))
	// "low 32 bits ... big-endian": the last 4 bytes of the digest,
	// interpreted big-endian.
	return ID(binary.BigEndian.Uint32(sum[len(sum)-4:]))
}

// Compute64 is the undeployed 64-bit alternative discussed in
// SPEC_FULL.md's Open Questions section. Nothing in this repository calls
// it by default; it exists so a caller that wants the lower collision
// probability has somewhere to reach for it.
func Compute64(opts map[string]string, useVariants bool) uint64 {
	if !useVariants {
		return 0
	}
	sum := sha256.Sum256(Canonicalize(opts))
	return binary.BigEndian.Uint64(sum[len(sum)-8:])
}
