// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"math/bits"
	"strings"
)

// stringCache is a cache of recently seen strings.
type stringCache [256]string // 256*unsafe.Sizeof(string("")) => 4KiB

// make returns a string equal to s that does not alias the scanner's input.
// Object member names repeat constantly across a document, so a small cache
// turns most of them into a single allocation; it also unpins names from the
// (possibly large) source text that plain substrings would keep alive.
func (c *stringCache) make(s string) string {
	const (
		minCachedLen = 2   // single byte strings are already interned by the runtime
		maxCachedLen = 256 // large enough for UUIDs, IPv6 addresses, SHA-256 checksums, etc.
	)
	if c == nil || len(s) < minCachedLen || len(s) > maxCachedLen {
		return strings.Clone(s)
	}

	// Compute a hash from the fixed-width prefix and suffix of the string.
	// This ensures hashing a string is a constant time operation.
	var lo, hi uint64
	switch {
	case len(s) >= 8:
		lo, hi = leUint64(s[:8]), leUint64(s[len(s)-8:])
	case len(s) >= 4:
		lo, hi = leUint32(s[:4]), leUint32(s[len(s)-4:])
	case len(s) >= 2:
		lo, hi = leUint16(s[:2]), leUint16(s[len(s)-2:])
	}
	n := uint64(len(s))
	h := hash128(lo^n, hi^n) // include the length as part of the hash

	// Check the cache for the string.
	i := h % uint64(len(*c))
	if v := (*c)[i]; v == s {
		return v
	}
	v := strings.Clone(s)
	(*c)[i] = v
	return v
}

func leUint64(s string) uint64 {
	_ = s[7]
	return uint64(s[0]) | uint64(s[1])<<8 | uint64(s[2])<<16 | uint64(s[3])<<24 |
		uint64(s[4])<<32 | uint64(s[5])<<40 | uint64(s[6])<<48 | uint64(s[7])<<56
}

func leUint32(s string) uint64 {
	_ = s[3]
	return uint64(s[0]) | uint64(s[1])<<8 | uint64(s[2])<<16 | uint64(s[3])<<24
}

func leUint16(s string) uint64 {
	_ = s[1]
	return uint64(s[0]) | uint64(s[1])<<8
}

// hash128 returns the hash of two uint64s as a single uint64.
func hash128(lo, hi uint64) uint64 {
	// If avalanche=true, this is identical to XXH64 hash on a 16B string:
	//	var b [16]byte
	//	binary.LittleEndian.PutUint64(b[:8], lo)
	//	binary.LittleEndian.PutUint64(b[8:], hi)
	//	return xxhash.Sum64(b[:])
	const (
		prime1 = 0x9e3779b185ebca87
		prime2 = 0xc2b2ae3d27d4eb4f
		prime3 = 0x165667b19e3779f9
		prime4 = 0x85ebca77c2b2ae63
		prime5 = 0x27d4eb2f165667c5
	)
	h := prime5 + uint64(16)
	h ^= bits.RotateLeft64(lo*prime2, 31) * prime1
	h = bits.RotateLeft64(h, 27)*prime1 + prime4
	h ^= bits.RotateLeft64(hi*prime2, 31) * prime1
	h = bits.RotateLeft64(h, 27)*prime1 + prime4
	// Skip final mix (avalanche) step of XXH64 for performance reasons.
	// Empirical testing shows that the improvements in unbiased distribution
	// does not outweigh the extra cost in computational complexity.
	const avalanche = false
	if avalanche {
		h ^= h >> 33
		h *= prime2
		h ^= h >> 29
		h *= prime3
		h ^= h >> 32
	}
	return h
}
