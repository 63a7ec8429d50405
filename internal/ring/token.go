// Package ring models the consistent-hash token ring: tokens, token
// ranges, cluster instances, replication factor, and the immutable
// sub-range-to-replica-list map a partitioner produces.
package ring

import (
	"fmt"
	"math/big"
)

// Token is a position on the ring. The ring is signed and unbounded in
// principle (Murmur3 is 64-bit signed, but callers may plug in wider
// partitioners), so Token wraps big.Int rather than int64.
type Token struct {
	v *big.Int
}

// NewToken builds a Token from an int64, the common case for Murmur3.
func NewToken(v int64) Token {
	return Token{v: big.NewInt(v)}
}

// NewTokenFromBigInt builds a Token from an arbitrary-precision value.
func NewTokenFromBigInt(v *big.Int) Token {
	return Token{v: new(big.Int).Set(v)}
}

// Compare returns -1, 0, or 1 per big.Int.Cmp semantics.
func (t Token) Compare(other Token) int {
	return t.v.Cmp(other.v)
}

func (t Token) Less(other Token) bool    { return t.Compare(other) < 0 }
func (t Token) Equal(other Token) bool   { return t.Compare(other) == 0 }
func (t Token) LessOrEqual(o Token) bool { return t.Compare(o) <= 0 }

func (t Token) String() string {
	return t.v.String()
}

// BigInt exposes the underlying value for partitioners that need to do
// further arithmetic (e.g. splitting a range into N sub-ranges).
func (t Token) BigInt() *big.Int {
	return new(big.Int).Set(t.v)
}

// Add returns t + delta.
func (t Token) Add(delta *big.Int) Token {
	return Token{v: new(big.Int).Add(t.v, delta)}
}

// Sub returns t - other as a big.Int (not a Token, since the
// difference of two ring positions is a magnitude, not a position).
func (t Token) Sub(other Token) *big.Int {
	return new(big.Int).Sub(t.v, other.v)
}

var (
	// MinToken and MaxToken bound the Murmur3 64-bit signed range.
	MinToken = NewToken(-1 << 63)
	MaxToken = NewToken(1<<63 - 1)
)

// Partitioner produces a Token for a partition key and exposes the
// ring's min/max bounds. A concrete partitioner (Murmur3, the only one
// this module ships) is a Token function plus its domain.
type Partitioner interface {
	// Name identifies the partitioner, e.g. "Murmur3Partitioner".
	Name() string
	// Hash computes the ring token for a partition key's serialized bytes.
	Hash(partitionKey []byte) Token
	// MinToken and MaxToken bound the ring.
	MinToken() Token
	MaxToken() Token
}

// Murmur3Partitioner is Cassandra's default partitioner: MurmurHash3
// x64 128-bit, truncated to the first 64 bits, interpreted as signed.
type Murmur3Partitioner struct{}

func (Murmur3Partitioner) Name() string    { return "org.apache.cassandra.dht.Murmur3Partitioner" }
func (Murmur3Partitioner) MinToken() Token { return MinToken }
func (Murmur3Partitioner) MaxToken() Token { return MaxToken }

func (Murmur3Partitioner) Hash(partitionKey []byte) Token {
	h := murmur3Sum128(partitionKey)
	return NewToken(int64(h))
}

// murmur3Sum128 returns the low 64 bits of MurmurHash3_x64_128 seeded
// with 0, matching Cassandra's token assignment.
func murmur3Sum128(data []byte) uint64 {
	const (
		c1 = 0x87c37b91114253d5
		c2 = 0x4cf5ad432745937f
	)

	length := len(data)
	h1 := uint64(0)
	h2 := uint64(0)

	nblocks := length / 16
	for i := 0; i < nblocks; i++ {
		k1 := getBlock64(data, i*16)
		k2 := getBlock64(data, i*16+8)

		k1 *= c1
		k1 = rotl64(k1, 31)
		k1 *= c2
		h1 ^= k1

		h1 = rotl64(h1, 27)
		h1 += h2
		h1 = h1*5 + 0x52dce729

		k2 *= c2
		k2 = rotl64(k2, 33)
		k2 *= c1
		h2 ^= k2

		h2 = rotl64(h2, 31)
		h2 += h1
		h2 = h2*5 + 0x38495ab5
	}

	tail := data[nblocks*16:]
	var k1, k2 uint64
	switch len(tail) {
	case 15:
		k2 ^= uint64(tail[14]) << 48
		fallthrough
	case 14:
		k2 ^= uint64(tail[13]) << 40
		fallthrough
	case 13:
		k2 ^= uint64(tail[12]) << 32
		fallthrough
	case 12:
		k2 ^= uint64(tail[11]) << 24
		fallthrough
	case 11:
		k2 ^= uint64(tail[10]) << 16
		fallthrough
	case 10:
		k2 ^= uint64(tail[9]) << 8
		fallthrough
	case 9:
		k2 ^= uint64(tail[8])
		k2 *= c2
		k2 = rotl64(k2, 33)
		k2 *= c1
		h2 ^= k2
		fallthrough
	case 8:
		k1 ^= uint64(tail[7]) << 56
		fallthrough
	case 7:
		k1 ^= uint64(tail[6]) << 48
		fallthrough
	case 6:
		k1 ^= uint64(tail[5]) << 40
		fallthrough
	case 5:
		k1 ^= uint64(tail[4]) << 32
		fallthrough
	case 4:
		k1 ^= uint64(tail[3]) << 24
		fallthrough
	case 3:
		k1 ^= uint64(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint64(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint64(tail[0])
		k1 *= c1
		k1 = rotl64(k1, 31)
		k1 *= c2
		h1 ^= k1
	}

	h1 ^= uint64(length)
	h2 ^= uint64(length)
	h1 += h2
	h2 += h1
	h1 = fmix64(h1)
	h2 = fmix64(h2)
	h1 += h2

	return h1
}

func getBlock64(data []byte, offset int) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(data[offset+i]) << (8 * i)
	}
	return v
}

func rotl64(x uint64, r uint) uint64 {
	return (x << r) | (x >> (64 - r))
}

func fmix64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}

// ParseToken parses a decimal string into a Token, for ring state
// supplied from configuration or a discovered topology.
func ParseToken(s string) (Token, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Token{}, fmt.Errorf("invalid token %q: not a base-10 integer", s)
	}
	return NewTokenFromBigInt(v), nil
}
