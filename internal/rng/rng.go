// Package rng provides the seedable random stream behind the entropy event.
//
// Bytes come from HMAC-SHA256(seed, "<stream>:<nonce>:<round>") in 32-byte
// rounds; every four bytes form a float in [0, 1). The same seed, stream and
// nonce always replay the same sequence, so a recorded seed reproduces a match.
package rng

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Source is the randomness the engine consumes.
type Source interface {
	// Intn returns a uniform integer in [0, n). n must be positive.
	Intn(n int) int
}

// ByteGenerator streams HMAC-SHA256 output.
type ByteGenerator struct {
	seed         string
	stream       string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator creates a generator positioned at the start of the stream.
func NewByteGenerator(seed, stream string, nonce uint64) *ByteGenerator {
	bg := &ByteGenerator{seed: seed, stream: stream, nonce: nonce}
	bg.generateRound()
	return bg
}

// Next returns the next byte.
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= len(bg.buffer) {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}
	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat consumes exactly four bytes.
func (bg *ByteGenerator) NextFloat() float64 {
	return bytesToFloat([4]byte{bg.Next(), bg.Next(), bg.Next(), bg.Next()})
}

// Intn implements Source.
func (bg *ByteGenerator) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: Intn called with n=%d", n))
	}
	i := int(math.Floor(bg.NextFloat() * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.seed))
	fmt.Fprintf(h, "%s:%d:%d", bg.stream, bg.nonce, bg.currentRound)
	copy(bg.buffer[:], h.Sum(nil))
}

func bytesToFloat(b [4]byte) float64 {
	result := 0.0
	for i, v := range b {
		result += float64(v) / math.Pow(256, float64(i+1))
	}
	return result
}

// Perm returns a uniform permutation of [0, n) by Fisher-Yates selection:
// each step draws one remaining element from the pool.
func Perm(src Source, n int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	out := make([]int, 0, n)
	for len(pool) > 0 {
		idx := src.Intn(len(pool))
		out = append(out, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return out
}

// DeriveSeed returns a per-match seed: hex(HMAC-SHA256(salt, id)).
func DeriveSeed(salt, id string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}

// RandomSalt returns 32 hex characters from crypto/rand.
func RandomSalt() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
