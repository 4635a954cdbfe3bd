package backoff

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
	"time"
)

// RandomSource yields uniform values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// RandomFunc adapts a plain function to RandomSource.
type RandomFunc func() float64

// Float64 calls f.
func (f RandomFunc) Float64() float64 {
	return f()
}

// FixedSource returns a source that always yields v.
func FixedSource(v float64) RandomSource {
	return RandomFunc(func() float64 { return v })
}

// NewSeededSource returns a deterministic PCG-backed source.
// Two sources built from the same seed produce the same draws.
func NewSeededSource(seed uint64) RandomSource {
	return mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) // #nosec G404 -- jitter, not crypto
}

// NewRandomSource returns a PCG-backed source seeded from crypto/rand.
// If crypto/rand is unavailable it falls back to a time-derived seed.
// The returned source is not safe for concurrent use.
func NewRandomSource() RandomSource {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		return NewSeededSource(now)
	}
	return mrand.New(mrand.NewPCG( // #nosec G404 -- jitter, not crypto
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}

// SyncSource wraps src so it can be shared between goroutines.
func SyncSource(src RandomSource) RandomSource {
	return &lockedSource{src: src}
}

// lockedSource serializes access to a shared source.
type lockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

var (
	defaultOnce sync.Once
	defaultRand RandomSource
)

// defaultSource is used by ApplyJitter when the caller passes a nil source.
func defaultSource() RandomSource {
	defaultOnce.Do(func() {
		defaultRand = SyncSource(NewRandomSource())
	})
	return defaultRand
}
