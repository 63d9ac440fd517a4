// Package prng implements the Mulberry32 generator used throughout
// voroscope. Animation determinism depends on this exact algorithm:
// given the same seed, every stream it produces must be byte-identical
// across platforms and Go versions.
package prng

const weylIncrement = 0x6D2B79F5

// Source is a Mulberry32 stream. The zero value is not usable; build
// one with New.
type Source struct {
	state uint32
}

// New returns a Source keyed by seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// Float64 returns the next value in [0, 1), computed from the top 32
// bits of the mixed state as required by the spec.
func (s *Source) Float64() float64 {
	s.state += weylIncrement
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / 4294967296
}

// Uint64, together with Seed, satisfies gonum's rand.Source so the
// stream can back distuv.Normal and similar consumers. It packs two
// independent Float64 draws into the high and low 32 bits; it is not
// part of the Mulberry32 output itself and carries no determinism
// guarantee beyond "same seed, same bits".
func (s *Source) Uint64() uint64 {
	hi := uint64(uint32(s.Float64() * 4294967296))
	lo := uint64(uint32(s.Float64() * 4294967296))
	return hi<<32 | lo
}

// Int63 returns the top 63 bits of Uint64.
func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Seed completes gonum's rand.Source. voroscope never calls it —
// streams are re-created with New instead — but gonum's distuv takes
// its Src through that interface.
func (s *Source) Seed(seed uint64) {
	s.state = uint32(seed)
}

// SubSeed derives an independent stream from base for index i, so that
// (for example) velocity initialization and site placement can be
// seeded from one top-level seed without correlating their draws.
// Mixing follows base ^ (i * golden-ratio-constant) through two
// Murmur3 finalize rounds.
func SubSeed(base uint32, i int) uint32 {
	h := base ^ (uint32(i) * 0x9E3779B9)
	h = murmurFinalize(h)
	h = murmurFinalize(h)
	return h
}

func murmurFinalize(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85EBCA6B
	h ^= h >> 13
	h *= 0xC2B2AE35
	h ^= h >> 16
	return h
}
