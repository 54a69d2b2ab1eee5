// Package noise provides seeded 2D gradient noise and the derived shapes used by
// biome and corridor rules.
//
// A Field is owned by a single generation run. It is safe for concurrent reads
// once built, but Reseed must not race with sampling.
package noise

import (
	"math"
	"math/rand"
)

// Field holds the permutation table for one seed.
type Field struct {
	seed  int64
	perm  [512]uint8
	warpX [2]float64
	warpY [2]float64
}

// New builds a field for seed.
func New(seed int64) *Field {
	f := &Field{}
	f.Reseed(seed)
	return f
}

// Reseed rebuilds the permutation table and warp offsets from seed.
func (f *Field) Reseed(seed int64) {
	f.seed = seed
	rng := rand.New(rand.NewSource(seed))

	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	rng.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
	for i := range f.perm {
		f.perm[i] = p[i&255]
	}

	// The warp field samples the same table far away from the primary one.
	f.warpX = [2]float64{rng.Float64()*1000 + 100, rng.Float64()*1000 + 100}
	f.warpY = [2]float64{rng.Float64()*1000 + 100, rng.Float64()*1000 + 100}
}

// Seed returns the seed the field was built from.
func (f *Field) Seed() int64 {
	return f.seed
}

func fade(t float64) float64 {
	// 6t^5 - 15t^4 + 10t^3
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func grad(hash uint8, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}

// Perlin2D returns classic gradient noise in [-1, 1].
func (f *Field) Perlin2D(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	xi := int(x0) & 255
	yi := int(y0) & 255
	xf := x - x0
	yf := y - y0

	u := fade(xf)
	v := fade(yf)

	aa := f.perm[int(f.perm[xi])+yi]
	ab := f.perm[int(f.perm[xi])+yi+1]
	ba := f.perm[int(f.perm[xi+1])+yi]
	bb := f.perm[int(f.perm[xi+1])+yi+1]

	x1 := lerp(grad(aa, xf, yf), grad(ba, xf-1, yf), u)
	x2 := lerp(grad(ab, xf, yf-1), grad(bb, xf-1, yf-1), u)
	return clamp(lerp(x1, x2, v), -1, 1)
}

// FBM sums octaves of Perlin2D, normalised by the total amplitude. Range [-1, 1].
func (f *Field) FBM(x, y float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for range max(octaves, 1) {
		sum += f.Perlin2D(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return clamp(sum/norm, -1, 1)
}

// Hash01 returns a per-tile pseudo random value in [0, 1) for integer coordinates.
func (f *Field) Hash01(x, y int) float64 {
	// SplitMix64 style integer hash, stable across runs for the same inputs
	v := uint64(int64(x))*0x9E3779B97F4A7C15 + uint64(int64(y))*0xC2B2AE3D27D4EB4F + uint64(f.seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v ^= v >> 31
	return float64(v>>11) / float64(1<<53)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func to01(n float64) float64 {
	return clamp((n+1)/2, 0, 1)
}
