package noise

import "math"

// Get samples Perlin2D at (x/scale, y/scale) remapped to [0, 1].
func (f *Field) Get(x, y, scale float64) float64 {
	if scale == 0 {
		scale = 1
	}
	return to01(f.Perlin2D(x/scale, y/scale))
}

// GetFBM samples FBM at (x/scale, y/scale) remapped to [0, 1].
func (f *Field) GetFBM(x, y, scale float64, octaves int, persistence, lacunarity float64) float64 {
	if scale == 0 {
		scale = 1
	}
	return to01(f.FBM(x/scale, y/scale, octaves, persistence, lacunarity))
}

// Stretched samples with independent divisors per axis, giving anisotropic bands.
func (f *Field) Stretched(x, y, scaleX, scaleY float64) float64 {
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}
	return to01(f.Perlin2D(x/scaleX, y/scaleY))
}

// Ridge is 1-|n|: sharp ridges along the zero crossings.
func (f *Field) Ridge(x, y, scale float64) float64 {
	if scale == 0 {
		scale = 1
	}
	return clamp(1-math.Abs(f.Perlin2D(x/scale, y/scale)), 0, 1)
}

// Billowy is |n|: rounded valleys.
func (f *Field) Billowy(x, y, scale float64) float64 {
	if scale == 0 {
		scale = 1
	}
	return clamp(math.Abs(f.Perlin2D(x/scale, y/scale)), 0, 1)
}

// Terrace quantises Get into steps evenly spaced levels k/(steps-1).
// A steps value below 2 collapses to 0.
func (f *Field) Terrace(x, y, scale float64, steps int) float64 {
	if steps < 2 {
		return 0
	}
	level := int(math.Floor(f.Get(x, y, scale) * float64(steps)))
	level = min(max(level, 0), steps-1)
	return float64(level) / float64(steps-1)
}

// Band returns 1 when the sample lies within width/2 of center, else 0.
func (f *Field) Band(x, y, scale, center, width float64) float64 {
	if math.Abs(f.Get(x, y, scale)-center) <= width/2 {
		return 1
	}
	return 0
}

// Warped offsets the sampling position by a second noise lookup before sampling
// the primary field (domain warping). strength is in tiles.
func (f *Field) Warped(x, y, scale, strength float64) float64 {
	if scale == 0 {
		scale = 1
	}
	sx := x / scale
	sy := y / scale
	dx := f.Perlin2D(sx+f.warpX[0], sy+f.warpX[1])
	dy := f.Perlin2D(sx+f.warpY[0], sy+f.warpY[1])
	return to01(f.Perlin2D((x+dx*strength)/scale, (y+dy*strength)/scale))
}

// Arch is a geometric test independent of any seed. Arches repeat every spacing
// tiles along x; each is a parabola with the given half-width and peak height.
// y is the height above the arch base. Returns 1 under the parabola, else 0.
func Arch(x, y, spacing, halfWidth, height float64) float64 {
	if spacing <= 0 || halfWidth <= 0 || height <= 0 {
		return 0
	}
	local := math.Mod(x, spacing)
	if local < 0 {
		local += spacing
	}
	dx := (local - spacing/2) / halfWidth
	if math.Abs(dx) > 1 {
		return 0
	}
	if y >= 0 && y <= height*(1-dx*dx) {
		return 1
	}
	return 0
}
