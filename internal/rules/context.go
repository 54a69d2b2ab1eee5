// Package rules evaluates condition trees against per-tile contexts and resolves
// biomes and tiles with first-match-wins semantics.
package rules

// Key names one value in a Context. The set is closed.
type Key int

const (
	KeyUnknown Key = iota

	// Noise-derived signals. These can be re-sampled at a different scale.
	KeyNoise
	KeyDetail
	KeyFBM
	KeyCave
	KeyRidge
	KeyBillow
	KeyWarp
	KeyStretch
	KeyTerrace // quantised noise, one of a fixed number of levels
	KeyBand    // 1 inside the configured noise band, else 0

	// Neighbour passability, 1 when the neighbour is open.
	KeyOpenUp
	KeyOpenDown
	KeyOpenLeft
	KeyOpenRight

	KeyArch
	KeyDepth // y / height, 0 at the top
	KeyXPos  // x / width
	KeyX
	KeyY
	KeyRandom

	numKeys
)

var keyNames = [numKeys]string{
	KeyUnknown:   "unknown",
	KeyNoise:     "noise",
	KeyDetail:    "detail",
	KeyFBM:       "fbm",
	KeyCave:      "cave",
	KeyRidge:     "ridge",
	KeyBillow:    "billow",
	KeyWarp:      "warp",
	KeyStretch:   "stretch",
	KeyTerrace:   "terrace",
	KeyBand:      "band",
	KeyOpenUp:    "open_up",
	KeyOpenDown:  "open_down",
	KeyOpenLeft:  "open_left",
	KeyOpenRight: "open_right",
	KeyArch:      "arch",
	KeyDepth:     "depth",
	KeyXPos:      "xpos",
	KeyX:         "x",
	KeyY:         "y",
	KeyRandom:    "random",
}

// ParseKey returns the key for a name, or KeyUnknown and false.
func ParseKey(name string) (Key, bool) {
	for k := KeyNoise; k < numKeys; k++ {
		if keyNames[k] == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

// String returns the data-file name of the key.
func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return "unknown"
	}
	return keyNames[k]
}

// IsNoiseDerived reports whether the key's value comes from a noise sample.
func (k Key) IsNoiseDerived() bool {
	return k >= KeyNoise && k <= KeyBand
}

// NoiseKeys lists the noise-derived keys in declaration order.
func NoiseKeys() []Key {
	return []Key{KeyNoise, KeyDetail, KeyFBM, KeyCave, KeyRidge, KeyBillow, KeyWarp, KeyStretch, KeyTerrace, KeyBand}
}

// Context is the per-tile bag of numeric inputs.
type Context struct {
	X, Y   int
	values [numKeys]float64
}

// NewContext creates a context for tile (x, y) with the raw coordinate keys set.
func NewContext(x, y int) *Context {
	c := &Context{X: x, Y: y}
	c.values[KeyX] = float64(x)
	c.values[KeyY] = float64(y)
	return c
}

// Set stores a value. Unknown keys are ignored.
func (c *Context) Set(k Key, v float64) {
	if k <= KeyUnknown || k >= numKeys {
		return
	}
	c.values[k] = v
}

// SetFlag stores 1 for true and 0 for false.
func (c *Context) SetFlag(k Key, on bool) {
	if on {
		c.Set(k, 1)
		return
	}
	c.Set(k, 0)
}

// Value returns the stored value. Unknown keys read as 0.
func (c *Context) Value(k Key) float64 {
	if k <= KeyUnknown || k >= numKeys {
		return 0
	}
	return c.values[k]
}
