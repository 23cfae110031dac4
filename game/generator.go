package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// IndexPicker abstracts the random source so tests can inject a scripted one.
type IndexPicker interface {
	// Pick returns a uniform value in [0, n).
	Pick(n int) int
}

type cryptoPicker struct{}

func (cryptoPicker) Pick(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform's entropy source is
		// broken, at which point serving games is the least of our problems.
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return int(v.Int64())
}

// Generator draws sequence extensions uniformly from a room palette. Repeats
// are allowed; each draw is independent of the existing sequence.
type Generator struct {
	picker IndexPicker
}

func NewGenerator() Generator {
	return Generator{picker: cryptoPicker{}}
}

func NewGeneratorWithPicker(p IndexPicker) Generator {
	return Generator{picker: p}
}

// Next returns one color token from palette.
func (g Generator) Next(palette []string) (string, error) {
	if len(palette) < MinPaletteSize {
		return "", fmt.Errorf("%w: palette too small", ErrIllegalMove)
	}
	return palette[g.picker.Pick(len(palette))], nil
}
