package id

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"sync"
	"time"

	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
)

// Variant selects the identifier layout.
type Variant string

const (
	// VariantRandom is the fully random layout (version 4).
	VariantRandom Variant = "random"
	// VariantTimeOrdered is the timestamp-prefixed layout (version 7).
	VariantTimeOrdered Variant = "time-ordered"
)

// Generator produces identifiers from an entropy source and a clock. The
// zero value is not usable; construct with NewGenerator or
// NewGeneratorWithSource.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator returns a Generator backed by crypto/rand and the wall clock.
func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.Reader, time.Now)
}

// NewGeneratorWithSource returns a Generator with an explicit entropy source
// and clock. Tests use this to make output deterministic.
func NewGeneratorWithSource(entropy io.Reader, now func() time.Time) *Generator {
	return &Generator{entropy: entropy, now: now}
}

// Generate returns a new identifier in the given variant's layout.
func (g *Generator) Generate(variant Variant) (string, error) {
	switch variant {
	case VariantRandom:
		return g.newRandom()
	case VariantTimeOrdered:
		return g.newTimeOrdered()
	default:
		return "", apperrors.WithMetadata(apperrors.CodeUnknownVariant, "unknown identifier variant", map[string]string{
			"variant": string(variant),
		})
	}
}

func (g *Generator) newRandom() (string, error) {
	var b [16]byte
	if err := g.read(b[:]); err != nil {
		return "", err
	}
	b[6] = 0x40 | (b[6] & 0x0F)
	b[8] = 0x80 | (b[8] & 0x3F)
	return format(b), nil
}

func (g *Generator) newTimeOrdered() (string, error) {
	var b [16]byte
	ms := uint64(g.now().UnixMilli())
	b[0] = byte(ms >> 40)
	b[1] = byte(ms >> 32)
	b[2] = byte(ms >> 24)
	b[3] = byte(ms >> 16)
	b[4] = byte(ms >> 8)
	b[5] = byte(ms)
	if err := g.read(b[6:]); err != nil {
		return "", err
	}
	b[6] = 0x70 | (b[6] & 0x0F)
	b[8] = 0x80 | (b[8] & 0x3F)
	return format(b), nil
}

func (g *Generator) read(dst []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := io.ReadFull(g.entropy, dst); err != nil {
		return apperrors.Wrap(apperrors.CodeGenerationUnavailable, "read entropy", err)
	}
	return nil
}

func format(b [16]byte) string {
	var buf [36]byte
	hex.Encode(buf[0:8], b[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], b[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], b[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], b[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], b[10:16])
	return string(buf[:])
}

// Validation is the outcome of validating a candidate identifier.
type Validation struct {
	Valid   bool
	Version int // version nibble, zero when invalid
}

// Validate reports whether candidate is a well-formed identifier. It accepts
// uppercase and lowercase hex digits, requires the canonical 8-4-4-4-12
// grouping, a version nibble between 1 and 7, and the RFC 4122 variant bits.
// Validate never fails: malformed input yields a zero Validation.
func Validate(candidate string) Validation {
	if len(candidate) != 36 {
		return Validation{}
	}
	for i := 0; i < len(candidate); i++ {
		switch i {
		case 8, 13, 18, 23:
			if candidate[i] != '-' {
				return Validation{}
			}
		default:
			if hexVal(candidate[i]) < 0 {
				return Validation{}
			}
		}
	}
	version := hexVal(candidate[14])
	if version < 1 || version > 7 {
		return Validation{}
	}
	if hexVal(candidate[19])&0xC != 0x8 {
		return Validation{}
	}
	return Validation{Valid: true, Version: version}
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
