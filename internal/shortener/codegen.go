package shortener

import "github.com/jaevor/go-nanoid"

// Alphabet is the character set for generated codes: digits, then
// uppercase, then lowercase. 62 characters.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultCodeLength is the length of generated codes unless configured.
const DefaultCodeLength = 6

// CodeGenerator produces random fixed-length codes. It does not guarantee
// global uniqueness; the registry enforces that against the store.
type CodeGenerator func() string

// NewCodeGenerator returns a generator drawing each character uniformly
// from Alphabet. Generated codes are lowercased before entering the
// lookup namespace, which halves the effective alphabet but keeps the
// namespace case-insensitive.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return gen, nil
}
