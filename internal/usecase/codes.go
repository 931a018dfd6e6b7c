package usecase

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"
)

const (
	DefaultCodeLength   = 6
	DefaultCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces candidate room codes. Uniqueness is checked by the registry.
type CodeGenerator interface {
	Generate() string
}

type randomCodes struct {
	length   int
	alphabet []rune
}

func NewRandomCodeGenerator(length int, alphabet string) CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}

	alphabet = normalizeAlphabet(alphabet)
	if alphabet == "" {
		alphabet = DefaultCodeAlphabet
	}

	return &randomCodes{
		length:   length,
		alphabet: []rune(alphabet),
	}
}

// normalizeAlphabet upper-cases and dedupes so generated codes survive NormalizeRoomID.
func normalizeAlphabet(alphabet string) string {
	seen := make(map[rune]bool)

	var builder strings.Builder
	for _, r := range strings.ToUpper(alphabet) {
		if seen[r] || unicode.IsSpace(r) {
			continue
		}
		seen[r] = true
		builder.WriteRune(r)
	}

	return builder.String()
}

func (that *randomCodes) Generate() string {
	limit := big.NewInt(int64(len(that.alphabet)))

	code := make([]rune, that.length)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			n = big.NewInt(0)
		}
		code[i] = that.alphabet[n.Int64()]
	}

	return string(code)
}
