package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRandomCodeGenerator(t *testing.T) {
	t.Run("Alphabet is upper-cased and deduplicated", func(t *testing.T) {
		generator := NewRandomCodeGenerator(4, "aAb b")

		codes, ok := generator.(*randomCodes)

		assert.True(t, ok)
		assert.Equal(t, []rune("AB"), codes.alphabet)
	})

	t.Run("Defaults apply to empty settings", func(t *testing.T) {
		code := NewRandomCodeGenerator(0, "  ").Generate()

		assert.Len(t, code, DefaultCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(DefaultCodeAlphabet, r))
		}
	})

	t.Run("Generated codes only use the normalized alphabet", func(t *testing.T) {
		generator := NewRandomCodeGenerator(8, "xyz")

		for i := 0; i < 20; i++ {
			code := generator.Generate()
			assert.Len(t, code, 8)
			assert.Empty(t, strings.Trim(code, "XYZ"))
		}
	})
}
