package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	t.Run("fixed length", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			assert.Len(t, Generate(), codeLen)
		}
	})

	t.Run("only unambiguous characters", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			code := Generate()
			for _, r := range code {
				assert.Contains(t, alphabet, string(r))
			}
			assert.NotContains(t, code, "0")
			assert.NotContains(t, code, "O")
			assert.NotContains(t, code, "1")
			assert.NotContains(t, code, "I")
		}
	})

	t.Run("alphabet holds exactly 32 symbols", func(t *testing.T) {
		assert.Len(t, alphabet, 32)
		for _, r := range alphabet {
			assert.Equal(t, 1, strings.Count(alphabet, string(r)))
		}
	})

	t.Run("draws spread across the space", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			seen[Generate()] = struct{}{}
		}
		// 32^5 codes; a thousand draws colliding down to under 900
		// distinct values would mean a broken generator.
		assert.Greater(t, len(seen), 900)
	})
}
