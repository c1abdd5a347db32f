package codegen

import (
	"math/rand"
	"strings"
)

// 32 symbols, no 0/O or 1/I/l lookalikes. Codes are shared out loud
// and scribbled on napkins, so every character must survive the round trip.
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const codeLen = 5

// Generate returns a 5-character join code. Uniform independent draw per
// character; collision handling belongs to the caller.
func Generate() string {
	var builder strings.Builder
	builder.Grow(codeLen)

	for i := 0; i < codeLen; i++ {
		builder.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}

	return builder.String()
}
