package hasher

import (
	"hash/fnv"
	"math/rand"
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/itchyny/base58-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// base58Regexp matches a valid Base58-encoded string of any length.
var base58Regexp = regexp.MustCompile(`^[A-HJ-NP-Za-km-z1-9]+$`)

func TestGenerate_Deterministic(t *testing.T) {
	urls := []string{
		"https://example.com/page",
		"https://go.dev/",
		"",
		"not a url at all",
		"https://example.com/päge?q=ü",
	}
	for _, u := range urls {
		first := Generate(u)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Generate(u), "key changed for %q", u)
		}
	}
}

func TestGenerate_StableAlgorithm(t *testing.T) {
	// Recompute the key independently to pin the algorithm down:
	// changing it would break every link handed out before.
	u := "https://example.com/page"

	h := fnv.New64a()
	_, err := h.Write([]byte(u))
	require.NoError(t, err)
	want := string(base58.BitcoinEncoding.EncodeUint64(h.Sum64()))

	assert.Equal(t, want, Generate(u))
}

func TestGenerate_Distinct(t *testing.T) {
	seen := make(map[string]string)
	for _, u := range []string{
		"https://go.dev",
		"https://go.dev/",
		"https://yandex.ru",
		"https://google.com",
		"https://github.com",
		"https://medium.com",
	} {
		key := Generate(u)
		prev, dup := seen[key]
		assert.False(t, dup, "%q and %q share key %q", u, prev, key)
		seen[key] = u
	}
}

func TestGenerate_Empty(t *testing.T) {
	key := Generate("")
	assert.NotEmpty(t, key)
	assert.Regexp(t, base58Regexp, key)
}

func BenchmarkGenerateLen10(b *testing.B) {
	randStr := randString(10)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Generate(randStr)
	}
}

func BenchmarkGenerateLen1000(b *testing.B) {
	randStr := randString(1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Generate(randStr)
	}
}

func randString(length uint) string {
	b := make([]byte, length)
	ln := len(alphabet)
	for i := range b {
		b[i] = alphabet[rand.Intn(ln)]
	}
	return string(b)
}

func FuzzGenerate(f *testing.F) {
	testcases := []string{
		"https://go.dev",
		"https://yandex.ru",
		"https://google.com",
		"https://github.com",
		"https://medium.com",
	}
	for _, tc := range testcases {
		f.Add(tc)
	}

	f.Fuzz(func(t *testing.T, a string) {
		res := Generate(a)
		assert.True(t, utf8.ValidString(res), "invalid utf-8 sequence")
		assert.True(t, base58Regexp.MatchString(res),
			"generated string expected to be base58 encoded")
		assert.LessOrEqual(t, len(res), 11)
		assert.Equal(t, res, Generate(a))
	})
}
