package shortlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	codec, err := New("", DefaultMinLength)
	require.NoError(t, err)

	for _, id := range []uint{1, 2, 42, 100000} {
		code, err := codec.Encode(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(code), DefaultMinLength)

		again, err := codec.Encode(id)
		require.NoError(t, err)
		assert.Equal(t, code, again, "encoding must be deterministic")

		decoded, err := codec.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestDistinctIDsGetDistinctCodes(t *testing.T) {
	codec, err := New("", DefaultMinLength)
	require.NoError(t, err)

	a, _ := codec.Encode(7)
	b, _ := codec.Encode(8)
	assert.NotEqual(t, a, b)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec, err := New("", DefaultMinLength)
	require.NoError(t, err)

	_, err = codec.Decode("!!")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = codec.Decode("")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestCustomAlphabet(t *testing.T) {
	codec, err := New("abcdefghijklmnopqrstuvwxyz", 0)
	require.NoError(t, err)

	code, err := codec.Encode(12345)
	require.NoError(t, err)
	assert.Regexp(t, "^[a-z]+$", code)
}
