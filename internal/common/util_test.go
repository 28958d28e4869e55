package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	s2, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.NotEqual(t, s, s2)
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	for i, b := range buf {
		assert.Zero(t, b, "byte %d not wiped", i)
	}
}
