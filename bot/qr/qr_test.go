package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()
	ref, err := gen.Generate(`{"id":"abc123"}`)
	require.NoError(t, err)
	assert.Regexp(t, `^qr_[0-9a-z]{8}\.png$`, ref.Name)
	assert.NotEmpty(t, ref.PNG)
	// PNG signature.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, ref.PNG[:4])
}

func TestGenerateUniqueNames(t *testing.T) {
	gen := NewGenerator()
	a, err := gen.Generate("payload")
	require.NoError(t, err)
	b, err := gen.Generate("payload")
	require.NoError(t, err)
	assert.NotEqual(t, a.Name, b.Name)
}

func TestGenerateEmptyPayload(t *testing.T) {
	_, err := NewGenerator().Generate("")
	assert.Error(t, err)
}
