package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrDependency, "fetch user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fetch user")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOfThroughChain(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(ErrSelfFollow, "cannot follow yourself"))

	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrSelfFollow, code)
	assert.True(t, Is(err, ErrSelfFollow))
	assert.False(t, Is(err, ErrNotFollowing))
}

func TestCodeOfForeignError(t *testing.T) {
	_, ok := CodeOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, Is(nil, ErrValidation))
}
