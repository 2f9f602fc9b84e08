package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(New(NotFound, "gone")))
	assert.Equal(t, Conflict, KindOf(Newf(Conflict, "dup %d", 1)))

	// unclassified errors collapse to Storage
	assert.Equal(t, Storage, KindOf(errors.New("boom")))

	// the kind survives wrapping by callers
	wrapped := fmt.Errorf("handler: %w", New(InvalidState, "closed"))
	assert.Equal(t, InvalidState, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, InvalidState))
	assert.False(t, IsKind(wrapped, Conflict))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "survey 4 not found", Message(Newf(NotFound, "survey %d not found", 4)))

	// storage detail never reaches the caller
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	assert.Equal(t, "internal server error", Message(Wrap(Storage, "load survey", cause)))
	assert.Equal(t, "internal server error", Message(cause))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Wrap(Storage, "insert answer", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert answer")
	assert.Contains(t, err.Error(), "disk I/O error")
}
