package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IsVersion7(t *testing.T) {
	assert.Equal(t, 7, int(New().Version()))
}

func TestNewSpanID_Hex16(t *testing.T) {
	span := NewSpanID()
	assert.Len(t, span, 16)
	assert.Regexp(t, `^[0-9a-f]{16}$`, span)
}
