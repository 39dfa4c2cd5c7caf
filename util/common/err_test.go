package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))

	a := errors.New("a")
	b := errors.New("b")
	err := Combine(a, nil, b)
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}

func TestRecover(t *testing.T) {
	assert.NotPanics(t, func() {
		defer Recover("test")
		panic("boom")
	})
}
