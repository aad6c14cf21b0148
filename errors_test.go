package iomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	err := &Error{Code: KindResource, Op: "submit_accept"}

	assert.True(t, IsKind(err, KindResource))
	assert.False(t, IsKind(err, KindIO))
	assert.False(t, IsKind(nil, KindResource))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Op: "submit_read", Fd: 4, Code: KindInvalid, Msg: "empty buffer"}
	assert.Equal(t, "iomp: submit_read: empty buffer (fd=4)", err.Error())
}
