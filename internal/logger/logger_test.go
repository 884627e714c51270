package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	// WHY: callers use Get() without Init() in tests and tooling; it must never return nil.
	l := Get()
	assert.NotNil(t, l)
	assert.Same(t, l, Get())

	// Init after first use keeps the existing logger.
	Init("production")
	assert.Same(t, l, Get())

	Sync()
}
