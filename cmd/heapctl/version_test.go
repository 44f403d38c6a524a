package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionBacksRootFlag(t *testing.T) {
	// --version and the version subcommand must report the same string.
	assert.Equal(t, version, rootCmd.Version)
}
