package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_ReturnsErrors(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	err := run([]string{"-no-such-flag"})
	assert.Error(t, err)

	err = run([]string{"-db-host", "127.0.0.1", "-db-port", "1", "-timeout", "2s"})
	assert.ErrorContains(t, err, "failed to connect to database")
}
