package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRun(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(&out, strings.NewReader("desde-stdin\n\n"), nil, bcrypt.MinCost)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[0]), []byte("desde-stdin")))

	out.Reset()
	require.NoError(t, run(&out, strings.NewReader("ignored"), []string{"a", "тест123"}, bcrypt.MinCost))
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[1]), []byte("тест123")))

	assert.Error(t, run(&out, nil, []string{"x"}, 99))
}
