package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohits-web03/filekeep/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterStdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	w, closer := Writer(config.LogConfig{}, &buf)

	fmt.Fprint(w, "hello")
	assert.Equal(t, "hello", buf.String())
	assert.NoError(t, closer.Close())
}

func TestWriterWithFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "filekeep.log")
	w, closer := Writer(config.LogConfig{File: path, MaxSizeMB: 1}, &buf)

	fmt.Fprint(w, "rotated line\n")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rotated line\n", string(data))
	assert.Equal(t, "rotated line\n", buf.String())
}
