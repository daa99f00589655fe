package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDirectoryAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dex.log")

	logger, closer, err := Open(path, "catalog")
	require.NoError(t, err)
	logger.Printf("first")
	require.NoError(t, closer.Close())

	logger, closer, err = Open(path, "state")
	require.NoError(t, err)
	logger.Printf("second")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasSuffix(lines[0], "catalog first"), lines[0])
	require.True(t, strings.HasSuffix(lines[1], "state second"), lines[1])
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	logger, closer, err := Open("  ", "x")
	require.NoError(t, err)
	logger.Printf("dropped")
	require.NoError(t, closer.Close())
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dex.log")
	var all []string
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		all = append(all, line)
		b.WriteString(line + "\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"all when zero", 0, all},
		{"all when negative", -1, all},
		{"last three", 3, all[7:]},
		{"exactly all", 10, all},
		{"more than exists", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(path, tt.n)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "missing.log"), 5)
	require.NoError(t, err)
	require.Nil(t, got)
}
