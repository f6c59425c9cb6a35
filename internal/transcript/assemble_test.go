package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleJoinsWordsWithSingleSpaces(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"cq", "de", "s53zo"}, Options{})
	require.Equal(t, "cq de s53zo", got)
}

func TestAssembleUppercase(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"hello", "world"}, Options{Uppercase: true})
	require.Equal(t, "HELLO WORLD", got)
}

func TestAssembleTrailingNewline(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"hello"}, Options{TrailingNewline: true})
	require.Equal(t, "hello\n", got)

	require.Empty(t, Assemble(nil, Options{TrailingNewline: true}))
}

func TestAssembleSkipsEmptyWords(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"", "  ", "t"}, Options{})
	require.Equal(t, "t", got)
}
