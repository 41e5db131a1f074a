package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEchoDeterministic(t *testing.T) {
	gen := NewEcho()
	a, err := gen.Generate(context.Background(), "CONTEXT: matte white")
	require.NoError(t, err)
	b, err := gen.Generate(context.Background(), "CONTEXT: matte white")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.True(t, strings.HasPrefix(a, "Echoed guidance based on prompt:\n"))
	require.Contains(t, a, "CONTEXT: matte white")
}

func TestEchoTruncatesPrompt(t *testing.T) {
	gen := &Echo{Limit: 10}
	out, err := gen.Generate(context.Background(), strings.Repeat("x", 100))
	require.NoError(t, err)
	require.Equal(t, "Echoed guidance based on prompt:\n"+strings.Repeat("x", 10), out)
}

func TestEchoZeroLimitUsesDefault(t *testing.T) {
	gen := &Echo{}
	out, err := gen.Generate(context.Background(), strings.Repeat("y", DefaultEchoLimit+50))
	require.NoError(t, err)
	require.Len(t, out, len("Echoed guidance based on prompt:\n")+DefaultEchoLimit)
}
