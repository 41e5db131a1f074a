package generator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestFlattenSingleChoice(t *testing.T) {
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "use matte fronts"}},
	}
	require.Equal(t, "use matte fronts", flatten(resp))
}

func TestFlattenJoinsChoices(t *testing.T) {
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: "first part"},
			nil,
			{Content: "second part"},
			{Content: ""},
		},
	}
	require.Equal(t, "first part\nsecond part", flatten(resp))
}

func TestFlattenNil(t *testing.T) {
	require.Equal(t, "", flatten(nil))
}

func TestFlattenEmptyChoicesStringifies(t *testing.T) {
	out := flatten(&llms.ContentResponse{})
	require.NotEqual(t, "", out, "unrecognized shapes are stringified, not dropped")
}
