package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/motion/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeDefaultLibrary(t *testing.T) {
	r, err := Describe(config.Default())
	require.NoError(t, err)

	require.NotEmpty(t, r.Specs)
	require.NotEmpty(t, r.Enters)
	require.NotEmpty(t, r.Exits)

	var fade *TransitionEntry
	for i := range r.Enters {
		if r.Enters[i].Name == "fade-in" {
			fade = &r.Enters[i]
		}
	}
	require.NotNil(t, fade)
	assert.Equal(t, "fade", fade.Kind)
	require.Len(t, fade.Parts, 1)
	assert.Equal(t, "opacity", fade.Parts[0].Property)
	assert.Contains(t, fade.InitialStyle, "opacity")
}

func TestReportTree(t *testing.T) {
	r, err := Describe(config.Default())
	require.NoError(t, err)

	tree := r.Tree()
	assert.Contains(t, tree, "library")
	assert.Contains(t, tree, "fade-in")
	assert.Contains(t, tree, "slide-out-vertically")
	assert.Contains(t, tree, "[fade]")
}

func TestReportMarkdown(t *testing.T) {
	r, err := Describe(config.Default())
	require.NoError(t, err)

	md := r.Markdown()
	assert.Contains(t, md, "# Transition library")
	assert.Contains(t, md, "### fade-out")
	assert.Contains(t, md, "| linear |")
}

func TestPrintBannerPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.Equal(t, 0, Width(&bytes.Buffer{}))
}
