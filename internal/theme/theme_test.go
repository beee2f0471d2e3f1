package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableIncludesBuiltins(t *testing.T) {
	names := Available()
	assert.Contains(t, names, DefaultName)
	assert.Contains(t, names, "desk-dark")
	assert.Contains(t, names, "nord")
	assert.IsNonDecreasing(t, names)
}

func TestSetCurrentResolvesAlias(t *testing.T) {
	t.Cleanup(func() { _ = SetCurrent(DefaultName) })

	require.NoError(t, SetCurrent("Desk-Dark"))
	assert.Equal(t, "desk-dark", CurrentName())

	require.NoError(t, SetCurrent("default"))
	assert.Equal(t, DefaultName, CurrentName())

	require.Error(t, SetCurrent("no-such-theme"))
}

func TestFlagRejectsUnknownTheme(t *testing.T) {
	f := NewFlag("")
	assert.Equal(t, DefaultName, f.String())
	require.NoError(t, f.Set("gruvbox-dark"))
	assert.Equal(t, "gruvbox-dark", f.Value())
	require.Error(t, f.Set("missing"))
}

func TestSeedPaletteDerivesContrast(t *testing.T) {
	p, ok := Get("solarized-light")
	require.True(t, ok)
	assert.Equal(t, "#FDF6E3", p.Color(ColorSurface).Light)

	d, ok := Get("dracula")
	require.True(t, ok)
	// pale yellow warning needs dark text
	assert.Equal(t, "#121418", d.Color(ColorWarningText).Light)
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, "#121418", ContrastText("#F5F5F5"))
	assert.Equal(t, "#F8F8F8", ContrastText("#1E88E5"))
	assert.Equal(t, "#121418", ContrastText("not-a-color"))
}

func TestNormalizeHex(t *testing.T) {
	assert.Equal(t, "#AABBCC", normalizeHex("abc"))
	assert.Equal(t, "#A1B2C3", normalizeHex("#a1b2c3"))
	assert.Empty(t, normalizeHex("  "))
}

func TestBlend(t *testing.T) {
	assert.Equal(t, "#FFFFFF", blend("#000000", white, 1))
	assert.Equal(t, "#000000", blend("#000000", white, 0))
	assert.Equal(t, "#000000", blend("#FFFFFF", black, 2))
	assert.Equal(t, "#ZZZZZZ", blend("zzzzzz", white, 0.5))
}

func TestPaletteFallsBackToDefault(t *testing.T) {
	p := Palette{Name: "partial", Colors: map[Token]Color{ColorPrimary: {Dark: "#101010"}}}
	assert.Equal(t, Color{Light: "#101010", Dark: "#101010"}, p.Color(ColorPrimary))

	def, ok := Get(DefaultName)
	require.True(t, ok)
	assert.Equal(t, def.Color(ColorDanger), p.Color(ColorDanger))
}

func TestFromContext(t *testing.T) {
	dark, ok := Get("desk-dark")
	require.True(t, ok)
	ctx := ContextWithPalette(context.Background(), dark)
	assert.Equal(t, "desk-dark", FromContext(ctx).Name)
	assert.Equal(t, CurrentName(), FromContext(context.Background()).Name)
}
