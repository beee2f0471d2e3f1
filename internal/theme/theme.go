// Package theme holds the color palettes shared by charts, tables and the
// progress view.
package theme

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultName is the palette used when nothing is configured.
const DefaultName = "desk-light"

// Token names a semantic color slot.
type Token string

const (
	ColorTextPrimary   Token = "text.primary"
	ColorTextSecondary Token = "text.secondary"
	ColorTextMuted     Token = "text.muted"
	ColorBorder        Token = "border"
	ColorSurface       Token = "surface"
	ColorSurfaceText   Token = "surface.text"
	ColorPrimary       Token = "primary"
	ColorPrimaryText   Token = "primary.text"
	ColorAccent        Token = "accent"
	ColorAccentText    Token = "accent.text"
	ColorSuccess       Token = "success"
	ColorSuccessText   Token = "success.text"
	ColorInfo          Token = "info"
	ColorInfoText      Token = "info.text"
	ColorWarning       Token = "warning"
	ColorWarningText   Token = "warning.text"
	ColorDanger        Token = "danger"
	ColorDangerText    Token = "danger.text"
	ColorHighlight     Token = "highlight"
)

// Color stores the variants for light and dark terminal backgrounds.
type Color struct {
	Light string `json:"light" yaml:"light"`
	Dark  string `json:"dark"  yaml:"dark"`
}

func (c Color) empty() bool {
	return strings.TrimSpace(c.Light) == "" && strings.TrimSpace(c.Dark) == ""
}

// filled copies one variant into the other when only one is set.
func (c Color) filled() Color {
	if strings.TrimSpace(c.Light) == "" {
		c.Light = c.Dark
	}
	if strings.TrimSpace(c.Dark) == "" {
		c.Dark = c.Light
	}
	return c
}

// Adaptive converts the color into a lipgloss adaptive color.
func (c Color) Adaptive() lipgloss.AdaptiveColor {
	if c.empty() {
		return lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}
	}
	c = c.filled()
	return lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark}
}

// Palette is one named theme.
type Palette struct {
	Name        string
	DisplayName string
	About       string
	Colors      map[Token]Color
}

// Color returns the palette's color for token, or the default palette's
// when this one leaves it out.
func (p Palette) Color(token Token) Color {
	if c, ok := p.Colors[token]; ok && !c.empty() {
		return c.filled()
	}
	return reg.fallback(token)
}

func (p Palette) Adaptive(token Token) lipgloss.AdaptiveColor {
	return p.Color(token).Adaptive()
}

func (p Palette) ForegroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Adaptive(token))
}

func (p Palette) BackgroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Background(p.Adaptive(token))
}

type contextKey struct{}

// ContextWithPalette stores the palette on the context.
func ContextWithPalette(ctx context.Context, p Palette) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the palette stored on the context or the current palette.
func FromContext(ctx context.Context) Palette {
	if ctx != nil {
		if p, ok := ctx.Value(contextKey{}).(Palette); ok {
			return p
		}
	}
	return Current()
}
