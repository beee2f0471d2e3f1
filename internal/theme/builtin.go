package theme

import "strings"

// seed is the minimal set of terminal colors a palette is derived from.
type seed struct {
	ID, DisplayName, About string

	Fg, Bg, Muted                  string
	Accent, AccentBright           string
	Success, Info, Warning, Danger string
	Highlight                      string
}

var builtinSeeds = []seed{
	{
		ID: "nord", DisplayName: "Nord", About: "Arctic, north-bluish palette.",
		Fg: "#D8DEE9", Bg: "#2E3440", Muted: "#4C566A",
		Accent: "#88C0D0", AccentBright: "#81A1C1",
		Success: "#A3BE8C", Info: "#5E81AC", Warning: "#EBCB8B", Danger: "#BF616A",
		Highlight: "#ECEFF4",
	},
	{
		ID: "gruvbox-dark", DisplayName: "Gruvbox Dark", About: "Retro groove palette.",
		Fg: "#EBDBB2", Bg: "#282828", Muted: "#928374",
		Accent: "#689D6A", AccentBright: "#83A598",
		Success: "#98971A", Info: "#458588", Warning: "#D79921", Danger: "#CC241D",
		Highlight: "#FBF1C7",
	},
	{
		ID: "solarized-light", DisplayName: "Solarized Light", About: "Precision colors for machines and people.",
		Fg: "#657B83", Bg: "#FDF6E3", Muted: "#93A1A1",
		Accent: "#2AA198", AccentBright: "#268BD2",
		Success: "#859900", Info: "#268BD2", Warning: "#B58900", Danger: "#DC322F",
		Highlight: "#EEE8D5",
	},
	{
		ID: "dracula", DisplayName: "Dracula", About: "Dark theme with vivid accents.",
		Fg: "#F8F8F2", Bg: "#282A36", Muted: "#6272A4",
		Accent: "#8BE9FD", AccentBright: "#BD93F9",
		Success: "#50FA7B", Info: "#6272A4", Warning: "#F1FA8C", Danger: "#FF5555",
		Highlight: "#FFFFFF",
	},
}

func (s seed) palette() Palette {
	colors := map[Token]Color{
		ColorTextPrimary:   solid(s.Fg),
		ColorTextSecondary: shade(s.Fg, 0.25, 0.2, Color{Light: "#1F2026", Dark: "#D7D9E3"}),
		ColorTextMuted:     shade(s.Muted, 0.35, 0.35, Color{Light: "#646A7A", Dark: "#7C8298"}),
		ColorBorder:        shade(s.Muted, 0.15, 0.25, solid("#4A4D65")),
		ColorSurface:       solid(s.Bg),
		ColorSurfaceText:   solid(s.Fg),
		ColorHighlight:     solid(s.Highlight),
	}
	for _, slot := range []struct {
		fill, text Token
		hex        string
	}{
		{ColorPrimary, ColorPrimaryText, s.Accent},
		{ColorAccent, ColorAccentText, s.AccentBright},
		{ColorSuccess, ColorSuccessText, s.Success},
		{ColorInfo, ColorInfoText, s.Info},
		{ColorWarning, ColorWarningText, s.Warning},
		{ColorDanger, ColorDangerText, s.Danger},
	} {
		colors[slot.fill], colors[slot.text] = onColor(slot.hex)
	}
	return Palette{
		Name:        s.ID,
		DisplayName: strings.TrimSpace(s.DisplayName),
		About:       strings.TrimSpace(s.About),
		Colors:      colors,
	}
}

// deskPalettes are the two palettes tuned for the case dashboards. Their
// status colors match the rainbow and deadline categories.
func deskPalettes() []Palette {
	light := map[Token]string{
		ColorTextPrimary:   "#1B1F24",
		ColorTextSecondary: "#424A53",
		ColorTextMuted:     "#6E7781",
		ColorBorder:        "#D0D7DE",
		ColorSurface:       "#FFFFFF",
		ColorSurfaceText:   "#1B1F24",
		ColorPrimary:       "#1A5FB4",
		ColorPrimaryText:   "#FFFFFF",
		ColorAccent:        "#2EA043",
		ColorAccentText:    "#FFFFFF",
		ColorSuccess:       "#43A047",
		ColorSuccessText:   "#FFFFFF",
		ColorInfo:          "#1E88E5",
		ColorInfoText:      "#FFFFFF",
		ColorWarning:       "#FB8C00",
		ColorWarningText:   "#1B1F24",
		ColorDanger:        "#E53935",
		ColorDangerText:    "#FFFFFF",
		ColorHighlight:     "#EAEEF2",
	}
	dark := map[Token]string{
		ColorTextPrimary:   "#E6EDF3",
		ColorTextSecondary: "#C9D1D9",
		ColorTextMuted:     "#8B949E",
		ColorBorder:        "#30363D",
		ColorSurface:       "#0D1117",
		ColorSurfaceText:   "#E6EDF3",
		ColorPrimary:       "#58A6FF",
		ColorPrimaryText:   "#0D1117",
		ColorAccent:        "#3FB950",
		ColorAccentText:    "#0D1117",
		ColorSuccess:       "#3FB950",
		ColorSuccessText:   "#0D1117",
		ColorInfo:          "#58A6FF",
		ColorInfoText:      "#0D1117",
		ColorWarning:       "#D29922",
		ColorWarningText:   "#0D1117",
		ColorDanger:        "#F85149",
		ColorDangerText:    "#0D1117",
		ColorHighlight:     "#161B22",
	}
	toColors := func(m map[Token]string) map[Token]Color {
		rv := make(map[Token]Color, len(m))
		for t, hex := range m {
			rv[t] = solid(hex)
		}
		return rv
	}
	return []Palette{
		{Name: DefaultName, DisplayName: "Desk Light", About: "Default light theme.", Colors: toColors(light)},
		{Name: "desk-dark", DisplayName: "Desk Dark", About: "Default dark theme.", Colors: toColors(dark)},
	}
}
