package tableview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Left     key.Binding
	Right    key.Binding
	Open     key.Binding
	Control  key.Binding
	Search   key.Binding
	Copy     key.Binding
	Save     key.Binding
	Theme    key.Binding
	Reset    key.Binding
	Quit     key.Binding
}

var defaultKeys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
	Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "column")),
	Right:    key.NewBinding(key.WithKeys("right", "l")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Control:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "sort/filter")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save xlsx")),
	Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type popupKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Apply  key.Binding
	Search key.Binding
	All    key.Binding
	Reset  key.Binding
	Close  key.Binding
}

var popupKeys = popupKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Close:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		if out != "" {
			out += " • "
		}
		out += h.Key + " " + h.Desc
	}
	return out
}
