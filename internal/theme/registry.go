package theme

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

type registry struct {
	once     sync.Once
	mu       sync.RWMutex
	palettes map[string]Palette
	current  string
}

var reg = &registry{}

func (r *registry) load() {
	r.once.Do(func() {
		r.palettes = map[string]Palette{}
		for _, p := range deskPalettes() {
			r.add(p)
		}
		for _, s := range builtinSeeds {
			r.add(s.palette())
		}
		r.current = DefaultName
	})
}

func (r *registry) add(p Palette) {
	p.Name = canonical(p.Name)
	if p.Name == "" {
		return
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Name
	}
	r.palettes[p.Name] = p
}

func (r *registry) get(name string) (Palette, bool) {
	r.load()
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.palettes[canonical(name)]
	return p, ok
}

func (r *registry) fallback(token Token) Color {
	r.load()
	if c, ok := r.palettes[DefaultName].Colors[token]; ok {
		return c.filled()
	}
	return Color{Light: "#FFFFFF", Dark: "#000000"}
}

// canonical lowercases a theme name; "default" and "" mean DefaultName.
func canonical(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "default":
		return DefaultName
	default:
		return n
	}
}

// Available returns the registered theme IDs, sorted.
func Available() []string {
	reg.load()
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Sorted(maps.Keys(reg.palettes))
}

// Exists reports whether a theme is registered.
func Exists(name string) bool {
	_, ok := reg.get(name)
	return ok
}

// Get returns the palette with the provided name.
func Get(name string) (Palette, bool) {
	return reg.get(name)
}

// SetCurrent sets the active palette.
func SetCurrent(name string) error {
	reg.load()
	reg.mu.Lock()
	defer reg.mu.Unlock()
	n := canonical(name)
	if _, ok := reg.palettes[n]; !ok {
		return fmt.Errorf("unknown color theme %q", name)
	}
	reg.current = n
	return nil
}

// Current returns the active palette.
func Current() Palette {
	reg.load()
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.palettes[reg.current]
}

// CurrentName returns the ID of the active palette.
func CurrentName() string {
	return Current().Name
}

// Flag is a pflag.Value accepting registered theme IDs.
type Flag struct {
	value string
}

func NewFlag(defaultValue string) *Flag {
	name := canonical(defaultValue)
	if !Exists(name) {
		name = DefaultName
	}
	return &Flag{value: name}
}

func (f *Flag) String() string {
	if f == nil {
		return DefaultName
	}
	return f.value
}

func (f *Flag) Set(v string) error {
	if !Exists(v) {
		return fmt.Errorf("invalid color theme %q, must be one of %s", v, strings.Join(Available(), "|"))
	}
	f.value = canonical(v)
	return nil
}

func (f *Flag) Type() string {
	return "string"
}

// Value returns the selected theme ID.
func (f *Flag) Value() string {
	return f.String()
}
