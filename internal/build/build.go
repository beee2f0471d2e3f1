package build

type infoKey struct{}

// InfoKey is the context key for *Info.
var InfoKey = infoKey{}

// Info describes the running binary. Values are injected with -ldflags at
// release time.
type Info struct {
	Version string
	Commit  string
	Date    string
}
