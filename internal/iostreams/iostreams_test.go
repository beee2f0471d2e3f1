package iostreams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestStreamsAreNotInteractive(t *testing.T) {
	s, _, out, _ := NewTestIOStreams()
	assert.False(t, s.IsInteractive())

	w, h := s.TerminalSize()
	assert.Equal(t, 120, w)
	assert.Equal(t, 24, h)

	_, _ = s.Out.Write([]byte("hi"))
	assert.Equal(t, "hi", out.String())
}

func TestNilStreams(t *testing.T) {
	var s *IOStreams
	assert.False(t, s.IsInteractive())
	w, _ := s.TerminalSize()
	assert.Equal(t, 120, w)
	assert.False(t, IsTerminal(nil))
}

func TestGetOSIOStreamsIsShared(t *testing.T) {
	assert.Same(t, GetOSIOStreams(), GetOSIOStreams())
}
