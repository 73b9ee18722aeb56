package voronoi

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bufferedLogger(prefix string, debug bool) (*DefaultLogger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := NewDefaultLogger(prefix, debug)
	l.out = log.New(&out, "", 0)
	l.err = log.New(&errOut, "", 0)
	return l, &out, &errOut
}

func TestDefaultLoggerLevels(t *testing.T) {
	l, out, errOut := bufferedLogger("voronoi", false)

	l.Debugf("hidden %d", 1)
	l.Infof("sites %d", 64)
	l.Warnf("slow frame")
	l.Errorf("device lost")

	assert.Equal(t, "[voronoi] INFO: sites 64\n", out.String())
	assert.Equal(t, "[voronoi] WARN: slow frame\n[voronoi] ERROR: device lost\n", errOut.String())

	l.SetDebug(true)
	l.Debugf("shown")
	assert.Contains(t, out.String(), "[voronoi] DEBUG: shown")
}

func TestDefaultLoggerWithPrefix(t *testing.T) {
	l, out, _ := bufferedLogger("", true)
	l.Infof("plain")
	l.WithPrefix("session").Debugf("tagged")

	assert.Equal(t, "INFO: plain\n[session] DEBUG: tagged\n", out.String())
}

func TestWithPrefixSharesDebugFlag(t *testing.T) {
	root, out, _ := bufferedLogger("root", false)
	child := root.WithPrefix("child")

	child.Debugf("before")
	assert.Empty(t, out.String())

	root.SetDebug(true)
	assert.True(t, child.DebugEnabled())
	child.Debugf("after")
	assert.Equal(t, "[child] DEBUG: after\n", out.String())

	child.SetDebug(false)
	assert.False(t, root.DebugEnabled())
	root.Debugf("hidden")
	assert.Equal(t, "[child] DEBUG: after\n", out.String())
}

func TestSessionPrefix(t *testing.T) {
	assert.Equal(t, "voronoi 1b4e28ba", sessionPrefix("1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
	assert.Equal(t, "voronoi abc", sessionPrefix("abc"))
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	l.Errorf("dropped")
	assert.Same(t, l, l.WithPrefix("x"))
}
