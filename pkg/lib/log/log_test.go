package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
)

// TestLazyLogger_ImplementsInterface 验证 LazyLogger 实现 Logger 接口
func TestLazyLogger_ImplementsInterface(t *testing.T) {
	var _ pkgif.Logger = (*LazyLogger)(nil)
}

func TestLazyLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	l := Logger("lib/log-test")
	l.Info("init")
	SetLevel("lib/log-test", LevelTrace)

	l.Trace("t1")
	l.Fatal("f1", "k", 1)
	l.Log(context.Background(), LevelTest, "x1")

	out := buf.String()
	assert.Contains(t, out, "msg=t1")
	assert.Contains(t, out, "level=fatal")
	assert.Contains(t, out, "k=1")
	assert.Contains(t, out, "level=test")
	assert.Contains(t, out, "subsystem=lib/log-test")
	assert.Equal(t, "lib/log-test", l.Component())
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", TruncateID("abc", 8))
	assert.Equal(t, "abcdefgh", TruncateID("abcdefghij", 8))
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("fatal")
	assert.True(t, ok)
	assert.Equal(t, LevelFatal, lvl)

	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}
