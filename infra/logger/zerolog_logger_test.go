package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("scheduler")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"batch": "pad-a"})
	l.Infof("info %s", "run")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerLevelEnv(t *testing.T) {
	assert.NoError(t, os.Setenv("LOG_LEVEL", "warn"))
	defer func() { assert.NoError(t, os.Unsetenv("LOG_LEVEL")) }()
	l := NewZerologLogger("scheduler")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("suppressed")
	l.Warnf("emitted")
}
