package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerRedirects(t *testing.T) {
	defer SetLogger(nil)

	var captured string
	SetLogger(func(format string, v ...interface{}) {
		captured = fmt.Sprintf(format, v...)
	})

	Logf("hello %d", 42)
	if captured != "hello 42" {
		t.Errorf("expected redirected log output, got %q", captured)
	}
}

func TestSetLoggerNilMutes(t *testing.T) {
	SetLogger(nil)
	// Must not panic.
	Logf("dropped %s", "message")
}

func TestDebugfGatedByVerbose(t *testing.T) {
	defer SetLogger(nil)
	defer SetVerbose(false)

	var calls int
	SetLogger(func(format string, v ...interface{}) { calls++ })

	SetVerbose(false)
	Debugf("quiet")
	if calls != 0 {
		t.Errorf("Debugf should be muted when verbose is off, got %d calls", calls)
	}

	SetVerbose(true)
	Debugf("loud")
	if calls != 1 {
		t.Errorf("Debugf should log when verbose is on, got %d calls", calls)
	}
}
