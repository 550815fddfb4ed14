// Package monitoring exposes error reporting behind a small interface so the
// scheduler core never depends on a vendor SDK.
package monitoring

import (
	"sync/atomic"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

// holder wraps the monitor so atomic.Value always stores one concrete type.
type holder struct{ m Monitor }

var current atomic.Value

func init() { current.Store(holder{NopMonitor{}}) }

// Init installs the global monitor and returns the one it replaced, which
// lets tests restore the previous state. A nil monitor is ignored.
func Init(m Monitor) Monitor {
	prev := active()
	if m != nil {
		current.Store(holder{m})
	}
	return prev
}

func active() Monitor { return current.Load().(holder).m }

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	active().CaptureException(err, tags)
}

// Recover captures panics in goroutines.
func Recover() { active().Recover() }

// Flush flushes buffered events.
func Flush(d time.Duration) { active().Flush(d) }
