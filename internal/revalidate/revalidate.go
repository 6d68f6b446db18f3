// Package revalidate emits fire-and-forget staleness signals after
// successful mutations so display caches for the named paths refetch.
// There is no acknowledgment and no ordering guarantee relative to the
// HTTP response; a full channel drops the signal rather than blocking
// the request.
package revalidate

import (
	"go.uber.org/zap"

	"school-service/prometheus"
)

var notifier *Notifier

// Notifier fans stale-path signals out to a background consumer.
type Notifier struct {
	ch   chan string
	done chan struct{}
	log  *zap.Logger
}

// NewNotifier starts the background consumer.
func NewNotifier(log *zap.Logger) *Notifier {
	n := &Notifier{
		ch:   make(chan string, 256),
		done: make(chan struct{}),
		log:  log,
	}
	go n.run()
	return n
}

func (n *Notifier) run() {
	for path := range n.ch {
		prometheus.RecordRevalidation(path)
		n.log.Debug("revalidate", zap.String("path", path))
	}
	close(n.done)
}

// Signal queues paths for revalidation without blocking.
func (n *Notifier) Signal(paths ...string) {
	for _, path := range paths {
		select {
		case n.ch <- path:
		default:
			n.log.Warn("revalidation signal dropped", zap.String("path", path))
		}
	}
}

// Close stops the consumer after draining queued signals.
func (n *Notifier) Close() {
	close(n.ch)
	<-n.done
}

// Init installs the package-level notifier used by Path.
func Init(log *zap.Logger) {
	notifier = NewNotifier(log)
}

// Path signals the package-level notifier, if initialized.
func Path(paths ...string) {
	if notifier != nil {
		notifier.Signal(paths...)
	}
}
