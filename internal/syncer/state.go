package syncer

import "fmt"

type State int

const (
	Offline State = iota
	Syncing
	Online
)

func (s State) String() string {
	switch s {
	case Offline:
		return "offline"
	case Syncing:
		return "syncing"
	case Online:
		return "online"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type StatusKind int

const (
	StatusOffline StatusKind = iota
	StatusSynced
	StatusFlushFailed
	StatusQueued
)

// Status is a user-facing connectivity notice. Count is the number of
// entries concerned for StatusFlushFailed and StatusQueued.
type Status struct {
	Kind  StatusKind
	Count int
}

func (s Status) Message() string {
	switch s.Kind {
	case StatusOffline:
		return "Offline mode: showing locally stored data"
	case StatusSynced:
		return "Synchronized with server"
	case StatusFlushFailed:
		return fmt.Sprintf("%d pending transaction(s) could not be submitted", s.Count)
	case StatusQueued:
		if s.Count > 1 {
			return fmt.Sprintf("%d transactions saved locally, they will be sent when the server is reachable", s.Count)
		}
		return "Transaction saved locally, it will be sent when the server is reachable"
	default:
		return ""
	}
}

// Notifier receives connectivity notices. Implementations must not block.
type Notifier interface {
	Notify(Status)
}

type NotifierFunc func(Status)

func (f NotifierFunc) Notify(s Status) { f(s) }

type nopNotifier struct{}

func (nopNotifier) Notify(Status) {}
