package usecase

import (
	"sync"
	"time"
)

type delivery struct {
	connID string
	event  Event
}

// recordingNotifier - delivers events to in-memory inboxes, resolving groups at send time.
type recordingNotifier struct {
	mu sync.Mutex

	connected map[string]bool
	groups    map[string]map[string]bool
	log       []delivery
}

func newRecordingNotifier(connIDs ...string) *recordingNotifier {
	notifier := &recordingNotifier{
		connected: make(map[string]bool),
		groups:    make(map[string]map[string]bool),
	}

	for _, connID := range connIDs {
		notifier.connected[connID] = true
	}

	return notifier
}

func (that *recordingNotifier) SendTo(connID string, event Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.connected[connID] {
		that.log = append(that.log, delivery{connID: connID, event: event})
	}
}

func (that *recordingNotifier) SendToGroup(group string, event Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for connID := range that.groups[group] {
		if that.connected[connID] {
			that.log = append(that.log, delivery{connID: connID, event: event})
		}
	}
}

func (that *recordingNotifier) Broadcast(event Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for connID, ok := range that.connected {
		if ok {
			that.log = append(that.log, delivery{connID: connID, event: event})
		}
	}
}

func (that *recordingNotifier) AddToGroup(connID, group string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.groups[group] == nil {
		that.groups[group] = make(map[string]bool)
	}
	that.groups[group][connID] = true
}

func (that *recordingNotifier) RemoveFromGroup(connID, group string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.groups[group], connID)
}

func (that *recordingNotifier) RemoveGroup(group string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.groups, group)
}

// disconnect - the connection stops receiving anything.
func (that *recordingNotifier) disconnect(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.connected, connID)
}

func (that *recordingNotifier) inbox(connID string) []Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	var events []Event
	for _, item := range that.log {
		if item.connID == connID {
			events = append(events, item.event)
		}
	}

	return events
}

func (that *recordingNotifier) actions(connID string) []string {
	var actions []string
	for _, event := range that.inbox(connID) {
		actions = append(actions, event.Action())
	}

	return actions
}

func (that *recordingNotifier) last(connID string) Event {
	events := that.inbox(connID)
	if len(events) == 0 {
		return nil
	}

	return events[len(events)-1]
}

func (that *recordingNotifier) reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.log = nil
}

func (that *recordingNotifier) members(group string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.groups[group])
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (that *fakeClock) Now() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.now
}

func (that *fakeClock) Advance(d time.Duration) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.now = that.now.Add(d)
}

// stallingNotifier - holds the first broadcast until release is closed.
type stallingNotifier struct {
	*recordingNotifier

	once    sync.Once
	stalled chan struct{}
	release chan struct{}
}

func newStallingNotifier(connIDs ...string) *stallingNotifier {
	return &stallingNotifier{
		recordingNotifier: newRecordingNotifier(connIDs...),
		stalled:           make(chan struct{}),
		release:           make(chan struct{}),
	}
}

func (that *stallingNotifier) Broadcast(event Event) {
	that.once.Do(func() {
		close(that.stalled)
		<-that.release
	})

	that.recordingNotifier.Broadcast(event)
}
