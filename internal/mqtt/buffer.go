package mqtt

import "log"

// queuedMessage holds a serialized message awaiting replay after reconnect.
type queuedMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayQueue is a fixed-capacity FIFO holding messages published while the
// broker is unreachable. When full, the oldest message is overwritten: a
// measurement result from minutes ago is worth less than the current warning
// state. Not safe for concurrent use, the publisher synchronizes.
type replayQueue struct {
	slots   []queuedMessage
	next    int // write position
	queued  int
	dropped bool // logged once per disconnect
}

func newReplayQueue(capacity int) *replayQueue {
	return &replayQueue{slots: make([]queuedMessage, capacity)}
}

func (q *replayQueue) enqueue(msg queuedMessage) {
	if q.queued == len(q.slots) {
		if !q.dropped {
			log.Printf("mqtt: replay queue full (%d messages), overwriting oldest", len(q.slots))
			q.dropped = true
		}
	} else {
		q.queued++
	}
	q.slots[q.next] = msg
	q.next = (q.next + 1) % len(q.slots)
}

// drain returns the queued messages oldest-first and resets the queue.
func (q *replayQueue) drain() []queuedMessage {
	if q.queued == 0 {
		return nil
	}

	out := make([]queuedMessage, q.queued)
	start := (q.next - q.queued + len(q.slots)) % len(q.slots)
	for i := range out {
		out[i] = q.slots[(start+i)%len(q.slots)]
	}

	q.queued = 0
	q.next = 0
	q.dropped = false
	return out
}

func (q *replayQueue) size() int {
	return q.queued
}
