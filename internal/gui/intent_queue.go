package gui

import "github.com/appengine-ltd/agrodm/internal/parser"

// intentQueue carries intents chosen by clicking a clarify option until the
// next update runs them through the console.
type intentQueue struct {
	ch chan parser.Intent
}

func newIntentQueue(size int) *intentQueue {
	if size < 1 {
		size = 8
	}
	return &intentQueue{ch: make(chan parser.Intent, size)}
}

// Enqueue drops the intent when the queue is full.
func (q *intentQueue) Enqueue(intent parser.Intent) bool {
	select {
	case q.ch <- intent:
		return true
	default:
		return false
	}
}

func (q *intentQueue) Dequeue() (parser.Intent, bool) {
	select {
	case intent := <-q.ch:
		return intent, true
	default:
		return parser.Intent{}, false
	}
}
