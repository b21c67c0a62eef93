// Package events decouples services that request background work from the
// task runner that performs it.
//
// A service emits a TaskRequestEvent; the handler registered for the event
// type turns it into a persisted task. The in-memory emitter dispatches
// synchronously, so the emitter's caller learns whether the task was queued.
package events
