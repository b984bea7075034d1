// Package notify delivers outgoing notifications in the background.
//
// A Dispatcher accepts messages without blocking the caller, holds them in a
// bounded in-memory queue, and hands them to a Sender from a small pool of
// worker goroutines. Delivery is best-effort and at-most-once: messages are
// dropped when the queue is full or closed, and failed sends are reported to
// an error handler but never retried.
package notify
