// Package task manages background job queuing, processing, and lifecycle.
// Tasks are persisted before they are queued, so notification e-mails
// requested through the API survive restarts: on start the runner recovers
// pending and interrupted tasks, and a monitor requeues tasks stuck in
// processing.
package task
