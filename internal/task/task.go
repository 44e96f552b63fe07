// Package task carries the event-loop plumbing shared by the toolkit: a
// deferred-task FIFO and an epoll poller that maps file-descriptor
// readiness to tasks. Nothing here is safe for concurrent use; the whole
// toolkit runs on one goroutine.
package task

// Task is one unit of event-loop work. For fd tasks events holds the
// epoll event mask that fired; deferred tasks run with events == 0.
type Task interface {
	Run(events uint32)
}

// Func adapts a plain function to the Task interface.
type Func func(events uint32)

func (f Func) Run(events uint32) { f(events) }

// Queue is the deferred-task FIFO. Tasks run in the order scheduled;
// tasks scheduled while draining run in the same drain.
type Queue struct {
	tasks []Task
}

// Schedule appends t to the queue. Callers that must not run twice per
// drain keep their own guard bit; the queue does not deduplicate.
func (q *Queue) Schedule(t Task) {
	q.tasks = append(q.tasks, t)
}

// Drain runs queued tasks until the queue is empty, including tasks
// scheduled by tasks already running. It never blocks.
func (q *Queue) Drain() {
	for len(q.tasks) > 0 {
		t := q.tasks[0]
		q.tasks = q.tasks[1:]
		t.Run(0)
	}
}

// Len reports the number of queued tasks.
func (q *Queue) Len() int { return len(q.tasks) }
