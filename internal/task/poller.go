package task

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Event masks accepted by Poller.Add and delivered to fd tasks.
const (
	Readable = uint32(unix.EPOLLIN)
	Writable = uint32(unix.EPOLLOUT)
)

const maxEvents = 16

// Poller dispatches fd readiness to tasks through one epoll instance.
type Poller struct {
	epfd  int
	tasks map[int]Task
}

// NewPoller creates the epoll instance.
func NewPoller() (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}
	return &Poller{epfd: epfd, tasks: make(map[int]Task)}, nil
}

// Add watches fd for events and runs t when they fire.
func (p *Poller) Add(fd int, events uint32, t Task) error {
	ev := unix.EpollEvent{Events: events, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll_ctl add fd %d: %w", fd, err)
	}
	p.tasks[fd] = t
	return nil
}

// Modify changes the event mask of an fd already added.
func (p *Poller) Modify(fd int, events uint32) error {
	ev := unix.EpollEvent{Events: events, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return fmt.Errorf("epoll_ctl mod fd %d: %w", fd, err)
	}
	return nil
}

// Delete stops watching fd.
func (p *Poller) Delete(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll_ctl del fd %d: %w", fd, err)
	}
	delete(p.tasks, fd)
	return nil
}

// Wait blocks until at least one watched fd is ready and runs the task of
// every ready fd. Interrupted waits retry.
func (p *Poller) Wait() error {
	var events [maxEvents]unix.EpollEvent
	for {
		n, err := unix.EpollWait(p.epfd, events[:], -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("epoll_wait: %w", err)
		}
		for i := 0; i < n; i++ {
			if t, ok := p.tasks[int(events[i].Fd)]; ok {
				t.Run(events[i].Events)
			}
		}
		return nil
	}
}

// Close releases the epoll instance.
func (p *Poller) Close() error {
	return unix.Close(p.epfd)
}
