package prompt

import (
	"context"
	"sync"
)

// Request is a pending confirmation. The event handler that receives it must
// call Resolve or Reject exactly once; later calls are ignored.
type Request struct {
	Count int

	once sync.Once
	resp chan answer
}

type answer struct {
	ok  bool
	err error
}

// Resolve answers the request
func (r *Request) Resolve(ok bool) {
	r.answer(answer{ok: ok})
}

// Reject fails the request when no answer could be obtained. Confirm returns
// err to the waiting caller.
func (r *Request) Reject(err error) {
	r.answer(answer{err: err})
}

func (r *Request) answer(a answer) {
	r.once.Do(func() {
		r.resp <- a
	})
}

// Message is the text a handler should display for this request
func (r *Request) Message() string {
	return Message(r.Count)
}

// Channel hands confirmations to an event loop. Confirm publishes a Request
// and blocks until it is resolved or ctx is done. There is no timeout.
type Channel struct {
	requests chan *Request
}

// NewChannel creates a Channel with an unbuffered request queue
func NewChannel() *Channel {
	return &Channel{requests: make(chan *Request)}
}

// Requests is the stream an event handler reads pending confirmations from
func (c *Channel) Requests() <-chan *Request {
	return c.requests
}

func (c *Channel) Confirm(ctx context.Context, count int) (bool, error) {
	req := &Request{Count: count, resp: make(chan answer, 1)}

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case a := <-req.resp:
		return a.ok, a.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
