package tester

import (
	"sync"

	"github.com/abdul-hamid-achik/inttest/packages/http"
)

type result struct {
	resp *http.Response
	err  error
}

// End sends the active message with the active settings and, if the
// integration reports no error, runs the queued assertions in order against
// the last captured request and the response. The first failing assertion
// stops the run. fn receives the outcome; with a nil fn a failure is reported
// through TestingT.
//
// End blocks until the integration calls back.
func (t *Tester) End(fn EndFunc) {
	t.t.Helper()
	if t.msg == nil {
		t.fail(ErrNoMessage)
		return
	}
	t.ended = true

	resp, err := t.evaluate()
	if fn == nil {
		if err != nil {
			t.fail(err)
		}
		return
	}
	fn(err, resp)
}

// Error is End with the outcome inverted: it passes only when the integration
// or an assertion produced an error.
func (t *Tester) Error(fn EndFunc) {
	t.t.Helper()
	t.End(func(err error, resp *http.Response) {
		if err == nil {
			err = ErrExpectedError
		} else {
			t.logger.Debug("expected error received", "error", err)
			err = nil
		}
		if fn == nil {
			if err != nil {
				t.fail(err)
			}
			return
		}
		fn(err, resp)
	})
}

func (t *Tester) evaluate() (*http.Response, error) {
	done := make(chan result, 1)
	var once sync.Once
	t.integration.Send(t.ctx, t.msg, t.settings, func(err error, resp *http.Response) {
		once.Do(func() {
			done <- result{resp: resp, err: err}
		})
	})
	r := <-done

	if r.err != nil {
		t.logger.Debug("send failed", "integration", t.integration.Name(), "type", t.msg.Type(), "error", r.err)
		return r.resp, r.err
	}

	req := t.recorder.current()
	t.logger.Debug("evaluating assertions",
		"integration", t.integration.Name(),
		"type", t.msg.Type(),
		"assertions", len(t.assertions),
		"requests", t.recorder.count())
	for i, a := range t.assertions {
		if err := a(req, r.resp); err != nil {
			t.logger.Debug("assertion failed", "index", i, "error", err)
			return r.resp, err
		}
	}
	return r.resp, nil
}

// schedule queues fn to run on the next Flush.
func (t *Tester) schedule(fn func()) {
	t.queue = append(t.queue, fn)
}

// Flush runs scheduled work in the order it was scheduled, including work
// scheduled while flushing. New registers Flush as a test cleanup.
func (t *Tester) Flush() {
	for len(t.queue) > 0 {
		fn := t.queue[0]
		t.queue = t.queue[1:]
		fn()
	}
}
