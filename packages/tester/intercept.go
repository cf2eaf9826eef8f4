package tester

import (
	"log/slog"
	"sync"

	"github.com/abdul-hamid-achik/inttest/packages/http"
)

// recorder keeps every request built by an integration, in build order. A nil
// request from the factory is kept too, so assertions see it as missing.
type recorder struct {
	mu   sync.Mutex
	reqs []*http.Request
	last *http.Request
}

// intercept wraps integ's request factory so each request it returns is
// recorded first. The wrap stays in place for the integration's lifetime.
func intercept(integ Integration, logger *slog.Logger) *recorder {
	r := &recorder{}
	build := integ.RequestFunc()
	integ.SetRequestFunc(func(method, path string) *http.Request {
		req := build(method, path)
		r.record(req)
		if req == nil {
			logger.Debug("request factory returned nil", "integration", integ.Name(), "method", method, "path", path)
			return nil
		}
		logger.Debug("captured request", "integration", integ.Name(), "method", req.Method, "url", req.URL)
		return req
	})
	return r
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	r.last = req
}

func (r *recorder) current() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func (r *recorder) all() []*http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*http.Request(nil), r.reqs...)
}
