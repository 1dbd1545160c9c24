// Package octanetest provides a fake Octane workspace API for tests.
package octanetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// Fixed workspace coordinates served by every fake server.
const (
	SharedSpaceID = "1001"
	WorkspaceID   = "1002"
)

// Request stores one request received by the fake server.
type Request struct {
	Method   string
	Path     string // relative to the workspace API root, e.g. "defects/7"
	Query    url.Values
	RawQuery string
	Header   http.Header
	Body     []byte
}

// DecodeBody unmarshals the recorded JSON body into v.
func (r Request) DecodeBody(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Response is a canned reply.
type Response struct {
	StatusCode int
	Body       interface{}
}

// Server emulates the workspace scoped part of the Octane REST API.
// Responses are matched on method, relative path and, optionally, the
// query parameter.
type Server struct {
	*httptest.Server

	mu        sync.RWMutex
	requests  []Request
	responses map[string]Response

	authError      bool
	proxyAuthError bool
	serverError    bool
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{responses: make(map[string]Response)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// APIRoot is the path prefix of every workspace request.
func APIRoot() string {
	return "/api/shared_spaces/" + SharedSpaceID + "/workspaces/" + WorkspaceID + "/"
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rel := strings.TrimPrefix(r.URL.Path, APIRoot())

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   r.Method,
		Path:     rel,
		Query:    r.URL.Query(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	authError, proxyAuthError, serverError := s.authError, s.proxyAuthError, s.serverError
	s.mu.Unlock()

	switch {
	case authError:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error_code": "VALIDATION_UNAUTHORIZED"})
		return
	case proxyAuthError:
		w.WriteHeader(http.StatusProxyAuthRequired)
		return
	case serverError:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"description": "internal error"})
		return
	}

	if !strings.HasPrefix(r.URL.Path, APIRoot()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"description": "unknown shared space or workspace"})
		return
	}

	s.mu.RLock()
	resp, found := s.responses[key(r.Method, rel, r.URL.Query().Get("query"))]
	if !found {
		resp, found = s.responses[key(r.Method, rel, "")]
	}
	s.mu.RUnlock()

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"description": "no fake response for " + r.Method + " " + rel})
		return
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	if resp.Body == nil {
		w.WriteHeader(status)
		return
	}
	if raw, ok := resp.Body.(string); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, raw)
		return
	}
	writeJSON(w, status, resp.Body)
}

func key(method, rel, query string) string {
	if query == "" {
		return method + " " + rel
	}
	return method + " " + rel + "?" + query
}

// SetResponse replies to method rel with status and body. A string body
// is written verbatim; anything else is JSON encoded.
func (s *Server) SetResponse(method, rel string, status int, body interface{}) {
	s.SetQueryResponse(method, rel, "", status, body)
}

// SetQueryResponse is SetResponse restricted to one value of the query
// parameter.
func (s *Server) SetQueryResponse(method, rel, query string, status int, body interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key(method, rel, query)] = Response{StatusCode: status, Body: body}
}

// SetAuthError makes every request fail with 401.
func (s *Server) SetAuthError(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authError = enabled
}

// SetProxyAuthError makes every request fail with 407.
func (s *Server) SetProxyAuthError(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proxyAuthError = enabled
}

// SetServerError makes every request fail with 500.
func (s *Server) SetServerError(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverError = enabled
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns the number of recorded requests.
func (s *Server) RequestCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// LastRequest returns the most recent request, or the zero Request.
func (s *Server) LastRequest() Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// Reset clears recorded requests, canned responses and error simulation.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.responses = make(map[string]Response)
	s.authError = false
	s.proxyAuthError = false
	s.serverError = false
}

// Names builds a collection body listing entities with the given names.
func Names(names ...string) map[string]interface{} {
	data := make([]map[string]string, 0, len(names))
	for _, n := range names {
		data = append(data, map[string]string{"name": n})
	}
	return map[string]interface{}{"total_count": len(names), "data": data}
}

// IDs builds a collection body listing entities with the given ids.
func IDs(ids ...string) map[string]interface{} {
	data := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		data = append(data, map[string]string{"id": id})
	}
	return map[string]interface{}{"total_count": len(ids), "data": data}
}

// Phase builds the body of GET defects/{id}?fields=phase.
func Phase(defectID, phaseID, phaseName string) map[string]interface{} {
	return map[string]interface{}{
		"type": "defect",
		"id":   defectID,
		"phase": map[string]string{
			"type": "phase",
			"id":   phaseID,
			"name": phaseName,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
