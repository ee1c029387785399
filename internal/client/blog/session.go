package blog

import "sync"

// session is the single source of truth for the current bearer token.
// One instance is created per Client and shared by pointer with the
// active sub-client, so there is no separate mirrored copy to keep in
// sync. The lock is scoped to the read or write of the value only and
// is never held across a network round trip.
type session struct {
	mu    sync.Mutex
	token string
}

func (s *session) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *session) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// bearer returns the token formatted for attachment
// ("Bearer <token>") and whether a token is present. Both transports
// use this same formatting: HTTP as the Authorization header value,
// gRPC as the "authorization" metadata value.
func (s *session) bearer() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", false
	}
	return "Bearer " + s.token, true
}
