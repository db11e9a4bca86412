// Package navigation turns route requests from the form into something an
// HTTP handler can act on.
package navigation

import "sync"

// Recorder implements authform.Navigator by remembering the latest route.
// Requests are pushes: the HTTP layer answers them with a redirect that
// adds a history entry.
type Recorder struct {
	mu    sync.Mutex
	route string
	count int
}

// Navigate records route, replacing any route that has not been taken yet.
func (r *Recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.route = route
	r.count++
}

// Take returns the pending route and clears it.
func (r *Recorder) Take() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	route := r.route
	r.route = ""
	return route, route != ""
}

// Count is the number of navigation requests seen so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
