package wizard

import "sync"

// Router reads and writes the wizard position in the url and navigates between pages
type Router interface {
	QueryParam(name string) (string, bool)
	SetQueryParam(name, value string)
	Navigate(path string)
}

// MemoryRouter records the location of a wizard session that is driven over the api
type MemoryRouter struct {
	mu      sync.Mutex
	path    string
	query   map[string]string
	history []string
}

var _ Router = &MemoryRouter{}

func NewMemoryRouter(path string, query map[string]string) *MemoryRouter {
	q := make(map[string]string, len(query))
	for k, v := range query {
		q[k] = v
	}
	return &MemoryRouter{
		path:  path,
		query: q,
	}
}

func (r *MemoryRouter) QueryParam(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.query[name]
	return v, ok
}

func (r *MemoryRouter) SetQueryParam(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query[name] = value
}

func (r *MemoryRouter) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, path)
	r.path = path
}

func (r *MemoryRouter) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// History returns every path navigated to, oldest first
func (r *MemoryRouter) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
