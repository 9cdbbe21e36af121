package viewer

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/graph"
	"github.com/goliatone/go-graphview/pkg/view"
)

// State is the lifecycle of a controller's current load.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

const (
	// LoadingTitle titles the placeholder shown before a node arrives.
	LoadingTitle = "Loading..."
	// ErrorTitle titles the placeholder shown when a load fails.
	ErrorTitle = "Error :("
)

// Controller owns the load state of a single view. A load that has been
// superseded by a later Begin cannot overwrite the state. Safe for
// concurrent use.
type Controller struct {
	mu     sync.Mutex
	state  State
	id     string
	node   graph.Node
	err    error
	ticket uint64
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// Begin moves the controller to Loading for id and returns the ticket the
// load must present to Resolve.
func (c *Controller) Begin(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticket++
	c.state = StateLoading
	c.id = id
	c.node = graph.Node{}
	c.err = nil
	return c.ticket
}

// Resolve records the outcome of the load identified by ticket. It reports
// false, leaving the state untouched, when a newer load has begun.
func (c *Controller) Resolve(ticket uint64, node graph.Node, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.ticket {
		return false
	}
	if err != nil {
		c.state = StateFailed
		c.err = err
		return true
	}
	c.state = StateReady
	c.node = node
	return true
}

// Load fetches id and resolves the controller with the result. The fetch
// error is returned as well as recorded.
func (c *Controller) Load(ctx context.Context, id string, fetcher fetch.Fetcher) error {
	ticket := c.Begin(id)
	if fetcher == nil {
		err := errors.New("viewer: fetcher is nil")
		c.Resolve(ticket, graph.Node{}, err)
		return err
	}
	node, err := fetcher.Fetch(ctx, id)
	c.Resolve(ticket, node, err)
	return err
}

// State reports the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure of the current load, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ID returns the identity of the current load.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Page composes the loaded node when Ready and returns a placeholder page
// otherwise.
func (c *Controller) Page() view.Page {
	c.mu.Lock()
	state, id, node := c.state, c.id, c.node
	c.mu.Unlock()

	switch state {
	case StateReady:
		return view.Compose(node)
	case StateFailed:
		return ErrorPage(id)
	default:
		return LoadingPage(id)
	}
}

// LoadingPage is the placeholder for a node that has not arrived yet.
func LoadingPage(id string) view.Page {
	return view.Page{ID: id, Title: LoadingTitle}
}

// ErrorPage is the placeholder for a node that failed to load.
func ErrorPage(id string) view.Page {
	return view.Page{ID: id, Title: ErrorTitle}
}
