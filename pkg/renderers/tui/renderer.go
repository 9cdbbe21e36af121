package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-graphview/pkg/fragment"
	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/renderers/text"
	"github.com/goliatone/go-graphview/pkg/view"
)

// Action names what the user picked from the navigation menu.
type Action string

const (
	ActionFollow Action = "follow"
	ActionBack   Action = "back"
	ActionGoto   Action = "goto"
	ActionReload Action = "reload"
	ActionQuit   Action = "quit"
)

const (
	menuBack   = "< Back"
	menuGoto   = "Go to..."
	menuReload = "Reload"
	menuQuit   = "Quit"
)

// Choice is the outcome of a single navigation prompt.
type Choice struct {
	Action Action `json:"action"`
	Target string `json:"target,omitempty"`
}

// Renderer implements render.Renderer for terminal sessions. Render prints
// the page and asks where to go next; the answer is returned as JSON.
type Renderer struct {
	driver   PromptDriver
	out      io.Writer
	body     render.Renderer
	theme    Theme
	pageSize int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, text body).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{pageSize: 15}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.body == nil {
		r.body = text.New()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render shows the page and returns the navigation choice as JSON.
func (r *Renderer) Render(ctx context.Context, page view.Page, opts render.RenderOptions) ([]byte, error) {
	choice, err := r.Prompt(ctx, page, opts, false)
	if err != nil {
		return nil, err
	}
	return json.Marshal(choice)
}

// Prompt prints page through the body renderer and offers every distinct
// link on it, followed by the navigation actions. Back is offered only when
// canGoBack is set.
func (r *Renderer) Prompt(ctx context.Context, page view.Page, opts render.RenderOptions, canGoBack bool) (Choice, error) {
	if ctx == nil {
		return Choice{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Choice{}, err
	}
	if r.driver == nil {
		return Choice{}, errors.New("tui: prompt driver is nil")
	}

	body, err := r.body.Render(ctx, page, opts)
	if err != nil {
		return Choice{}, fmt.Errorf("tui: render page: %w", err)
	}
	if err := r.driver.Info(ctx, r.theme.InfoPrefix+strings.TrimRight(string(body), "\n")); err != nil {
		return Choice{}, err
	}

	links := navigableLinks(page)
	options := make([]string, 0, len(links)+4)
	for _, link := range links {
		options = append(options, linkOption(link))
	}
	actions := make([]Action, 0, 4)
	if canGoBack {
		options = append(options, menuBack)
		actions = append(actions, ActionBack)
	}
	options = append(options, menuGoto, menuReload, menuQuit)
	actions = append(actions, ActionGoto, ActionReload, ActionQuit)

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:  r.theme.PromptPrefix + "Navigate",
		Options:  options,
		PageSize: r.pageSize,
	})
	if err != nil {
		return Choice{}, err
	}
	switch {
	case idx < 0 || idx >= len(options):
		return Choice{}, fmt.Errorf("%w: %d", ErrInvalidChoice, idx)
	case idx < len(links):
		return Choice{Action: ActionFollow, Target: links[idx].ID}, nil
	}

	action := actions[idx-len(links)]
	if action != ActionGoto {
		return Choice{Action: action}, nil
	}
	target, err := r.driver.Input(ctx, InputConfig{
		Message:   r.theme.PromptPrefix + "Node id",
		Help:      "Identity of the node to open, for example /person/ada",
		Validator: requireID,
	})
	if err != nil {
		return Choice{}, err
	}
	return Choice{Action: ActionGoto, Target: strings.TrimSpace(target)}, nil
}

func (r *Renderer) notify(ctx context.Context, err error) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
}

// navigableLinks lists distinct link targets other than the page itself.
func navigableLinks(page view.Page) []fragment.Link {
	seen := map[string]struct{}{page.ID: {}}
	var out []fragment.Link
	for _, link := range page.Links() {
		if link.Empty() {
			continue
		}
		if _, ok := seen[link.ID]; ok {
			continue
		}
		seen[link.ID] = struct{}{}
		out = append(out, link)
	}
	return out
}

func linkOption(link fragment.Link) string {
	if link.Text == "" || link.Text == link.ID {
		return link.ID
	}
	return link.Text + " (" + link.ID + ")"
}

func requireID(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("a node id is required")
	}
	return nil
}
