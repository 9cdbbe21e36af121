package tui

import (
	"context"
	"errors"

	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/view"
)

// PageSource produces the composed page for a node identity.
type PageSource interface {
	Page(ctx context.Context, id string) (view.Page, error)
}

// PageSourceFunc adapts a function to PageSource.
type PageSourceFunc func(ctx context.Context, id string) (view.Page, error)

// Page calls f.
func (f PageSourceFunc) Page(ctx context.Context, id string) (view.Page, error) {
	return f(ctx, id)
}

// Browser walks the graph interactively: it shows a page, follows the chosen
// link and keeps a history for back navigation.
type Browser struct {
	renderer *Renderer
	source   PageSource
	options  render.RenderOptions
	history  *History
}

// NewBrowser builds a browser over source using a renderer configured with
// options.
func NewBrowser(source PageSource, renderOptions render.RenderOptions, options ...Option) (*Browser, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	renderer, err := New(options...)
	if err != nil {
		return nil, err
	}
	return &Browser{
		renderer: renderer,
		source:   source,
		options:  renderOptions,
		history:  &History{},
	}, nil
}

// History exposes the navigation stack.
func (b *Browser) History() *History {
	return b.history
}

// Run browses from start until the user quits. Fetch failures are reported
// and leave the user on an empty page with the navigation menu. Quitting and
// aborting both return nil.
func (b *Browser) Run(ctx context.Context, start string) error {
	b.history.Push(start)
	for {
		id, ok := b.history.Current()
		if !ok {
			return nil
		}

		page, err := b.source.Page(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if notifyErr := b.renderer.notify(ctx, err); notifyErr != nil {
				return notifyErr
			}
			page = view.Page{ID: id, Title: id}
		}

		choice, err := b.renderer.Prompt(ctx, page, b.options, b.history.CanGoBack())
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice.Action {
		case ActionFollow, ActionGoto:
			b.history.Push(choice.Target)
		case ActionBack:
			b.history.Back()
		case ActionQuit:
			return nil
		}
	}
}
