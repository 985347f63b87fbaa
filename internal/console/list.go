package console

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nyacdn/cdnctl/internal/api"
)

// ListFunc fetches one page of an entity collection.
type ListFunc[T any] func(ctx context.Context, opts api.ListOptions) (*api.ListPage[T], error)

// DeleteFunc deletes one entity by id.
type DeleteFunc func(ctx context.Context, id int64) error

// ListController drives the paginated list view for one entity kind: page
// fetches keyed by page number, refetch after mutations, and confirm-gated
// deletion. Results of stale fetches are discarded by request tag, so the
// most recently issued fetch for a page is the one the view reflects.
type ListController[T any] struct {
	mu sync.Mutex

	kind    string
	list    ListFunc[T]
	del     DeleteFunc
	notify  Notifier
	confirm Confirmer
	logger  zerolog.Logger

	page     int
	pageMax  int // 0 until the first page settles
	pages    map[int]*api.ListPage[T]
	tags     map[int]string
	inflight int
}

func NewListController[T any](kind string, list ListFunc[T], del DeleteFunc, notify Notifier, confirm Confirmer, logger zerolog.Logger) *ListController[T] {
	return &ListController[T]{
		kind:    kind,
		list:    list,
		del:     del,
		notify:  notify,
		confirm: confirm,
		logger:  logger,
		page:    1,
		pages:   make(map[int]*api.ListPage[T]),
		tags:    make(map[int]string),
	}
}

// Page returns the current page number.
func (c *ListController[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Current returns the settled result for the current page, or nil while
// nothing has settled for it yet.
func (c *ListController[T]) Current() *api.ListPage[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[c.page]
}

// InFlight reports whether any controller operation is pending, for spinners
// and button disabling.
func (c *ListController[T]) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// clampLocked bounds a requested page to [1, pageMax]. Before any page has
// settled pageMax is unknown and only the lower bound applies.
func (c *ListController[T]) clampLocked(page int) int {
	if page < 1 {
		return 1
	}
	if c.pageMax > 0 && page > c.pageMax {
		return c.pageMax
	}
	return page
}

// LoadPage makes the clamped page current and fetches it. Concurrent loads
// for different pages are independent; for the same page, the most recently
// issued fetch wins and earlier results are dropped.
func (c *ListController[T]) LoadPage(ctx context.Context, page int) error {
	c.mu.Lock()
	page = c.clampLocked(page)
	c.page = page
	tag := uuid.NewString()
	c.tags[page] = tag
	c.inflight++
	c.mu.Unlock()

	result, err := c.list(ctx, api.ListOptions{Page: page})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if c.tags[page] != tag {
		// A newer fetch for this page was issued while we were in flight.
		c.logger.Debug().Str("kind", c.kind).Int("page", page).Msg("dropping stale list result")
		return nil
	}
	delete(c.tags, page)

	if err != nil {
		c.notify.Error(c.kind+" list failed", err.Error())
		return err
	}

	c.pages[page] = result
	c.pageMax = result.PageMax
	return nil
}

// Refresh refetches the current page.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	return c.LoadPage(ctx, c.Page())
}

// Invalidate drops every cached page. Mutations shift page boundaries, so a
// single-page refresh is never enough.
func (c *ListController[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[int]*api.ListPage[T])
	c.tags = make(map[int]string)
}

// Delete removes one entity after explicit confirmation. Cancelling issues no
// request. Success invalidates all cached pages and reloads the current one;
// failure surfaces the backend message and leaves the list untouched.
func (c *ListController[T]) Delete(ctx context.Context, id int64, label string) error {
	if !c.confirm.Confirm("Delete "+c.kind, "Delete "+c.kind+" "+label+"? This cannot be undone.") {
		return nil
	}

	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()

	err := c.del(ctx, id)

	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()

	if err != nil {
		c.notify.Error(c.kind+" delete failed", err.Error())
		return err
	}

	c.Invalidate()
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.notify.Success(c.kind+" deleted", label)
	return nil
}
