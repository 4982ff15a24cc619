package pages

import (
	"context"
	"fmt"
	"sync"

	"blogcms/client"
	"blogcms/models"
)

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
	AwaitingConfirmation
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case AwaitingConfirmation:
		return "awaiting-confirmation"
	}
	return "unknown"
}

type ScreenKind int

const (
	ScreenSpinner ScreenKind = iota
	ScreenError
	ScreenEmpty
	ScreenRows
	ScreenConfirm
)

// Row is one list entry. Href opens the edit route; DeleteID feeds the
// inline delete control and never navigates by itself.
type Row struct {
	ID       string
	Label    string
	Href     string
	DeleteID string
}

type Screen struct {
	Kind    ScreenKind
	Message string
	Rows    []Row
}

// Category is the admin-side category shape. Timestamps are dropped.
type Category struct {
	ID   string
	Name string
}

type PostLister interface {
	ListPosts(ctx context.Context) ([]models.PostWithCategoryIDs, error)
	DeletePost(ctx context.Context, id string) error
}

type CategoryLister interface {
	ListCategories(ctx context.Context) ([]client.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ListSource is what a List needs to fetch, delete and display one collection.
type ListSource[T any] struct {
	Noun      string
	IndexPath string
	Fetch     func(ctx context.Context) ([]T, error)
	Delete    func(ctx context.Context, id string) error
	ID        func(T) string
	Label     func(T) string
}

// List is the fetch/delete state machine behind the admin collection pages.
// It is safe for concurrent use.
type List[T any] struct {
	src ListSource[T]
	nav Navigator

	mu      sync.Mutex
	guard   guard
	status  Status
	items   []T
	message string
	pending string
}

func NewList[T any](src ListSource[T], nav Navigator) *List[T] {
	return &List[T]{src: src, nav: nav}
}

func NewPostList(api PostLister, nav Navigator) *List[models.PostWithCategoryIDs] {
	return NewList(ListSource[models.PostWithCategoryIDs]{
		Noun:      "posts",
		IndexPath: PostsIndex,
		Fetch:     api.ListPosts,
		Delete:    api.DeletePost,
		ID:        func(p models.PostWithCategoryIDs) string { return p.ID },
		Label:     func(p models.PostWithCategoryIDs) string { return p.Title },
	}, nav)
}

func NewCategoryList(api CategoryLister, nav Navigator) *List[Category] {
	return NewList(ListSource[Category]{
		Noun:      "categories",
		IndexPath: CategoriesIndex,
		Fetch: func(ctx context.Context) ([]Category, error) {
			wire, err := api.ListCategories(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]Category, 0, len(wire))
			for _, c := range wire {
				out = append(out, Category{ID: c.ID, Name: c.Name})
			}
			return out, nil
		},
		Delete: api.DeleteCategory,
		ID:     func(c Category) string { return c.ID },
		Label:  func(c Category) string { return c.Name },
	}, nav)
}

// Mount fetches the collection. Results arriving after Close or after a
// newer operation started are dropped.
func (l *List[T]) Mount(ctx context.Context) {
	l.mu.Lock()
	ctx, seq, cancel := l.guard.begin(ctx)
	defer cancel()
	l.status = Loading
	l.message = ""
	l.pending = ""
	l.mu.Unlock()

	items, err := l.src.Fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.guard.current(ctx, seq) {
		return
	}
	if err != nil {
		l.fail(fmt.Sprintf("Failed to load %s: %s", l.src.Noun, describe(err)))
		return
	}
	if items == nil {
		items = []T{}
	}
	l.items = items
	l.status = Loaded
}

// RequestDelete asks for confirmation before deleting id. It only applies to
// a loaded list that contains id.
func (l *List[T]) RequestDelete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != Loaded || l.indexOf(id) < 0 {
		return false
	}
	l.pending = id
	l.status = AwaitingConfirmation
	return true
}

func (l *List[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status == AwaitingConfirmation {
		l.pending = ""
		l.status = Loaded
	}
}

// Confirm deletes the pending item. On success the item is removed from the
// last known list and the page navigates to the collection index. On failure
// the list is discarded in favour of the error.
func (l *List[T]) Confirm(ctx context.Context) {
	l.mu.Lock()
	if l.status != AwaitingConfirmation {
		l.mu.Unlock()
		return
	}
	id := l.pending
	ctx, seq, cancel := l.guard.begin(ctx)
	defer cancel()
	l.pending = ""
	l.status = Loading
	l.mu.Unlock()

	err := l.src.Delete(ctx, id)

	l.mu.Lock()
	if !l.guard.current(ctx, seq) {
		l.mu.Unlock()
		return
	}
	if err != nil {
		l.fail(fmt.Sprintf("Failed to delete from %s: %s", l.src.Noun, describe(err)))
		l.mu.Unlock()
		return
	}
	kept := make([]T, 0, len(l.items))
	for _, item := range l.items {
		if l.src.ID(item) != id {
			kept = append(kept, item)
		}
	}
	l.items = kept
	l.status = Loaded
	l.mu.Unlock()

	if l.nav != nil {
		l.nav.Replace(l.src.IndexPath)
	}
}

// Close marks the page unmounted and aborts any request in flight.
func (l *List[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.guard.close()
}

func (l *List[T]) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Items returns a copy of the loaded items, or nil when nothing is loaded.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.items == nil {
		return nil
	}
	return append([]T{}, l.items...)
}

func (l *List[T]) Message() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.message
}

func (l *List[T]) Pending() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

func (l *List[T]) Screen() Screen {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.status {
	case Failed:
		return Screen{Kind: ScreenError, Message: l.message}
	case Loaded, AwaitingConfirmation:
		if len(l.items) == 0 {
			return Screen{Kind: ScreenEmpty, Message: fmt.Sprintf("No %s created yet.", l.src.Noun)}
		}
		rows := make([]Row, 0, len(l.items))
		for _, item := range l.items {
			id := l.src.ID(item)
			rows = append(rows, Row{
				ID:       id,
				Label:    l.src.Label(item),
				Href:     l.src.IndexPath + "/" + id,
				DeleteID: id,
			})
		}
		if l.status == AwaitingConfirmation {
			label := l.pending
			if i := l.indexOf(l.pending); i >= 0 {
				label = l.src.Label(l.items[i])
			}
			return Screen{Kind: ScreenConfirm, Message: fmt.Sprintf("Delete %q?", label), Rows: rows}
		}
		return Screen{Kind: ScreenRows, Rows: rows}
	}
	return Screen{Kind: ScreenSpinner}
}

func (l *List[T]) fail(message string) {
	l.items = nil
	l.message = message
	l.status = Failed
}

func (l *List[T]) indexOf(id string) int {
	for i, item := range l.items {
		if l.src.ID(item) == id {
			return i
		}
	}
	return -1
}
