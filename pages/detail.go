package pages

import (
	"context"
	"errors"
	"sync"

	"blogcms/client"
	"blogcms/models"
)

type DetailAPI interface {
	GetPostWithCategories(ctx context.Context, id string) (*models.PostWithCategories, error)
}

type DetailStatus int

const (
	DetailLoading DetailStatus = iota
	DetailLoaded
	DetailNotFound
	DetailFailed
)

// PostDetail loads one post for display. A 404 is kept apart from other
// failures so the view can say the post does not exist.
type PostDetail struct {
	api DetailAPI
	id  string

	mu      sync.Mutex
	guard   guard
	status  DetailStatus
	post    *models.PostWithCategories
	message string
}

func NewPostDetail(api DetailAPI, id string) *PostDetail {
	return &PostDetail{api: api, id: id}
}

func (d *PostDetail) Load(ctx context.Context) {
	d.mu.Lock()
	ctx, seq, cancel := d.guard.begin(ctx)
	defer cancel()
	d.status = DetailLoading
	d.post = nil
	d.message = ""
	d.mu.Unlock()

	post, err := d.api.GetPostWithCategories(ctx, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.guard.current(ctx, seq) {
		return
	}
	switch {
	case errors.Is(err, client.ErrNotFound):
		d.status = DetailNotFound
		d.message = "Post not found."
	case err != nil:
		d.status = DetailFailed
		d.message = "Could not fetch the post with the given id."
	default:
		d.status = DetailLoaded
		d.post = post
	}
}

func (d *PostDetail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.guard.close()
}

func (d *PostDetail) Status() DetailStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *PostDetail) Post() *models.PostWithCategories {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.post
}

func (d *PostDetail) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}
