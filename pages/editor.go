package pages

import (
	"context"
	"fmt"
	"sync"

	"blogcms/client"
	"blogcms/common"
	"blogcms/models"
)

type EditorAPI interface {
	ListPosts(ctx context.Context) ([]models.PostWithCategoryIDs, error)
	ListCategories(ctx context.Context) ([]client.Category, error)
	UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.PostWithCategoryIDs, error)
	DeletePost(ctx context.Context, id string) error
}

type EditorState int

const (
	EditorLoading EditorState = iota
	Unresolved
	Resolved
)

// Fields mirrors the editable post fields with one error string per field.
type Fields struct {
	Title              string
	Content            string
	CoverImageURL      string
	TitleError         string
	ContentError       string
	CoverImageURLError string
}

type CategoryOption struct {
	ID      string
	Name    string
	Checked bool
}

// PostEditor is the edit form of a single post. There is no single-item
// fetch: it loads the whole post list and picks the route id out of it.
type PostEditor struct {
	api EditorAPI
	nav Navigator
	id  string

	mu             sync.Mutex
	guard          guard
	state          EditorState
	message        string
	optionsMessage string
	posts          []models.PostWithCategoryIDs
	options        []Category
	fields         Fields
	selected       []string
	submitting     bool
	confirming     bool
	alert          string
}

func NewPostEditor(api EditorAPI, nav Navigator, id string) *PostEditor {
	return &PostEditor{api: api, nav: nav, id: id}
}

func (e *PostEditor) Mount(ctx context.Context) {
	e.mu.Lock()
	ctx, seq, cancel := e.guard.begin(ctx)
	defer cancel()
	e.state = EditorLoading
	e.message = ""
	e.optionsMessage = ""
	e.mu.Unlock()

	posts, err := e.api.ListPosts(ctx)
	var cats []client.Category
	var catsErr error
	if err == nil {
		cats, catsErr = e.api.ListCategories(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.guard.current(ctx, seq) {
		return
	}
	if err != nil {
		e.state = Unresolved
		e.message = "Failed to load the post: " + describe(err)
		return
	}

	// Category options are optional: the post stays editable without them.
	e.posts = posts
	e.options = make([]Category, 0, len(cats))
	if catsErr != nil {
		e.optionsMessage = "Failed to load categories: " + describe(catsErr)
	}
	for _, c := range cats {
		e.options = append(e.options, Category{ID: c.ID, Name: c.Name})
	}

	post := e.find(e.id)
	if post == nil {
		e.state = Unresolved
		e.message = "Post not found."
		return
	}
	e.seed(*post)
	e.state = Resolved
}

func (e *PostEditor) SetTitle(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fields.Title = v
	e.fields.TitleError = common.ValidateTitle(v)
}

func (e *PostEditor) SetContent(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fields.Content = v
	e.fields.ContentError = common.ValidateContent(v)
}

func (e *PostEditor) SetCoverImageURL(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fields.CoverImageURL = v
	e.fields.CoverImageURLError = common.ValidateCoverImageURL(v)
}

// ToggleCategory adds or removes id from the selection. Selection is not
// validated.
func (e *PostEditor) ToggleCategory(id string, checked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	at := -1
	for i, sel := range e.selected {
		if sel == id {
			at = i
			break
		}
	}
	switch {
	case checked && at < 0:
		e.selected = append(e.selected, id)
	case !checked && at >= 0:
		e.selected = append(e.selected[:at], e.selected[at+1:]...)
	}
}

// CanSubmit reports whether the submit control is enabled.
func (e *PostEditor) CanSubmit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canSubmit()
}

func (e *PostEditor) canSubmit() bool {
	f := e.fields
	if e.state != Resolved || e.submitting || e.confirming {
		return false
	}
	if f.Title == "" || f.Content == "" || f.CoverImageURL == "" {
		return false
	}
	return f.TitleError == "" && f.ContentError == "" && f.CoverImageURLError == ""
}

// Submit sends the full field set. The stored post returned by the server
// replaces the local copy and reseeds the form.
func (e *PostEditor) Submit(ctx context.Context) bool {
	e.mu.Lock()
	if !e.canSubmit() {
		e.mu.Unlock()
		return false
	}
	in := models.PostInput{
		Title:         e.fields.Title,
		Content:       e.fields.Content,
		CoverImageURL: e.fields.CoverImageURL,
		CategoryIDs:   append([]string{}, e.selected...),
	}
	ctx, seq, cancel := e.guard.begin(ctx)
	defer cancel()
	e.submitting = true
	e.mu.Unlock()

	updated, err := e.api.UpdatePost(ctx, e.id, in)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.guard.current(ctx, seq) {
		return false
	}
	e.submitting = false
	if err != nil {
		e.alert = "Failed to save the post: " + describe(err)
		return false
	}
	for i := range e.posts {
		if e.posts[i].ID == updated.ID {
			e.posts[i] = *updated
		}
	}
	e.seed(*updated)
	return true
}

func (e *PostEditor) RequestDelete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Resolved || e.submitting {
		return false
	}
	e.confirming = true
	return true
}

func (e *PostEditor) CancelDelete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirming = false
}

// ConfirmPrompt names the post awaiting deletion, or is empty when no
// deletion is pending.
func (e *PostEditor) ConfirmPrompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.confirming {
		return ""
	}
	title := e.fields.Title
	if post := e.find(e.id); post != nil {
		title = post.Title
	}
	return fmt.Sprintf("Delete %q?", title)
}

func (e *PostEditor) ConfirmDelete(ctx context.Context) bool {
	e.mu.Lock()
	if !e.confirming {
		e.mu.Unlock()
		return false
	}
	e.confirming = false
	ctx, seq, cancel := e.guard.begin(ctx)
	defer cancel()
	e.submitting = true
	e.mu.Unlock()

	err := e.api.DeletePost(ctx, e.id)

	e.mu.Lock()
	if !e.guard.current(ctx, seq) {
		e.mu.Unlock()
		return false
	}
	e.submitting = false
	if err != nil {
		e.alert = "Failed to delete the post: " + describe(err)
		e.mu.Unlock()
		return false
	}
	kept := e.posts[:0:0]
	for _, p := range e.posts {
		if p.ID != e.id {
			kept = append(kept, p)
		}
	}
	e.posts = kept
	e.mu.Unlock()

	if e.nav != nil {
		e.nav.Replace(PostsIndex)
	}
	return true
}

// Alert is the blocking error message raised by a failed submit or delete.
func (e *PostEditor) Alert() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alert
}

func (e *PostEditor) DismissAlert() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alert = ""
}

func (e *PostEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.guard.close()
}

func (e *PostEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// OptionsMessage is set when the category options could not be loaded.
func (e *PostEditor) OptionsMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.optionsMessage
}

// Message explains an Unresolved editor.
func (e *PostEditor) Message() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.message
}

func (e *PostEditor) Fields() Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fields
}

func (e *PostEditor) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

func (e *PostEditor) SelectedCategories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.selected...)
}

func (e *PostEditor) CategoryOptions() []CategoryOption {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]CategoryOption, 0, len(e.options))
	for _, c := range e.options {
		out = append(out, CategoryOption{ID: c.ID, Name: c.Name, Checked: e.isSelected(c.ID)})
	}
	return out
}

// Posts is the last known post list.
func (e *PostEditor) Posts() []models.PostWithCategoryIDs {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.PostWithCategoryIDs{}, e.posts...)
}

func (e *PostEditor) seed(p models.PostWithCategoryIDs) {
	e.fields = Fields{
		Title:         p.Title,
		Content:       p.Content,
		CoverImageURL: p.CoverImageURL,
	}
	e.selected = append([]string{}, p.CategoryIDs...)
}

func (e *PostEditor) find(id string) *models.PostWithCategoryIDs {
	for i := range e.posts {
		if e.posts[i].ID == id {
			return &e.posts[i]
		}
	}
	return nil
}

func (e *PostEditor) isSelected(id string) bool {
	for _, sel := range e.selected {
		if sel == id {
			return true
		}
	}
	return false
}
