package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
)

// Apps is the applications catalogue, mounted at /applications/app/.
type Apps struct {
	*Resource[App]
}

// Create publishes a new app.
func (a *Apps) Create(ctx context.Context, token string, in AppInput) (action.Outcome[App], error) {
	return a.create(ctx, token, in.body())
}

// Update replaces the fields of an app.
func (a *Apps) Update(ctx context.Context, req IDRequest, in AppInput) (action.Outcome[App], error) {
	return a.update(ctx, req, in.body())
}

// MultimediaLibrary is the multimedia library, mounted at /multimedia/, and
// its classification catalogue.
type MultimediaLibrary struct {
	*Resource[Multimedia]
	classifications *Resource[Classification]
}

// Create publishes a new multimedia entry.
func (m *MultimediaLibrary) Create(ctx context.Context, token string, in MultimediaInput) (action.Outcome[Multimedia], error) {
	return m.create(ctx, token, in.body())
}

// Update replaces the fields of a multimedia entry.
func (m *MultimediaLibrary) Update(ctx context.Context, req IDRequest, in MultimediaInput) (action.Outcome[Multimedia], error) {
	return m.update(ctx, req, in.body())
}

// Classifications returns the store of the classification catalogue.
func (m *MultimediaLibrary) Classifications() *slice.Slice[Classification] {
	return m.classifications.Store()
}

// ListClassifications fetches the classification catalogue.
func (m *MultimediaLibrary) ListClassifications(ctx context.Context, req ListRequest) (action.Outcome[[]Classification], error) {
	return m.classifications.List(ctx, req)
}

// Blogs is the forum, mounted at /blog/.
type Blogs struct {
	*Resource[Blog]
}

// Create publishes a new blog entry.
func (b *Blogs) Create(ctx context.Context, token string, in BlogInput) (action.Outcome[Blog], error) {
	return b.create(ctx, token, in.body())
}

// Update replaces the fields of a blog entry.
func (b *Blogs) Update(ctx context.Context, req IDRequest, in BlogInput) (action.Outcome[Blog], error) {
	return b.update(ctx, req, in.body())
}

// Comment posts a comment on the blog entry req.ID and, once the server
// accepts it, refreshes that entry so the comment shows in its details.
// The comment itself only advances the family's flags. Any signed-in user
// may comment.
func (b *Blogs) Comment(ctx context.Context, req IDRequest, in CommentInput) (action.Outcome[Blog], error) {
	out, err := action.Run(ctx, b.d, b.meta(action.KindComment, req.ID), slice.FlagSink[Blog, struct{}](b.store),
		func(ctx context.Context) (struct{}, error) {
			_, err := b.client.Send(ctx, http.MethodPost, fmt.Sprintf("/%d/comment/", req.ID), httpclient.JSON(in), req.Token)
			return struct{}{}, err
		})
	if err != nil || out.Phase != action.Fulfilled {
		return action.Outcome[Blog]{Meta: out.Meta, Phase: out.Phase, Message: out.Message, Err: out.Err}, err
	}
	return b.Details(ctx, req)
}

// Suggestions is the suggestions and complaints box, mounted at /suggestion/.
type Suggestions struct {
	*Resource[Suggestion]
}

// Create files a new suggestion. Every signed-in user may do so.
func (s *Suggestions) Create(ctx context.Context, token string, in SuggestionInput) (action.Outcome[Suggestion], error) {
	return action.Run(ctx, s.d, s.meta(action.KindCreate, 0), s.store.EntitySink(),
		s.fetch(http.MethodPost, "/", in.body(), token))
}

// Update replaces the fields of a suggestion.
func (s *Suggestions) Update(ctx context.Context, req IDRequest, in SuggestionInput) (action.Outcome[Suggestion], error) {
	return s.update(ctx, req, in.body())
}
