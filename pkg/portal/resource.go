package portal

import (
	"context"
	"net/http"
	"slices"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
)

// Resource implements the operations every family shares on top of one
// REST base path and one store.
type Resource[E slice.Entity] struct {
	family string
	client *httpclient.Client
	store  *slice.Slice[E]
	d      *action.Dispatcher
	// writeGuards run before create, update and delete.
	writeGuards []action.Guard
}

func newResource[E slice.Entity](family string, client *httpclient.Client, store *slice.Slice[E], d *action.Dispatcher, writeGuards ...action.Guard) *Resource[E] {
	return &Resource[E]{family: family, client: client, store: store, d: d, writeGuards: writeGuards}
}

// Family returns the family name, e.g. "app".
func (r *Resource[E]) Family() string {
	return r.family
}

// Store returns the family's store.
func (r *Resource[E]) Store() *slice.Slice[E] {
	return r.store
}

func (r *Resource[E]) meta(kind action.Kind, id int) action.Meta {
	return action.Meta{Family: r.family, Kind: kind, ID: id}
}

// List fetches the whole collection, replacing the store's items.
func (r *Resource[E]) List(ctx context.Context, req ListRequest) (action.Outcome[[]E], error) {
	return action.Run(ctx, r.d, r.meta(action.KindList, 0), r.store.ListSink(),
		func(ctx context.Context) ([]E, error) {
			data, err := r.client.Send(ctx, http.MethodGet, "/", nil, req.Token)
			if err != nil {
				return nil, err
			}
			return httpclient.DecodeCollection[E](data)
		})
}

// CheckWrite runs the family's write guards for an action of kind without
// dispatching it. Callers that prepare a write with extra reads use it to
// fail before any request is made.
func (r *Resource[E]) CheckWrite(kind action.Kind, id int) error {
	return action.CheckGuards(r.meta(kind, id), r.writeGuards...)
}

// Details fetches one entity into the store's selected entity.
func (r *Resource[E]) Details(ctx context.Context, req IDRequest) (action.Outcome[E], error) {
	return action.Run(ctx, r.d, r.meta(action.KindDetails, req.ID), r.store.EntitySink(),
		r.fetch(http.MethodGet, httpclient.ItemPath(req.ID), nil, req.Token))
}

// Delete removes one entity on the server, then from the store's items.
func (r *Resource[E]) Delete(ctx context.Context, req IDRequest) (action.Outcome[E], error) {
	return action.Run(ctx, r.d, r.meta(action.KindDelete, req.ID), r.store.DeleteSink(),
		func(ctx context.Context) (E, error) {
			data, err := r.client.Send(ctx, http.MethodDelete, httpclient.ItemPath(req.ID), nil, req.Token)
			if err != nil {
				var zero E
				return zero, err
			}
			return httpclient.DecodeOptional[E](data)
		}, r.writeGuards...)
}

func (r *Resource[E]) create(ctx context.Context, token string, body httpclient.Body, guards ...action.Guard) (action.Outcome[E], error) {
	return action.Run(ctx, r.d, r.meta(action.KindCreate, 0), r.store.EntitySink(),
		r.fetch(http.MethodPost, "/", body, token), slices.Concat(r.writeGuards, guards)...)
}

func (r *Resource[E]) update(ctx context.Context, req IDRequest, body httpclient.Body, guards ...action.Guard) (action.Outcome[E], error) {
	return action.Run(ctx, r.d, r.meta(action.KindUpdate, req.ID), r.store.EntitySink(),
		r.fetch(http.MethodPut, httpclient.ItemPath(req.ID), body, req.Token), slices.Concat(r.writeGuards, guards)...)
}

func (r *Resource[E]) fetch(method, path string, body httpclient.Body, token string) func(context.Context) (E, error) {
	return func(ctx context.Context) (E, error) {
		data, err := r.client.Send(ctx, method, path, body, token)
		if err != nil {
			var zero E
			return zero, err
		}
		return httpclient.DecodeEntity[E](data)
	}
}
