package portal

import (
	"log/slog"
	"net/http"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/localstore"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
)

// DefaultBackendURL is the portal address used outside production.
const DefaultBackendURL = "http://localhost:8000"

// REST base paths, relative to the backend URL.
const (
	AppsPath            = "/applications/app/"
	MultimediaPath      = "/multimedia/"
	ClassificationsPath = "/multimedia/classification/"
	BlogPath            = "/blog/"
	SuggestionPath      = "/suggestion/"
	UsersPath           = "/users/"
)

// Family names.
const (
	FamilyApp            = "app"
	FamilyMultimedia     = "multimedia"
	FamilyClassification = "classification"
	FamilyBlog           = "blog"
	FamilySuggestion     = "suggestion"
	FamilyUser           = "user"
)

// Deps are the dependencies of a State.
type Deps struct {
	// BackendURL defaults to DefaultBackendURL.
	BackendURL string
	HTTPClient *http.Client
	// Persister stores the signed-in user. Nil keeps it in memory only.
	Persister localstore.Persister
	Policy    slice.Policy
	Logger    *slog.Logger
}

// State is the application state container: one service per family, all
// sharing a Dispatcher. Build it once and pass it to the views.
type State struct {
	Apps        *Apps
	Multimedia  *MultimediaLibrary
	Blogs       *Blogs
	Suggestions *Suggestions
	Users       *Users
}

// NewState builds the stores and services of every family. The signed-in
// user is rehydrated from deps.Persister; every other store starts empty.
func NewState(deps Deps) *State {
	if deps.BackendURL == "" {
		deps.BackendURL = DefaultBackendURL
	}
	if deps.Persister == nil {
		deps.Persister = localstore.NewMemory()
	}

	d := action.NewDispatcher(deps.Logger)
	clientOpts := []httpclient.Option{httpclient.WithLogger(deps.Logger)}
	if deps.HTTPClient != nil {
		clientOpts = append(clientOpts, httpclient.WithHTTPClient(deps.HTTPClient))
	}
	client := func(path string) *httpclient.Client {
		return httpclient.New(deps.BackendURL, path, clientOpts...)
	}
	opts := slice.Options{Policy: deps.Policy, Logger: deps.Logger}

	userOpts := opts
	userOpts.Persister = deps.Persister
	userOpts.Key = UserInfoKey
	users := &Users{newResource(FamilyUser, client(UsersPath), slice.New[User](FamilyUser, userOpts), d)}
	users.writeGuards = []action.Guard{RequireRole(users.Current, RoleAdmin)}

	publish := RequireRole(users.Current, RoleEditor, RoleAdmin)

	return &State{
		Apps: &Apps{newResource(FamilyApp, client(AppsPath), slice.New[App](FamilyApp, opts), d, publish)},
		Multimedia: &MultimediaLibrary{
			Resource: newResource(FamilyMultimedia, client(MultimediaPath),
				slice.New[Multimedia](FamilyMultimedia, opts), d, publish),
			classifications: newResource(FamilyClassification, client(ClassificationsPath),
				slice.New[Classification](FamilyClassification, opts), d),
		},
		Blogs:       &Blogs{newResource(FamilyBlog, client(BlogPath), slice.New[Blog](FamilyBlog, opts), d, publish)},
		Suggestions: &Suggestions{newResource(FamilySuggestion, client(SuggestionPath), slice.New[Suggestion](FamilySuggestion, opts), d, publish)},
		Users:       users,
	}
}

// Token returns the signed-in user's token, or "".
func (s *State) Token() string {
	return s.Users.Token()
}
