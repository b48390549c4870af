package portal

import (
	"context"
	"net/http"
	"strconv"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
)

// UserInfoKey is the local storage key of the signed-in user.
const UserInfoKey = "userInfo"

// Users is the user directory, mounted at /users/. The store's Items hold
// the directory; its Selected entity is the signed-in user, persisted under
// UserInfoKey.
type Users struct {
	*Resource[User]
}

// Current returns the signed-in user, or nil.
func (u *Users) Current() *User {
	return u.store.State().Selected
}

// Token returns the signed-in user's token, or "".
func (u *Users) Token() string {
	if cur := u.Current(); cur != nil {
		return cur.Token
	}
	return ""
}

// SetSession makes user the signed-in user.
func (u *Users) SetSession(user User) {
	u.store.Select(user)
}

// Logout forgets the signed-in user and its persisted copy.
func (u *Users) Logout() {
	u.store.ClearSelected()
}

// Details fetches one user into the directory, replacing its items with
// that single user. The signed-in user is not affected.
func (u *Users) Details(ctx context.Context, req IDRequest) (action.Outcome[User], error) {
	sink := action.Adapt(u.store.ListSink(), func(v User) []User { return []User{v} })
	return action.Run(ctx, u.d, u.meta(action.KindDetails, req.ID), sink,
		u.fetch(http.MethodGet, httpclient.ItemPath(req.ID), nil, req.Token))
}

// Update changes the signed-in user's profile. The password checklist is
// checked before anything is sent. The session keeps its own token when the
// server does not return a new one; req.Token only authorizes the request.
func (u *Users) Update(ctx context.Context, req IDRequest, in UserInput) (action.Outcome[User], error) {
	fetch := u.fetch(http.MethodPut, httpclient.ItemPath(req.ID), in.body(), req.Token)
	return action.Run(ctx, u.d, u.meta(action.KindUpdate, req.ID), u.store.EntitySink(),
		func(ctx context.Context) (User, error) {
			sessionToken := u.Token()
			updated, err := fetch(ctx)
			if err == nil && updated.Token == "" {
				updated.Token = sessionToken
			}
			return updated, err
		},
		RequireSelf(u.Current, req.ID), PasswordGuard(in))
}

// UploadImage uploads a profile image for userID and returns the path the
// server stored it under. It does not touch the store.
func (u *Users) UploadImage(ctx context.Context, token string, userID int, image httpclient.File) (string, error) {
	image.Field = "image"
	body := httpclient.Multipart([]httpclient.Field{{Name: "user_id", Value: strconv.Itoa(userID)}}, image)
	data, err := u.client.Send(ctx, http.MethodPost, "/image/", body, token)
	if err != nil {
		return "", err
	}
	return httpclient.DecodeValue[string](data)
}
