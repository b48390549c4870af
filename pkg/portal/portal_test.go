package portal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanmeissimilly/alinfo/internal/portaltest"
	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/localstore"
)

var (
	editor = User{ID: 1, UserName: "ana", Email: "ana@uci.cu", Role: RoleEditor, Token: "t1"}
	reader = User{ID: 2, UserName: "luis", Email: "luis@uci.cu", Role: RoleReader, Token: "t2"}
)

func newTestState(t *testing.T) (*State, *portaltest.Server) {
	t.Helper()
	srv := portaltest.New()
	ts := srv.Start(t)
	return NewState(Deps{BackendURL: ts.URL}), srv
}

func appIDs(apps []App) []int {
	out := make([]int, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestApps_ListThenDelete(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(AppsPath,
		portaltest.Item{"id": 1, "title": "Moodle", "version": "4.1", "applicationclassification": 2},
		portaltest.Item{"id": 2, "title": "Octave", "version": "9.1", "applicationclassification": 1},
	)
	st.Users.SetSession(editor)

	out, err := st.Apps.List(context.Background(), ListRequest{Token: "t1"})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase)

	state := st.Apps.Store().State()
	assert.Equal(t, []int{1, 2}, appIDs(state.Items))
	assert.Equal(t, "Moodle", state.Items[0].Title)
	assert.Equal(t, 2, state.Items[0].Classification)
	assert.False(t, state.Loading)
	assert.True(t, state.Success)

	_, err = st.Apps.Delete(context.Background(), IDRequest{ID: 2, Token: "t1"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, appIDs(st.Apps.Store().State().Items))
	assert.Len(t, srv.Items(AppsPath), 1)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "GET", reqs[0].Method)
	assert.Equal(t, "/applications/app/", reqs[0].Path)
	assert.Equal(t, "Bearer t1", reqs[0].Authorization)
	assert.Equal(t, "DELETE", reqs[1].Method)
	assert.Equal(t, "/applications/app/2/", reqs[1].Path)
}

func TestDetails_NotFound(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(SuggestionPath, portaltest.Item{"id": 1, "title": "Más enchufes"})

	_, err := st.Suggestions.Details(context.Background(), IDRequest{ID: 1, Token: "t1"})
	require.NoError(t, err)
	before := st.Suggestions.Store().State().Selected

	out, err := st.Suggestions.Details(context.Background(), IDRequest{ID: 99, Token: "t1"})
	require.NoError(t, err)
	assert.Equal(t, action.Rejected, out.Phase)
	assert.True(t, httpclient.IsNotFound(out.Err))

	state := st.Suggestions.Store().State()
	assert.Equal(t, portaltest.NotFoundDetail, state.Error)
	assert.False(t, state.Loading)
	assert.Equal(t, before, state.Selected)
}

func TestUnauthorized_RecordsDetail(t *testing.T) {
	st, srv := newTestState(t)
	srv.Token = "secret"

	out, err := st.Blogs.List(context.Background(), ListRequest{Token: "wrong"})
	require.NoError(t, err)
	assert.Equal(t, action.Rejected, out.Phase)
	assert.Equal(t, portaltest.UnauthorizedDetail, st.Blogs.Store().State().Error)
}

func TestCreate_RoleGuardBlocksDispatch(t *testing.T) {
	tests := []struct {
		name    string
		session *User
		wantErr error
	}{
		{"no session", nil, ErrNoSession},
		{"reader", &reader, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, srv := newTestState(t)
			if tt.session != nil {
				st.Users.SetSession(*tt.session)
			}
			before := st.Blogs.Store().State()

			_, err := st.Blogs.Create(context.Background(), "t2", BlogInput{Title: "Hola", Body: "..."})

			var guardErr *action.GuardError
			require.True(t, errors.As(err, &guardErr))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.Contains(t, err.Error(), "requires editor or admin")
			}
			assert.Empty(t, srv.Requests())
			assert.Equal(t, before, st.Blogs.Store().State())
		})
	}
}

func TestCreate_JSONAndMultipart(t *testing.T) {
	st, srv := newTestState(t)
	st.Users.SetSession(editor)

	out, err := st.Apps.Create(context.Background(), "t1", AppInput{Title: "GIMP", Version: "2.10", Classification: 3})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase, out.Message)
	assert.Equal(t, "GIMP", st.Apps.Store().State().Selected.Title)
	assert.Equal(t, 3, st.Apps.Store().State().Selected.Classification)

	out, err = st.Apps.Create(context.Background(), "t1", AppInput{
		Title:          "Inkscape",
		Version:        "1.3",
		Classification: 4,
		Data:           &httpclient.File{Name: "inkscape.zip", Content: strings.NewReader("zip")},
	})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase, out.Message)

	selected := st.Apps.Store().State().Selected
	assert.Equal(t, "Inkscape", selected.Title)
	assert.Equal(t, 4, selected.Classification)
	assert.Equal(t, "/media/inkscape.zip", selected.Data)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, httpclient.ContentTypeJSON, reqs[0].ContentType)
	assert.True(t, strings.HasPrefix(reqs[1].ContentType, "multipart/form-data; boundary="))
}

func TestBlogs_UpdateWithImage(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(BlogPath, portaltest.Item{"id": 5, "title": "Viejo", "body": "b"})
	st.Users.SetSession(editor)

	out, err := st.Blogs.Update(context.Background(), IDRequest{ID: 5, Token: "t1"}, BlogInput{
		Title: "Nuevo",
		Body:  "b",
		Image: &httpclient.File{Name: "portada.png", Content: strings.NewReader("png")},
	})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase, out.Message)
	assert.Equal(t, "Nuevo", out.Value.Title)
	assert.Equal(t, "/media/portada.png", out.Value.Image)
}

func TestBlogs_CommentRefreshesDetails(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(BlogPath, portaltest.Item{"id": 5, "title": "Bienvenidos", "body": "..."})
	st.Users.SetSession(reader)

	out, err := st.Blogs.Comment(context.Background(), IDRequest{ID: 5, Token: "t2"}, CommentInput{Text: "Gracias"})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase, out.Message)

	selected := st.Blogs.Store().State().Selected
	require.NotNil(t, selected)
	require.Len(t, selected.Comments, 1)
	assert.Equal(t, "Gracias", selected.Comments[0].Text)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/blog/5/comment/", reqs[0].Path)
	assert.Equal(t, "/blog/5/", reqs[1].Path)
}

func TestBlogs_CommentRejected(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(BlogPath, portaltest.Item{"id": 5, "title": "Bienvenidos"})

	out, err := st.Blogs.Comment(context.Background(), IDRequest{ID: 5, Token: "t2"}, CommentInput{Text: "  "})
	require.NoError(t, err)
	assert.Equal(t, action.Rejected, out.Phase)
	assert.Equal(t, "El comentario no puede estar vacío.", st.Blogs.Store().State().Error)
	assert.Len(t, srv.Requests(), 1)
}

func TestMultimedia_Classifications(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(ClassificationsPath,
		portaltest.Item{"id": 1, "description": "Videos"},
		portaltest.Item{"id": 2, "description": "Documentos"},
	)

	_, err := st.Multimedia.ListClassifications(context.Background(), ListRequest{Token: "t1"})
	require.NoError(t, err)
	items := st.Multimedia.Classifications().State().Items
	require.Len(t, items, 2)
	assert.Equal(t, "Documentos", items[1].Description)
	assert.Empty(t, st.Multimedia.Store().State().Items)
}

func TestUsers_DetailsDoesNotReplaceSession(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(UsersPath, portaltest.Item{"id": 2, "user_name": "luis", "role": "reader"})
	st.Users.SetSession(editor)

	out, err := st.Users.Details(context.Background(), IDRequest{ID: 2, Token: "t1"})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase)

	state := st.Users.Store().State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "luis", state.Items[0].UserName)
	assert.Equal(t, "ana", st.Users.Current().UserName)
}

func TestUsers_UpdatePasswordGuard(t *testing.T) {
	st, srv := newTestState(t)
	st.Users.SetSession(editor)

	_, err := st.Users.Update(context.Background(), IDRequest{ID: 1, Token: "t1"}, UserInput{
		UserName: "ana", Email: "ana@uci.cu", Password: "Secreta#1", ConfirmPassword: "Secreta#2",
	})
	var guardErr *action.GuardError
	require.True(t, errors.As(err, &guardErr))
	assert.Contains(t, err.Error(), "must be equal to")
	assert.Empty(t, srv.Requests())
	assert.Equal(t, editor, *st.Users.Current())
}

func TestUsers_UpdateOtherUserBlocked(t *testing.T) {
	st, srv := newTestState(t)
	st.Users.SetSession(editor)

	_, err := st.Users.Update(context.Background(), IDRequest{ID: 2, Token: "t1"}, UserInput{
		Password: "Secreta#1", ConfirmPassword: "Secreta#1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own profile")
	assert.Empty(t, srv.Requests())
}

func TestUsers_UpdatePersistsSessionAndKeepsToken(t *testing.T) {
	mem := localstore.NewMemory()
	srv := portaltest.New()
	srv.Seed(UsersPath, portaltest.Item{"id": 1, "user_name": "ana", "email": "ana@uci.cu", "role": "editor"})
	ts := srv.Start(t)
	st := NewState(Deps{BackendURL: ts.URL, Persister: mem})
	st.Users.SetSession(editor)

	out, err := st.Users.Update(context.Background(), IDRequest{ID: 1, Token: "t1"}, UserInput{
		UserName: "ana", Email: "ana@uci.cu", Bio: "Profesora", Password: "Secreta#1", ConfirmPassword: "Secreta#1", Role: RoleEditor,
	})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase, out.Message)

	cur := st.Users.Current()
	assert.Equal(t, "Profesora", cur.Bio)
	assert.Equal(t, "t1", cur.Token)

	reopened := NewState(Deps{BackendURL: ts.URL, Persister: mem})
	require.NotNil(t, reopened.Users.Current())
	assert.Equal(t, "Profesora", reopened.Users.Current().Bio)
	assert.Equal(t, "t1", reopened.Token())

	reopened.Users.Logout()
	assert.Nil(t, reopened.Users.Current())
	assert.Equal(t, "", NewState(Deps{BackendURL: ts.URL, Persister: mem}).Token())
}

func TestUsers_UpdateKeepsSessionTokenOverRequestToken(t *testing.T) {
	mem := localstore.NewMemory()
	srv := portaltest.New()
	srv.Seed(UsersPath, portaltest.Item{"id": 1, "user_name": "ana", "email": "ana@uci.cu", "role": "editor"})
	ts := srv.Start(t)
	st := NewState(Deps{BackendURL: ts.URL, Persister: mem})
	st.Users.SetSession(editor)

	out, err := st.Users.Update(context.Background(), IDRequest{ID: 1, Token: "one-off"}, UserInput{
		UserName: "ana", Email: "ana@uci.cu", Bio: "Profesora", Password: "Secreta#1", ConfirmPassword: "Secreta#1", Role: RoleEditor,
	})
	require.NoError(t, err)
	require.Equal(t, action.Fulfilled, out.Phase, out.Message)

	assert.Equal(t, "t1", st.Users.Current().Token)
	assert.Equal(t, "t1", NewState(Deps{BackendURL: ts.URL, Persister: mem}).Token())
}

func TestResource_CheckWrite(t *testing.T) {
	st, srv := newTestState(t)

	err := st.Apps.CheckWrite(action.KindUpdate, 1)
	assert.ErrorIs(t, err, ErrNoSession)

	st.Users.SetSession(reader)
	err = st.Suggestions.CheckWrite(action.KindUpdate, 3)
	var guardErr *action.GuardError
	require.ErrorAs(t, err, &guardErr)
	assert.Equal(t, FamilySuggestion, guardErr.Family)
	assert.Equal(t, action.KindUpdate, guardErr.Kind)
	assert.Contains(t, err.Error(), "requires editor or admin")

	st.Users.SetSession(editor)
	assert.NoError(t, st.Blogs.CheckWrite(action.KindUpdate, 5))
	assert.Empty(t, srv.Requests())
}

func TestUsers_DeleteRequiresAdmin(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(UsersPath, portaltest.Item{"id": 2, "user_name": "luis"})
	st.Users.SetSession(editor)

	_, err := st.Users.Delete(context.Background(), IDRequest{ID: 2, Token: "t1"})
	require.Error(t, err)
	assert.Empty(t, srv.Requests())

	admin := editor
	admin.Role = RoleAdmin
	st.Users.SetSession(admin)
	out, err := st.Users.Delete(context.Background(), IDRequest{ID: 2, Token: "t1"})
	require.NoError(t, err)
	assert.Equal(t, action.Fulfilled, out.Phase)
	assert.Empty(t, srv.Items(UsersPath))
}

func TestUsers_UploadImage(t *testing.T) {
	st, srv := newTestState(t)
	srv.Seed(UsersPath, portaltest.Item{"id": 1, "user_name": "ana"})

	path, err := st.Users.UploadImage(context.Background(), "t1", 1,
		httpclient.File{Name: "avatar.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, "/images/avatar.png", path)
	assert.Equal(t, "/images/avatar.png", srv.Items(UsersPath)[0]["image"])
	assert.False(t, st.Users.Store().State().Success)
}

func TestNewState_DefaultBackend(t *testing.T) {
	st := NewState(Deps{})
	assert.Equal(t, "http://localhost:8000/applications/app", st.Apps.client.BaseURL())
	assert.Equal(t, "http://localhost:8000/multimedia/classification", st.Multimedia.classifications.client.BaseURL())
	assert.Equal(t, FamilyUser, st.Users.Family())
}
