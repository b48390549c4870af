package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanmeissimilly/alinfo/internal/portaltest"
	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/cliconfig"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/portal"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
)

const testToken = "tok-ana"

// resetFlags restores every flag of cmd and its subcommands to its default,
// so that consecutive executions of the global rootCmd do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	app = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// newPortal starts a seeded portal and points the CLI at it through the
// environment, isolated from the user's config and session.
func newPortal(t *testing.T) *portaltest.Server {
	t.Helper()
	srv := portaltest.New()
	srv.Token = testToken
	srv.Seed(portal.UsersPath,
		portaltest.Item{"id": 1, "user_name": "ana", "email": "ana@uci.cu", "role": "admin"},
		portaltest.Item{"id": 2, "user_name": "luis", "email": "luis@uci.cu", "role": "reader"},
	)
	srv.Seed(portal.AppsPath,
		portaltest.Item{"id": 1, "title": "Moodle", "version": "4.1", "user": "ana", "date": "2024-01-15"},
		portaltest.Item{"id": 2, "title": "GNU Octave", "version": "9.1", "user": "luis", "date": "2024-02-01"},
	)
	ts := srv.Start(t)

	t.Chdir(t.TempDir())
	t.Setenv(cliconfig.EnvEnvironment, cliconfig.EnvironmentProduction)
	t.Setenv(cliconfig.EnvBackendURL, ts.URL)
	t.Setenv(cliconfig.EnvDataDir, filepath.Join(t.TempDir(), "data"))
	t.Setenv(cliconfig.EnvToken, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return srv
}

func countRequests(srv *portaltest.Server, method string) int {
	n := 0
	for _, r := range srv.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func TestAppList_Table(t *testing.T) {
	newPortal(t)

	out, err := execute(t, "app", "list", "--token", testToken)
	require.NoError(t, err)
	assert.Contains(t, out, "ID  TITLE")
	assert.Contains(t, out, "Moodle")
	assert.Contains(t, out, "15-01-2024")
}

func TestAppList_JSONPath(t *testing.T) {
	newPortal(t)

	out, err := execute(t, "app", "list", "--token", testToken, "--search", "OCTAVE", "--jsonpath", "$[*].title")
	require.NoError(t, err)
	assert.JSONEq(t, `["GNU Octave"]`, out)
}

func TestAppList_RejectedRendersStoreError(t *testing.T) {
	newPortal(t)

	out, err := execute(t, "app", "list")
	require.Error(t, err)
	assert.Empty(t, out)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, portal.FamilyApp, storeErr.Family)
	assert.Equal(t, portaltest.UnauthorizedDetail, storeErr.Message)
	assert.Equal(t, portaltest.UnauthorizedDetail, app.state.Apps.Store().State().Error)
}

func TestSession_GuardsWrites(t *testing.T) {
	srv := newPortal(t)

	out, err := execute(t, "session", "set", "2", "--token", testToken)
	require.NoError(t, err)
	assert.Equal(t, "Signed in as luis (reader)\n", out)

	_, err = execute(t, "app", "create", "--title", "Inkscape")
	var guardErr *action.GuardError
	require.ErrorAs(t, err, &guardErr)
	assert.Equal(t, action.KindCreate, guardErr.Kind)
	assert.Zero(t, countRequests(srv, http.MethodPost), "a blocked create must not reach the portal")

	gets := countRequests(srv, http.MethodGet)
	_, err = execute(t, "app", "update", "1", "--title", "Inkscape")
	require.ErrorAs(t, err, &guardErr)
	assert.Equal(t, action.KindUpdate, guardErr.Kind)
	assert.Equal(t, gets, countRequests(srv, http.MethodGet), "a blocked update must not prefetch the entry")
	assert.Zero(t, countRequests(srv, http.MethodPut))

	// The session survives across invocations.
	out, err = execute(t, "session", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"user_name": "luis"`)
	assert.NotContains(t, out, testToken)

	out, err = execute(t, "session", "logout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out\n", out)

	_, err = execute(t, "app", "delete", "1")
	assert.ErrorIs(t, err, portal.ErrNoSession)
}

func TestSession_AdminPublishes(t *testing.T) {
	srv := newPortal(t)

	_, err := execute(t, "session", "set", "1", "--token", testToken)
	require.NoError(t, err)

	out, err := execute(t, "app", "create", "--title", "Inkscape", "--version", "1.3")
	require.NoError(t, err)
	assert.Contains(t, out, "Inkscape")
	assert.Len(t, srv.Items(portal.AppsPath), 3)

	out, err = execute(t, "app", "delete", "2", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted": 2}`, out)
	assert.Len(t, srv.Items(portal.AppsPath), 2)
}

func TestUserUpdate_RequiresPassword(t *testing.T) {
	newPortal(t)

	_, err := execute(t, "session", "set", "1", "--token", testToken)
	require.NoError(t, err)

	if isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is a terminal")
	}
	_, err = execute(t, "user", "update", "--bio", "hola")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestConfigValidation(t *testing.T) {
	newPortal(t)

	_, err := execute(t, "app", "list", "--stale-responses", "sometimes")
	var cfgErr *cliconfig.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "staleResponses")
}

func TestApplyFlags(t *testing.T) {
	newPortal(t)

	out, err := execute(t, "config", "show", "--json", "--backend-url", "http://portal.uci.cu", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, `"backendUrl": "http://portal.uci.cu"`)
	assert.Equal(t, cliconfig.SourceFlag, app.cfg.Sources["backendUrl"])
	assert.Equal(t, cliconfig.SourceFlag, app.cfg.Sources["logLevel"])
	assert.Equal(t, cliconfig.SourceEnv, app.cfg.Sources["environment"])
}

func TestVersion_SkipsSetup(t *testing.T) {
	t.Setenv(cliconfig.EnvStaleResponses, "sometimes")

	out, err := execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Nil(t, app)
}

func TestSettle(t *testing.T) {
	store := slice.New[portal.App](portal.FamilyApp, slice.Options{})
	d := action.NewDispatcher(nil)
	meta := action.Meta{Family: portal.FamilyApp, Kind: action.KindDetails, ID: 3}

	out, err := action.Run(context.Background(), d, meta, store.EntitySink(),
		func(context.Context) (portal.App, error) { return portal.App{ID: 3}, nil })
	assert.NoError(t, settle(store, out, err))

	boom := &httpclient.APIError{StatusCode: 500, Detail: "boom"}
	out, err = action.Run(context.Background(), d, meta, store.EntitySink(),
		func(context.Context) (portal.App, error) { return portal.App{}, boom })
	got := settle(store, out, err)
	var storeErr *StoreError
	require.ErrorAs(t, got, &storeErr)
	assert.Equal(t, "boom", storeErr.Message)
	assert.ErrorIs(t, got, boom)

	blocked := errors.New("blocked")
	out, err = action.Run(context.Background(), d, meta, store.EntitySink(),
		func(context.Context) (portal.App, error) { t.Fatal("must not run"); return portal.App{}, nil },
		func() error { return blocked })
	assert.ErrorIs(t, settle(store, out, err), blocked)
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "connection",
			err: &StoreError{Message: "Network Error", Err: &httpclient.TransportError{
				Method: "GET", URL: "http://localhost:8000/blog/", Err: errors.New("connection refused"),
			}},
			want: []string{"Error: Network Error: GET http://localhost:8000/blog/", "running at http://localhost:8000\n"},
		},
		{
			name: "unauthorized",
			err:  &StoreError{Message: "denied", Err: &httpclient.APIError{StatusCode: 401, Detail: "denied"}},
			want: []string{"Error: denied", "alinfo session show"},
		},
		{
			name: "no session",
			err:  &action.GuardError{Family: "blog", Kind: action.KindCreate, Err: portal.ErrNoSession},
			want: []string{"Error: no user session", "alinfo session set <user-id>"},
		},
		{
			name: "plain",
			err:  fmt.Errorf("invalid id %q", "x"),
			want: []string{`Error: invalid id "x"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}
