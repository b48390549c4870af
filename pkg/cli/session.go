package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/seanmeissimilly/alinfo/pkg/portal"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the signed-in user",
	Long: `Manage the signed-in user. The session is kept in the data directory
(userInfo.json) and its token is sent with every request unless --token or
ALINFO_TOKEN overrides it.`,
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <user-id>",
	Short: "Sign in as a user with an existing token",
	Long: `Fetch the user with the given token and keep both as the session.
The token is taken from --token, ALINFO_TOKEN or the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		token := app.cfg.Token
		if token == "" {
			return ErrNoToken
		}

		users := app.state.Users
		out, err := users.Details(cmd.Context(), portal.IDRequest{ID: id, Token: token})
		if err := settle(users.Store(), out, err); err != nil {
			return err
		}
		u := users.Store().State().Items[0]
		u.Token = token
		users.SetSession(u)

		return render(cmd, sessionView(&u), func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Signed in as %s (%s)\n", u.UserName, u.Role)
			return err
		})
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the signed-in user and its token claims",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := sessionView(app.state.Users.Current())
		return render(cmd, v, func(w io.Writer) error {
			if v.User == nil {
				_, err := fmt.Fprintln(w, "Not signed in")
				return err
			}
			fields := [][2]string{
				{"ID", strconv.Itoa(v.User.ID)},
				{"User", v.User.UserName},
				{"Email", v.User.Email},
				{"Role", string(v.User.Role)},
			}
			if v.ExpiresAt != nil {
				fields = append(fields, [2]string{"Token expires", v.ExpiresAt.Format(time.RFC3339)})
			}
			if v.Expired {
				fields = append(fields, [2]string{"Token expired", "yes"})
			}
			return printFields(w, fields)
		})
	},
}

var sessionLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.state.Users.Logout()
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return err
	},
}

// SessionOutput is the JSON form of session show.
type SessionOutput struct {
	User      *portal.User   `json:"user"`
	Claims    map[string]any `json:"claims,omitempty"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
	Expired   bool           `json:"expired,omitempty"`
}

// sessionView describes u without its token. When the token is a JWT its
// claims are decoded, without verifying the signature, for display.
func sessionView(u *portal.User) SessionOutput {
	if u == nil {
		return SessionOutput{}
	}
	user := *u
	user.Token = ""
	out := SessionOutput{User: &user}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(u.Token, claims); err != nil {
		return out
	}
	out.Claims = claims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		out.ExpiresAt = &t
		out.Expired = t.Before(time.Now())
	}
	return out
}

func init() {
	sessionCmd.AddCommand(sessionSetCmd, sessionShowCmd, sessionLogoutCmd)
	rootCmd.AddCommand(sessionCmd)
}
