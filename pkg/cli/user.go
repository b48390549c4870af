package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/seanmeissimilly/alinfo/pkg/cli/internal/output"
	"github.com/seanmeissimilly/alinfo/pkg/portal"
	"github.com/seanmeissimilly/alinfo/pkg/view"
)

var (
	userWhere string

	userName            string
	userEmail           string
	userBio             string
	userImage           string
	userPassword        string
	userConfirmPassword string
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Browse the user directory and manage your profile",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := listUsers(cmd)
		if err != nil {
			return err
		}
		if userWhere != "" {
			if users, err = view.Where(users, userWhere); err != nil {
				return err
			}
		}
		return renderUsers(cmd, users)
	},
}

var userAdminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "List the portal administrators",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := listUsers(cmd)
		if err != nil {
			return err
		}
		return renderUsers(cmd, view.Admins(users))
	},
}

func listUsers(cmd *cobra.Command) ([]portal.User, error) {
	s := app.state.Users
	out, err := s.List(cmd.Context(), portal.ListRequest{Token: app.token()})
	if err := settle(s.Store(), out, err); err != nil {
		return nil, err
	}
	return s.Store().State().Items, nil
}

func renderUsers(cmd *cobra.Command, users []portal.User) error {
	return render(cmd, users, func(w io.Writer) error {
		if len(users) == 0 {
			_, err := fmt.Fprintln(w, "No users found")
			return err
		}
		tw := output.Table(w)
		fmt.Fprintln(tw, "ID\tUSER\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.UserName, u.Email, u.Role)
		}
		return tw.Flush()
	})
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Users
		out, err := s.Details(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderUser(cmd, s.Store().State().Items[0])
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update your profile",
	Long: `Update the signed-in user's profile. Fields without a flag keep their
current value. The new password must have at least 8 characters, a number,
an uppercase letter and a special character. Without --password the
password is asked for interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users := app.state.Users
		cur := users.Current()

		var in portal.UserInput
		id := 0
		if cur != nil {
			id = cur.ID
			in = portal.UserInput{UserName: cur.UserName, Email: cur.Email, Bio: cur.Bio, Image: cur.Image, Role: cur.Role}
		}
		if len(args) == 1 {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
		}
		if id == 0 {
			return portal.ErrNoSession
		}

		flags := cmd.Flags()
		if flags.Changed("user-name") {
			in.UserName = userName
		}
		if flags.Changed("email") {
			in.Email = userEmail
		}
		if flags.Changed("bio") {
			in.Bio = userBio
		}
		if flags.Changed("image") {
			in.Image = userImage
		}
		in.Password, in.ConfirmPassword = userPassword, userConfirmPassword
		if !flags.Changed("password") {
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				return ErrPasswordRequired
			}
			if err := promptPassword(&in.Password, &in.ConfirmPassword); err != nil {
				return err
			}
		}

		out, err := users.Update(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()}, in)
		if err := settle(users.Store(), out, err); err != nil {
			return err
		}
		return renderUser(cmd, *users.Current())
	},
}

// promptPassword asks for a new password and its confirmation.
func promptPassword(password, confirm *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New password").
				Description("At least 8 characters, with a number, an uppercase letter and a special character").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(func(s string) error { return portal.CheckPassword(s, s) }),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(confirm),
		),
	)
	return form.Run()
}

var userUploadImageCmd = &cobra.Command{
	Use:   "upload-image <file>",
	Short: "Upload a profile image and print where it was stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cur := app.state.Users.Current()
		if cur == nil {
			return portal.ErrNoSession
		}
		file, closer, err := openUpload(args[0])
		if err != nil {
			return err
		}
		defer closer.Close()

		path, err := app.state.Users.UploadImage(cmd.Context(), app.token(), cur.ID, *file)
		if err != nil {
			return err
		}
		return render(cmd, map[string]string{"image": path}, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, path)
			return err
		})
	},
}

func renderUser(cmd *cobra.Command, u portal.User) error {
	u.Token = ""
	return render(cmd, u, func(w io.Writer) error {
		return printFields(w, [][2]string{
			{"ID", strconv.Itoa(u.ID)},
			{"User", u.UserName},
			{"Email", u.Email},
			{"Role", string(u.Role)},
			{"Image", u.Image},
			{"Bio", u.Bio},
		})
	})
}

func init() {
	userListCmd.Flags().StringVar(&userWhere, "where", "", `Keep users matching an expression, e.g. 'role == "editor"'`)

	f := userUpdateCmd.Flags()
	f.StringVar(&userName, "user-name", "", "User name")
	f.StringVar(&userEmail, "email", "", "Email address")
	f.StringVar(&userBio, "bio", "", "Biography")
	f.StringVar(&userImage, "image", "", "Image path, as printed by upload-image")
	f.StringVar(&userPassword, "password", "", "New password")
	f.StringVar(&userConfirmPassword, "confirm-password", "", "New password again")

	userCmd.AddCommand(userListCmd, userAdminsCmd, userGetCmd, userUpdateCmd, userUploadImageCmd,
		deleteCommand("a user (admins)", func() *portal.Resource[portal.User] { return app.state.Users.Resource }))
	rootCmd.AddCommand(userCmd)
}
