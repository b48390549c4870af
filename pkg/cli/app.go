package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/cli/internal/output"
	"github.com/seanmeissimilly/alinfo/pkg/portal"
	"github.com/seanmeissimilly/alinfo/pkg/util"
	"github.com/seanmeissimilly/alinfo/pkg/view"
)

var (
	appSearch string
	appWhere  string

	appTitle          string
	appVersion        string
	appDescription    string
	appClassification int
	appFile           string
)

var appCmd = &cobra.Command{
	Use:     "app",
	Aliases: []string{"apps"},
	Short:   "Browse and manage the applications catalogue",
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.state.Apps
		out, err := s.List(cmd.Context(), portal.ListRequest{Token: app.token()})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		apps, err := filterTitles(s.Store().State().Items, appSearch, appWhere, func(a portal.App) string { return a.Title })
		if err != nil {
			return err
		}
		return render(cmd, apps, func(w io.Writer) error {
			if len(apps) == 0 {
				_, err := fmt.Fprintln(w, "No applications found")
				return err
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "ID\tTITLE\tVERSION\tUSER\tDATE")
			for _, a := range apps {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, util.Truncate(a.Title, 40), a.Version, a.User, view.FormatDate(a.Date))
			}
			return tw.Flush()
		})
	},
}

var appGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Apps
		out, err := s.Details(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderApp(cmd, *s.Store().State().Selected)
	},
}

var appCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish an application (editors and admins)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := portal.AppInput{
			Title:          appTitle,
			Version:        appVersion,
			Description:    appDescription,
			Classification: appClassification,
		}
		file, closer, err := openUpload(appFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		in.Data = file

		s := app.state.Apps
		out, err := s.Create(cmd.Context(), app.token(), in)
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderApp(cmd, *s.Store().State().Selected)
	},
}

var appUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change an application (editors and admins)",
	Long: `Change an application. Fields without a flag keep their current value,
which is fetched first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Apps
		if err := s.CheckWrite(action.KindUpdate, id); err != nil {
			return err
		}
		req := portal.IDRequest{ID: id, Token: app.token()}
		cur, err := s.Details(cmd.Context(), req)
		if err := settle(s.Store(), cur, err); err != nil {
			return err
		}

		in := portal.AppInput{
			Title:          cur.Value.Title,
			Version:        cur.Value.Version,
			Description:    cur.Value.Description,
			Classification: cur.Value.Classification,
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			in.Title = appTitle
		}
		if flags.Changed("version") {
			in.Version = appVersion
		}
		if flags.Changed("description") {
			in.Description = appDescription
		}
		if flags.Changed("classification") {
			in.Classification = appClassification
		}
		file, closer, err := openUpload(appFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		in.Data = file

		out, err := s.Update(cmd.Context(), req, in)
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderApp(cmd, *s.Store().State().Selected)
	},
}

func renderApp(cmd *cobra.Command, a portal.App) error {
	return render(cmd, a, func(w io.Writer) error {
		return printFields(w, [][2]string{
			{"ID", strconv.Itoa(a.ID)},
			{"Title", a.Title},
			{"Version", a.Version},
			{"Classification", strconv.Itoa(a.Classification)},
			{"User", a.User},
			{"Date", view.FormatDate(a.Date)},
			{"Download", a.Data},
			{"Description", a.Description},
		})
	})
}

func init() {
	appListCmd.Flags().StringVar(&appSearch, "search", "", "Keep applications whose title contains this text (case-insensitive)")
	appListCmd.Flags().StringVar(&appWhere, "where", "", `Keep applications matching an expression, e.g. 'version == "2.0"'`)

	for _, c := range []*cobra.Command{appCreateCmd, appUpdateCmd} {
		c.Flags().StringVar(&appTitle, "title", "", "Title")
		c.Flags().StringVar(&appVersion, "version", "", "Version")
		c.Flags().StringVar(&appDescription, "description", "", "Description")
		c.Flags().IntVar(&appClassification, "classification", 0, "Application classification ID")
		c.Flags().StringVar(&appFile, "file", "", "File to upload as the application's download")
	}
	_ = appCreateCmd.MarkFlagRequired("title")

	appCmd.AddCommand(appListCmd, appGetCmd, appCreateCmd, appUpdateCmd,
		deleteCommand("an application", func() *portal.Resource[portal.App] { return app.state.Apps.Resource }))
	rootCmd.AddCommand(appCmd)
}
