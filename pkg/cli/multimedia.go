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
	mmSearch          string
	mmWhere           string
	mmClassifications []int

	mmTitle          string
	mmDescription    string
	mmClassification int
	mmFile           string
)

var multimediaCmd = &cobra.Command{
	Use:     "multimedia",
	Aliases: []string{"mm"},
	Short:   "Browse and manage the multimedia library",
}

var multimediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List multimedia entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.state.Multimedia
		items, users, err := listWithAuthors(cmd.Context(), s.Store(), s.List)
		if err != nil {
			return err
		}
		items, err = filterTitles(items, mmSearch, mmWhere, func(m portal.Multimedia) string { return m.Title })
		if err != nil {
			return err
		}
		items = view.SortByIDDesc(view.ByClassification(items, mmClassifications...))
		joined := view.JoinUsers(items, users, func(m portal.Multimedia) string { return m.User })

		return render(cmd, joined, func(w io.Writer) error {
			if len(joined) == 0 {
				_, err := fmt.Fprintln(w, "No multimedia found")
				return err
			}
			catalogue := classificationCatalogue(cmd)
			tw := output.Table(w)
			fmt.Fprintln(tw, "ID\tTITLE\tCLASSIFICATION\tAUTHOR\tDATE")
			for _, j := range joined {
				m := j.Item
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", m.ID, util.Truncate(m.Title, 40),
					view.ClassificationName(catalogue, m.Classification), authorName(j.Author), view.FormatDate(m.Date))
			}
			return tw.Flush()
		})
	},
}

// classificationCatalogue fetches the classification catalogue for display.
// Failures fall back to showing classification ids.
func classificationCatalogue(cmd *cobra.Command) []portal.Classification {
	s := app.state.Multimedia
	out, err := s.ListClassifications(cmd.Context(), portal.ListRequest{Token: app.token()})
	if err := settle(s.Classifications(), out, err); err != nil {
		app.logger.Warn("classification names unavailable", "error", err)
		return nil
	}
	return s.Classifications().State().Items
}

var multimediaClassificationsCmd = &cobra.Command{
	Use:   "classifications",
	Short: "List the multimedia classification catalogue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.state.Multimedia
		out, err := s.ListClassifications(cmd.Context(), portal.ListRequest{Token: app.token()})
		if err := settle(s.Classifications(), out, err); err != nil {
			return err
		}
		items := s.Classifications().State().Items
		return render(cmd, items, func(w io.Writer) error {
			tw := output.Table(w)
			fmt.Fprintln(tw, "ID\tDESCRIPTION")
			for _, c := range items {
				fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Description)
			}
			return tw.Flush()
		})
	},
}

var multimediaGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a multimedia entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Multimedia
		out, err := s.Details(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderMultimedia(cmd, *s.Store().State().Selected)
	},
}

var multimediaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a multimedia entry (editors and admins)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := portal.MultimediaInput{
			Title:          mmTitle,
			Description:    mmDescription,
			Classification: mmClassification,
		}
		file, closer, err := openUpload(mmFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		in.Data = file

		s := app.state.Multimedia
		out, err := s.Create(cmd.Context(), app.token(), in)
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderMultimedia(cmd, *s.Store().State().Selected)
	},
}

var multimediaUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a multimedia entry (editors and admins)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Multimedia
		if err := s.CheckWrite(action.KindUpdate, id); err != nil {
			return err
		}
		req := portal.IDRequest{ID: id, Token: app.token()}
		cur, err := s.Details(cmd.Context(), req)
		if err := settle(s.Store(), cur, err); err != nil {
			return err
		}

		in := portal.MultimediaInput{
			Title:          cur.Value.Title,
			Description:    cur.Value.Description,
			Classification: cur.Value.Classification,
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			in.Title = mmTitle
		}
		if flags.Changed("description") {
			in.Description = mmDescription
		}
		if flags.Changed("classification") {
			in.Classification = mmClassification
		}
		file, closer, err := openUpload(mmFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		in.Data = file

		out, err := s.Update(cmd.Context(), req, in)
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderMultimedia(cmd, *s.Store().State().Selected)
	},
}

func renderMultimedia(cmd *cobra.Command, m portal.Multimedia) error {
	return render(cmd, m, func(w io.Writer) error {
		return printFields(w, [][2]string{
			{"ID", strconv.Itoa(m.ID)},
			{"Title", m.Title},
			{"Classification", strconv.Itoa(m.Classification)},
			{"User", m.User},
			{"Date", view.FormatDate(m.Date)},
			{"File", m.Data},
			{"Description", m.Description},
		})
	})
}

func init() {
	multimediaListCmd.Flags().StringVar(&mmSearch, "search", "", "Keep entries whose title contains this text (case-insensitive)")
	multimediaListCmd.Flags().StringVar(&mmWhere, "where", "", `Keep entries matching an expression, e.g. 'user == "ana"'`)
	multimediaListCmd.Flags().IntSliceVar(&mmClassifications, "classification", nil, "Keep entries of these classification IDs (repeatable)")

	for _, c := range []*cobra.Command{multimediaCreateCmd, multimediaUpdateCmd} {
		c.Flags().StringVar(&mmTitle, "title", "", "Title")
		c.Flags().StringVar(&mmDescription, "description", "", "Description")
		c.Flags().IntVar(&mmClassification, "classification", 0, "Multimedia classification ID")
		c.Flags().StringVar(&mmFile, "file", "", "Document or video to upload")
	}
	_ = multimediaCreateCmd.MarkFlagRequired("title")

	multimediaCmd.AddCommand(multimediaListCmd, multimediaGetCmd, multimediaCreateCmd, multimediaUpdateCmd,
		multimediaClassificationsCmd,
		deleteCommand("a multimedia entry", func() *portal.Resource[portal.Multimedia] { return app.state.Multimedia.Resource }))
	rootCmd.AddCommand(multimediaCmd)
}
