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
	suggestionSearch string
	suggestionWhere  string

	suggestionTitle string
	suggestionBody  string
)

var suggestionCmd = &cobra.Command{
	Use:     "suggestion",
	Aliases: []string{"suggestions"},
	Short:   "Use the suggestions and complaints box",
}

var suggestionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suggestions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.state.Suggestions
		items, users, err := listWithAuthors(cmd.Context(), s.Store(), s.List)
		if err != nil {
			return err
		}
		items, err = filterTitles(items, suggestionSearch, suggestionWhere, func(x portal.Suggestion) string { return x.Title })
		if err != nil {
			return err
		}
		joined := view.JoinUsers(items, users, func(x portal.Suggestion) string { return x.User })

		return render(cmd, joined, func(w io.Writer) error {
			if len(joined) == 0 {
				_, err := fmt.Fprintln(w, "No suggestions found")
				return err
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tDATE")
			for _, j := range joined {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", j.Item.ID, util.Truncate(j.Item.Title, 50), authorName(j.Author), view.FormatDate(j.Item.Date))
			}
			return tw.Flush()
		})
	},
}

var suggestionGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a suggestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Suggestions
		out, err := s.Details(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderSuggestion(cmd, *s.Store().State().Selected)
	},
}

var suggestionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File a suggestion or complaint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.state.Suggestions
		out, err := s.Create(cmd.Context(), app.token(), portal.SuggestionInput{Title: suggestionTitle, Body: suggestionBody})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderSuggestion(cmd, *s.Store().State().Selected)
	},
}

var suggestionUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a suggestion (editors and admins)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Suggestions
		if err := s.CheckWrite(action.KindUpdate, id); err != nil {
			return err
		}
		req := portal.IDRequest{ID: id, Token: app.token()}
		cur, err := s.Details(cmd.Context(), req)
		if err := settle(s.Store(), cur, err); err != nil {
			return err
		}

		in := portal.SuggestionInput{Title: cur.Value.Title, Body: cur.Value.Body}
		if cmd.Flags().Changed("title") {
			in.Title = suggestionTitle
		}
		if cmd.Flags().Changed("body") {
			in.Body = suggestionBody
		}
		out, err := s.Update(cmd.Context(), req, in)
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderSuggestion(cmd, *s.Store().State().Selected)
	},
}

func renderSuggestion(cmd *cobra.Command, x portal.Suggestion) error {
	return render(cmd, x, func(w io.Writer) error {
		if err := printFields(w, [][2]string{
			{"ID", strconv.Itoa(x.ID)},
			{"Title", x.Title},
			{"User", x.User},
			{"Date", view.FormatDate(x.Date)},
		}); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%s\n", x.Body)
		return err
	})
}

func init() {
	suggestionListCmd.Flags().StringVar(&suggestionSearch, "search", "", "Keep suggestions whose title contains this text (case-insensitive)")
	suggestionListCmd.Flags().StringVar(&suggestionWhere, "where", "", `Keep suggestions matching an expression, e.g. 'user == "ana"'`)

	for _, c := range []*cobra.Command{suggestionCreateCmd, suggestionUpdateCmd} {
		c.Flags().StringVar(&suggestionTitle, "title", "", "Title")
		c.Flags().StringVar(&suggestionBody, "body", "", "Text of the suggestion")
	}
	_ = suggestionCreateCmd.MarkFlagRequired("title")

	suggestionCmd.AddCommand(suggestionListCmd, suggestionGetCmd, suggestionCreateCmd, suggestionUpdateCmd,
		deleteCommand("a suggestion", func() *portal.Resource[portal.Suggestion] { return app.state.Suggestions.Resource }))
	rootCmd.AddCommand(suggestionCmd)
}
