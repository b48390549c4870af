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
	blogSearch string
	blogWhere  string
	blogMine   bool

	blogTitle string
	blogBody  string
	blogImage string

	commentText string
)

var blogCmd = &cobra.Command{
	Use:   "blog",
	Short: "Read and write forum entries",
}

var blogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forum entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.state.Blogs
		items, users, err := listWithAuthors(cmd.Context(), s.Store(), s.List)
		if err != nil {
			return err
		}
		items, err = filterTitles(items, blogSearch, blogWhere, func(b portal.Blog) string { return b.Title })
		if err != nil {
			return err
		}
		if blogMine {
			cur := app.state.Users.Current()
			if cur == nil {
				return portal.ErrNoSession
			}
			items = view.OwnedBy(items, cur.UserName, func(b portal.Blog) string { return b.User })
		}
		joined := view.JoinUsers(items, users, func(b portal.Blog) string { return b.User })

		return render(cmd, joined, func(w io.Writer) error {
			if len(joined) == 0 {
				_, err := fmt.Fprintln(w, "No blog entries found")
				return err
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tDATE\tCOMMENTS")
			for _, j := range joined {
				b := j.Item
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", b.ID, util.Truncate(b.Title, 40), authorName(j.Author),
					view.FormatDate(b.Date), len(b.Comments))
			}
			return tw.Flush()
		})
	},
}

var blogGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a forum entry and its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Blogs
		out, err := s.Details(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderBlog(cmd, *s.Store().State().Selected)
	},
}

var blogCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a forum entry (editors and admins)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := portal.BlogInput{Title: blogTitle, Body: blogBody}
		image, closer, err := openUpload(blogImage)
		if err != nil {
			return err
		}
		defer closer.Close()
		in.Image = image

		s := app.state.Blogs
		out, err := s.Create(cmd.Context(), app.token(), in)
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderBlog(cmd, *s.Store().State().Selected)
	},
}

var blogUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a forum entry (editors and admins)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Blogs
		if err := s.CheckWrite(action.KindUpdate, id); err != nil {
			return err
		}
		req := portal.IDRequest{ID: id, Token: app.token()}
		cur, err := s.Details(cmd.Context(), req)
		if err := settle(s.Store(), cur, err); err != nil {
			return err
		}

		in := portal.BlogInput{Title: cur.Value.Title, Body: cur.Value.Body}
		if cmd.Flags().Changed("title") {
			in.Title = blogTitle
		}
		if cmd.Flags().Changed("body") {
			in.Body = blogBody
		}
		image, closer, err := openUpload(blogImage)
		if err != nil {
			return err
		}
		defer closer.Close()
		in.Image = image

		out, err := s.Update(cmd.Context(), req, in)
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderBlog(cmd, *s.Store().State().Selected)
	},
}

var blogCommentCmd = &cobra.Command{
	Use:   "comment <id>",
	Short: "Comment on a forum entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := app.state.Blogs
		out, err := s.Comment(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()}, portal.CommentInput{Text: commentText})
		if err := settle(s.Store(), out, err); err != nil {
			return err
		}
		return renderBlog(cmd, *s.Store().State().Selected)
	},
}

func renderBlog(cmd *cobra.Command, b portal.Blog) error {
	return render(cmd, b, func(w io.Writer) error {
		if err := printFields(w, [][2]string{
			{"ID", strconv.Itoa(b.ID)},
			{"Title", b.Title},
			{"User", b.User},
			{"Date", view.FormatDate(b.Date)},
			{"Image", b.Image},
		}); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", b.Body)
		if len(b.Comments) == 0 {
			return nil
		}
		fmt.Fprintf(w, "\nComments (%d):\n", len(b.Comments))
		tw := output.Table(w)
		for _, c := range b.Comments {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.User, view.FormatDate(c.Date), c.Text)
		}
		return tw.Flush()
	})
}

func init() {
	blogListCmd.Flags().StringVar(&blogSearch, "search", "", "Keep entries whose title contains this text (case-insensitive)")
	blogListCmd.Flags().StringVar(&blogWhere, "where", "", `Keep entries matching an expression, e.g. 'user == "ana"'`)
	blogListCmd.Flags().BoolVar(&blogMine, "mine", false, "Keep only the signed-in user's entries")

	for _, c := range []*cobra.Command{blogCreateCmd, blogUpdateCmd} {
		c.Flags().StringVar(&blogTitle, "title", "", "Title")
		c.Flags().StringVar(&blogBody, "body", "", "Text of the entry")
		c.Flags().StringVar(&blogImage, "image", "", "Image to upload with the entry")
	}
	_ = blogCreateCmd.MarkFlagRequired("title")

	blogCommentCmd.Flags().StringVar(&commentText, "text", "", "Comment text")
	_ = blogCommentCmd.MarkFlagRequired("text")

	blogCmd.AddCommand(blogListCmd, blogGetCmd, blogCreateCmd, blogUpdateCmd, blogCommentCmd,
		deleteCommand("a forum entry", func() *portal.Resource[portal.Blog] { return app.state.Blogs.Resource }))
	rootCmd.AddCommand(blogCmd)
}
