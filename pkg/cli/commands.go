package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/cli/internal/output"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/portal"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
	"github.com/seanmeissimilly/alinfo/pkg/view"
)

// parseID parses an entity id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// openUpload opens path for upload. An empty path yields a nil file. The
// caller closes the returned file.
func openUpload(path string) (*httpclient.File, io.Closer, error) {
	if path == "" {
		return nil, io.NopCloser(nil), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload: %w", err)
	}
	return &httpclient.File{Name: filepath.Base(path), Content: f}, f, nil
}

// filterTitles applies --search and --where to items.
func filterTitles[T any](items []T, search, where string, title func(T) string) ([]T, error) {
	items = view.SearchTitle(items, search, title)
	if where == "" {
		return items, nil
	}
	return view.Where(items, where)
}

// listWithAuthors lists a family and the user directory concurrently and
// returns both stores' items. A failing directory only loses the author
// details; a failing family list is the command's error.
func listWithAuthors[E slice.Entity](ctx context.Context, store *slice.Slice[E],
	list func(context.Context, portal.ListRequest) (action.Outcome[[]E], error),
) ([]E, []portal.User, error) {
	req := portal.ListRequest{Token: app.token()}
	users := app.state.Users

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := list(gctx, req)
		return settle(store, out, err)
	})
	g.Go(func() error {
		out, err := users.List(gctx, req)
		if err := settle(users.Store(), out, err); err != nil {
			app.logger.Warn("author details unavailable", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return store.State().Items, users.Store().State().Items, nil
}

// authorName is the user name of a joined author, or "-" when the author
// is unknown.
func authorName(u *portal.User) string {
	if u == nil {
		return "-"
	}
	return u.UserName
}

// printFields writes one "KEY: value" line per field, aligned.
func printFields(w io.Writer, fields [][2]string) error {
	tw := output.Table(w)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1])
	}
	return tw.Flush()
}

// deleteCommand builds the delete subcommand of a family.
func deleteCommand[E slice.Entity](noun string, resource func() *portal.Resource[E]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete " + noun + " by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r := resource()
			out, err := r.Delete(cmd.Context(), portal.IDRequest{ID: id, Token: app.token()})
			if err := settle(r.Store(), out, err); err != nil {
				return err
			}
			return render(cmd, map[string]int{"deleted": id}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted %s %d\n", r.Family(), id)
				return err
			})
		},
	}
}
