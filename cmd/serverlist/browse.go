// ABOUTME: Read-side commands of the serverlist CLI: list, top, tags and vote
// ABOUTME: list walks the cursor with a client.Feed until the listing is exhausted

package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"serverlist-api/client"
	"serverlist-api/core/domain"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List servers",
		Long: `List servers ranked by votes (popular) or by posting time (recent).
Without --all only the first page is printed.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().String("window", string(domain.WindowMonth), "Vote window: day, week, month or all")
	cmd.Flags().String("sort", string(domain.SortPopular), "Order: popular or recent")
	cmd.Flags().String("tag", "", "Only servers with this tag slug")
	cmd.Flags().Int("limit", 0, "Page size, 0 uses the server default")
	cmd.Flags().Bool("all", false, "Follow the cursor until every server is printed")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	opts, err := listOptions(cmd)
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")

	c, err := newClient(cmd)
	if err != nil {
		return err
	}

	feed := client.NewFeed(c, opts)
	for {
		if _, err := feed.FetchNextPage(cmd.Context()); err != nil {
			return err
		}
		if !all || !feed.HasNextPage() {
			break
		}
	}

	return printServers(cmd.OutOrStdout(), feed.Items())
}

func listOptions(cmd *cobra.Command) (client.ListOptions, error) {
	windowFlag, _ := cmd.Flags().GetString("window")
	sortFlag, _ := cmd.Flags().GetString("sort")
	tag, _ := cmd.Flags().GetString("tag")
	limit, _ := cmd.Flags().GetInt("limit")

	window, err := domain.ParseWindow(windowFlag)
	if err != nil {
		return client.ListOptions{}, err
	}
	sort, err := domain.ParseSort(sortFlag)
	if err != nil {
		return client.ListOptions{}, err
	}

	return client.ListOptions{Window: window, Sort: sort, Tag: tag, Limit: limit}, nil
}

// NewTopCmd creates the top command
func NewTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most voted server of a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			windowFlag, _ := cmd.Flags().GetString("window")
			window, err := domain.ParseWindow(windowFlag)
			if err != nil {
				return err
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			srv, err := c.TopServer(cmd.Context(), window)
			if client.IsNotFoundError(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nessun server votato in questo periodo.")
				return nil
			}
			if err != nil {
				return err
			}
			return printServers(cmd.OutOrStdout(), []client.Server{*srv})
		},
	}

	cmd.Flags().String("window", string(domain.WindowMonth), "Vote window: day, week, month or all")
	return cmd
}

// NewTagsCmd creates the tags command
func NewTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags with their server counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			tags, err := c.ListTags(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tSERVERS")
			for _, t := range tags {
				fmt.Fprintf(w, "%s\t%s\t%d\n", t.Slug, t.Name, t.ServerCount)
			}
			return w.Flush()
		},
	}
}

// NewVoteCmd creates the vote command
func NewVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote ID",
		Short: "Vote for a server (once per day)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			srv, err := c.Vote(cmd.Context(), id)
			if client.IsConflictError(err) {
				return fmt.Errorf("hai già votato oggi per il server %d", id)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Voto registrato per %q (%d voti questo mese).\n", srv.Title, srv.Votes)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid server id %q", s)
	}
	return id, nil
}

func printServers(out io.Writer, servers []client.Server) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVOTES\tVIEWS\tTITLE\tIP\tPATH")
	for _, s := range servers {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\n", s.ID, s.Votes, s.Views, s.Title, s.IP, s.Path)
	}
	return w.Flush()
}
