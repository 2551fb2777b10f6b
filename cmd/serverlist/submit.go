// ABOUTME: submit and edit commands of the serverlist CLI
// ABOUTME: Builds a draft from flags or files and runs it through client.Submitter

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"serverlist-api/client"
)

// NewSubmitCmd creates the submit command
func NewSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Post a new server",
		Long: `Post a new server. The description can be given inline with --content
or read from a markdown file with --content-file ("-" reads stdin).
You are asked to confirm before anything is sent, unless --yes is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSubmit(cmd, 0)
		},
	}
	addDraftFlags(cmd)
	return cmd
}

// NewEditCmd creates the edit command
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit an existing server",
		Long: `Edit an existing server. Fields without a flag keep their current value.
You are asked to confirm before anything is sent, unless --yes is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runSubmit(cmd, id)
		},
	}
	addDraftFlags(cmd)
	return cmd
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Server name")
	cmd.Flags().String("content", "", "Markdown description")
	cmd.Flags().String("content-file", "", `Read the description from a file, "-" for stdin`)
	cmd.Flags().String("ip", "", "Address players connect to")
	cmd.Flags().StringSlice("tag", nil, "Tag slug, repeatable")
	cmd.Flags().String("cover", "", "Cover image URL")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func runSubmit(cmd *cobra.Command, serverID int64) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}

	var draft client.Draft
	if serverID != 0 {
		current, err := c.GetServer(cmd.Context(), serverID)
		if err != nil {
			return err
		}
		draft = draftOf(current)
	}

	if err := applyDraftFlags(cmd, &draft); err != nil {
		return err
	}

	var confirmer client.Confirmer = newTerminalConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		confirmer = autoConfirmer{}
	}

	submitter := client.NewSubmitter(c, confirmer, &streamNotifier{out: cmd.ErrOrStderr()})
	result, err := submitter.Submit(cmd.Context(), draft, serverID)
	if errors.Is(err, client.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", result.ID, result.Path)
	return nil
}

// draftOf returns the editable fields of a published server
func draftOf(s *client.Server) client.Draft {
	d := client.Draft{
		Title:   s.Title,
		Content: s.Content,
		IP:      s.IP,
		Cover:   s.Cover,
	}
	for _, t := range s.Tags {
		d.Tags = append(d.Tags, t.Slug)
	}
	return d
}

// applyDraftFlags overwrites the draft fields whose flags were set
func applyDraftFlags(cmd *cobra.Command, d *client.Draft) error {
	flags := cmd.Flags()

	if flags.Changed("content") && flags.Changed("content-file") {
		return fmt.Errorf("--content and --content-file are mutually exclusive")
	}

	if flags.Changed("title") {
		d.Title, _ = flags.GetString("title")
	}
	if flags.Changed("content") {
		d.Content, _ = flags.GetString("content")
	}
	if flags.Changed("content-file") {
		path, _ := flags.GetString("content-file")
		content, err := readContent(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		d.Content = content
	}
	if flags.Changed("ip") {
		d.IP, _ = flags.GetString("ip")
	}
	if flags.Changed("tag") {
		d.Tags, _ = flags.GetStringSlice("tag")
	}
	if flags.Changed("cover") {
		d.Cover, _ = flags.GetString("cover")
	}
	return nil
}

func readContent(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read description from stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}
	return string(b), nil
}

// terminalConfirmer asks y/N questions on a terminal
type terminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalConfirmer(in io.Reader, out io.Writer) *terminalConfirmer {
	return &terminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (t *terminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(t.out, "%s [s/N] ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sì", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

type autoConfirmer struct{}

func (autoConfirmer) Confirm(context.Context, string) (bool, error) { return true, nil }

// streamNotifier prints progress notices, one per line
type streamNotifier struct {
	out io.Writer
}

func (n *streamNotifier) Loading(msg string) {
	fmt.Fprintln(n.out, msg)
}

func (n *streamNotifier) Success(msg string) {
	fmt.Fprintln(n.out, msg)
}

// Error ignores duration: a terminal line does not expire
func (n *streamNotifier) Error(msg string, _ time.Duration) {
	fmt.Fprintln(n.out, "Errore: "+msg)
}
