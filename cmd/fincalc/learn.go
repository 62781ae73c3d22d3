package main

import (
	"fmt"
	"strings"

	"fintrack/internal/cli"
	"fintrack/internal/education"

	"github.com/spf13/cobra"
)

var learnWrap int

var learnCmd = &cobra.Command{
	Use:   "learn [topic]",
	Short: "Read a short lesson on personal finance",
	Long:  "Without a topic, lists the available lessons. With one, prints it.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLearn,
}

func init() {
	learnCmd.Flags().IntVar(&learnWrap, "wrap", cli.DefaultWrap, "Word-wrap width")
	rootCmd.AddCommand(learnCmd)
}

func runLearn(cmd *cobra.Command, args []string) error {
	lib, err := education.Load()
	if err != nil {
		return err
	}
	r := renderer(cmd)

	if len(args) == 0 {
		t := cli.Table{Title: "Lessons", Headers: []string{"Topic", "Title"}}
		for _, topic := range lib.Topics() {
			t.Rows = append(t.Rows, []string{topic.Slug, topic.Title})
		}
		r.Table(t)
		fmt.Fprintln(cmd.OutOrStdout(), "\n  Run `fincalc learn <topic>` to read one.")
		return nil
	}

	topic, err := lib.Get(strings.ToLower(args[0]))
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(lib.Slugs(), ", "))
	}
	out, err := cli.RenderMarkdown(topic.Markdown, flagPlain, learnWrap)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
