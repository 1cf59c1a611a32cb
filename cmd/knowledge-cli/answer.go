package main

import (
	"strings"

	"github.com/spf13/cobra"

	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/console"
	"knowledge-search/internal/models"
)

var (
	feedbackType       string
	feedbackReason     string
	feedbackSuggestion string
)

var answerCmd = &cobra.Command{
	Use:   "answer <question>",
	Short: "Ask the AI assistant, grounded on the articles you may see",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withRuntime(runAnswer),
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <response-id>",
	Short: "Rate an AI answer",
	Args:  cobra.ExactArgs(1),
	RunE:  withRuntime(runFeedback),
}

func init() {
	rootCmd.AddCommand(answerCmd, feedbackCmd)

	f := feedbackCmd.Flags()
	f.StringVarP(&feedbackType, "type", "t", string(models.FeedbackHelpful), "helpful, not_helpful, edited or suggested")
	f.StringVar(&feedbackReason, "reason", "", "why the answer was or was not useful")
	f.StringVar(&feedbackSuggestion, "suggestion", "", "a better answer")
}

func runAnswer(cmd *cobra.Command, rt *runtime, args []string) error {
	query, err := validation.ValidateSearchQuery(strings.Join(args, " "))
	if err != nil {
		return err
	}
	articles, err := articlesFor(cmd, rt, query)
	if err != nil {
		return err
	}

	a := console.NewAssistantSession(rt.backend, rt.session, nil, rt.logger)
	resp, err := a.Generate(cmd.Context(), query, articles)
	printAnswer(cmd.OutOrStdout(), a.State(), resp, err)
	return nil
}

func runFeedback(cmd *cobra.Command, rt *runtime, args []string) error {
	fb, err := validation.ValidateFeedback(models.Feedback{
		Type:       models.FeedbackType(feedbackType),
		Reason:     feedbackReason,
		Suggestion: feedbackSuggestion,
	})
	if err != nil {
		return err
	}

	receipt := rt.backend.SubmitFeedback(cmd.Context(), rt.session, args[0], fb)
	out := cmd.OutOrStdout()
	if !receipt.Success {
		warn.Fprintln(out, "Feedback could not be recorded.")
		return nil
	}
	ok.Fprintf(out, "%s ", receipt.Message)
	faint.Fprintf(out, "(%s)\n", receipt.FeedbackID)
	return nil
}
