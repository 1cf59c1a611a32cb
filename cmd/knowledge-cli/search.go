package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/console"
	"knowledge-search/internal/models"
)

var (
	searchCategory  string
	searchDateRange string
	searchFrom      string
	searchTo        string
	searchSort      string
	searchAnswer    bool
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Long: `Search the knowledge base as the acting user. Results the user may not
see are removed before they are shown.

Examples:
  knowledge-cli search "how do i reset my account password?"
  knowledge-cli search --category Billing --sort date invoice
  knowledge-cli search --user user-004 --answer "what are the enterprise security policies?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withRuntime(runSearch),
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <prefix>",
	Short: "Show title suggestions for a partial query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withRuntime(runSuggest),
}

func init() {
	rootCmd.AddCommand(searchCmd, suggestCmd)

	f := searchCmd.Flags()
	f.StringVar(&searchCategory, "category", "", "Account, Technical, Billing, Security or General")
	f.StringVar(&searchDateRange, "date-range", "", `"Last 7 days", "Last 30 days", "Last 90 days" or "Last year"`)
	f.StringVar(&searchFrom, "from", "", "earliest update date, YYYY-MM-DD")
	f.StringVar(&searchTo, "to", "", "latest update date, YYYY-MM-DD")
	f.StringVar(&searchSort, "sort", "", "relevance (default), date or popularity")
	f.BoolVar(&searchAnswer, "answer", false, "also generate an AI answer from the results")
	f.BoolVar(&searchJSON, "json", false, "print results as JSON")
}

func runSearch(cmd *cobra.Command, rt *runtime, args []string) error {
	query, err := validation.ValidateSearchQuery(strings.Join(args, " "))
	if err != nil {
		return err
	}
	filters, err := validation.ParseFilters(searchCategory, searchDateRange, searchFrom, searchTo, time.Now())
	if err != nil {
		return err
	}
	sortBy, err := validation.ValidateSortKey(searchSort)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s := console.NewSearchSession(ctx, rt.backend, rt.session, rt.options, rt.logger)
	defer s.Close()
	s.SetFilters(filters)
	s.SetSort(sortBy)

	if _, err := s.Search(ctx, query); err != nil {
		return fmt.Errorf("search failed: %s", s.State().Error)
	}
	st := s.State()

	out := cmd.OutOrStdout()
	if searchJSON {
		return printJSON(out, st.Results)
	}
	printSearchHeader(out, rt.session, query, len(st.Results))
	printArticles(out, st.Results)

	if !searchAnswer {
		return nil
	}
	a := console.NewAssistantSession(rt.backend, rt.session, nil, rt.logger)
	resp, err := a.Generate(ctx, query, st.Results)
	printAnswer(out, a.State(), resp, err)
	return nil
}

func runSuggest(cmd *cobra.Command, rt *runtime, args []string) error {
	prefix := validation.SanitizeQuery(strings.Join(args, " "))
	if len([]rune(prefix)) < 2 {
		return fmt.Errorf("type at least 2 characters to get suggestions")
	}

	suggestions, err := rt.backend.Suggestions(cmd.Context(), rt.session, prefix)
	if err != nil {
		return friendly("suggestions failed", err)
	}

	out := cmd.OutOrStdout()
	if len(suggestions) == 0 {
		faint.Fprintln(out, "No suggestions.")
		return nil
	}
	for _, a := range suggestions {
		fmt.Fprintf(out, "  %s %s\n", faint.Sprintf("[%s]", a.ID), a.Title)
	}
	return nil
}

// articlesFor runs a search through a session and returns what it shows.
func articlesFor(cmd *cobra.Command, rt *runtime, query string) ([]models.Article, error) {
	s := console.NewSearchSession(cmd.Context(), rt.backend, rt.session, rt.options, rt.logger)
	defer s.Close()
	if _, err := s.Search(cmd.Context(), query); err != nil {
		return nil, fmt.Errorf("search failed: %s", s.State().Error)
	}
	return s.State().Results, nil
}
