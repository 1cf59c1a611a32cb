package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	generateanswer "knowledge-search/internal/adapters/ai/generate-answer"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/console"
	"knowledge-search/internal/models"
)

var (
	heading = color.New(color.Bold)
	title   = color.New(color.FgCyan, color.Bold)
	faint   = color.New(color.FgHiBlack)
	ok      = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
)

const snippetLength = 120

// friendly wraps err with the user-facing message for its class.
func friendly(prefix string, err error) error {
	return fmt.Errorf("%s: %s", prefix, apperrors.UserMessage(err))
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSearchHeader(w io.Writer, s models.Session, query string, n int) {
	fmt.Fprintf(w, "%s %q as %s (%s), customer %s\n",
		heading.Sprint("Search"), query, s.User.Name, s.User.Role.Name, s.Customer.Name)
	faint.Fprintf(w, "%d result(s)\n\n", n)
}

func printArticles(w io.Writer, articles []models.Article) {
	if len(articles) == 0 {
		faint.Fprintln(w, "No articles found.")
		return
	}
	for _, a := range articles {
		fmt.Fprintf(w, "%s %s\n", faint.Sprintf("[%s]", a.ID), title.Sprint(a.Title))
		faint.Fprintf(w, "     %s · %s · %d views · updated %s\n",
			a.Category, a.AccessLevel, a.ViewCount, a.LastUpdated.Format("2006-01-02"))
		fmt.Fprintf(w, "     %s\n", generateanswer.Snippet(a.Content, snippetLength))
	}
}

func printAnswer(w io.Writer, st console.AssistantState, resp *models.AIResponse, err error) {
	fmt.Fprintln(w)
	switch {
	case err != nil && !st.AIAvailable && st.Error == apperrors.MsgAIUnavailable:
		warn.Fprintln(w, st.Error)
		return
	case err != nil:
		bad.Fprintln(w, apperrors.UserMessage(err))
		return
	case resp == nil:
		faint.Fprintln(w, "Question too short for an AI answer.")
		return
	}

	confidence := ok
	if !resp.IsConfident {
		confidence = warn
	}
	fmt.Fprintf(w, "%s %s\n", heading.Sprint("AI answer"), confidence.Sprintf("(%d%% confidence)", resp.Confidence))
	fmt.Fprintln(w, resp.Answer)
	if !resp.IsConfident {
		warn.Fprintln(w, "Low confidence: verify against the cited articles.")
	}
	if len(resp.Citations) > 0 {
		fmt.Fprintln(w, heading.Sprint("Sources:"))
		for _, c := range resp.Citations {
			fmt.Fprintf(w, "  %s %s\n", faint.Sprintf("[%s]", c.ID), c.Title)
		}
	}
	faint.Fprintf(w, "Response %s. Rate it with: knowledge-cli feedback %s --type helpful\n", resp.ID, resp.ID)
}
