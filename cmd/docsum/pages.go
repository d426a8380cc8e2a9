package main

import (
	"fmt"

	"github.com/fwojciec/docsum"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	runID := c.RunID
	if runID == "" {
		runs, err := deps.Runs.FindRuns(deps.Ctx, docsum.RunFilter{Limit: 1})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(deps.Stdout, "No runs found. Use 'docsum crawl --db' to record one.")
			return nil
		}
		runID = runs[0].ID
	}

	filter := docsum.PageFilter{RunID: &runID, Limit: c.Limit}
	if c.Degraded {
		filter.Degraded = &c.Degraded
	}

	pages, err := deps.Pages.FindPages(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
		return err
	}

	if len(pages) == 0 {
		fmt.Fprintf(deps.Stdout, "No pages recorded for run %s\n", runID)
		return nil
	}

	for _, p := range pages {
		source := "ai"
		if p.SummaryDegraded {
			source = "fallback"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  [%s]  %s\n", shortenURL(p.URL, urlColumnWidth), p.Title, source, p.Timestamp())
	}
	return nil
}

// urlColumnWidth caps the URL column of the pages listing.
const urlColumnWidth = 60

// shortenURL keeps the tail of long URLs, where the page slug is.
func shortenURL(url string, width int) string {
	if len(url) <= width {
		return url
	}
	if width < 4 {
		return url[:width]
	}
	return "..." + url[len(url)-width+3:]
}

