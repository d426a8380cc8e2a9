package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/goquery"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	if deps.Generator == nil {
		fmt.Fprintln(deps.Stdout, "Backend: none (fallback summaries)")
	} else {
		ctx, cancel := context.WithTimeout(deps.Ctx, pingTimeout)
		defer cancel()
		if err := deps.Generator.Ping(ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s backend unreachable: %s\n", c.Backend, docsum.ErrorMessage(err))
			return docsum.Errorf(docsum.EUNAVAILABLE, "%s backend unreachable", c.Backend)
		}
		fmt.Fprintf(deps.Stdout, "Backend: %s ok\n", c.Backend)
	}

	if c.URL == "" {
		return nil
	}

	fetcher, err := deps.NewFetcher(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
		return err
	}
	defer fetcher.Close()

	html, err := fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
		return err
	}

	framework := deps.Detector.Detect(html)
	name := string(framework)
	if framework == docsum.FrameworkUnknown {
		name = "unknown"
	}
	fmt.Fprintf(deps.Stdout, "Framework: %s (region %q)\n", name, goquery.RegionFor(framework))
	return nil
}
