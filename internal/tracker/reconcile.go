package tracker

import (
	"fmt"
	"strings"
)

// Reconcile posts the outage report to the tracker. If an open issue whose
// title contains IssueMarker already exists, the report is appended as a
// comment to the first such issue in API order; otherwise a fresh issue is
// opened with the marker as its title.
//
// Taking the first match rather than the newest is deliberate: there should
// only ever be at most one open outage issue unless someone manually reopens
// an old one, and keeping the selection stable keeps the dedupe behavior
// predictable.
//
// Any tracker error is returned as-is to the caller; reconciliation is never
// retried and a failed comment does not fall back to creating an issue.
func Reconcile(api IssueAPI, report string) error {
	issues, err := api.ListOpenIssues()
	if err != nil {
		return fmt.Errorf("listing open issues: %w", err)
	}

	for _, issue := range issues {
		if strings.Contains(issue.Title, IssueMarker) {
			if err := api.CreateComment(issue.Number, report); err != nil {
				return fmt.Errorf("appending report to issue #%d: %w", issue.Number, err)
			}
			return nil
		}
	}

	if _, err := api.CreateIssue(IssueMarker, report); err != nil {
		return fmt.Errorf("creating outage issue: %w", err)
	}
	return nil
}
