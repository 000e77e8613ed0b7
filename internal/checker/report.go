package checker

import (
	"fmt"
	"strings"

	"github.com/rhiyo/nsmon/internal/models"
)

// FormatReport renders check results into the outage report text. The output
// is byte-stable for a given input: it is both the console summary body and
// the text posted verbatim to the issue tracker.
func FormatReport(results []models.CheckResult) string {
	var b strings.Builder
	b.WriteString("Automated outage report\n\n")

	for _, res := range results {
		fmt.Fprintf(&b, "Server %s resolving %s %s\n",
			res.Check.Server.Name, res.Check.Record, res.Outcome)
	}

	return b.String()
}
