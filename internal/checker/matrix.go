package checker

import "github.com/rhiyo/nsmon/internal/models"

// BuildChecks expands the inventory into the full cross-product of checks:
// every server is asked for every server's A record, itself included. The
// order is outer over query sources, inner over targets, and downstream
// reporting depends on it.
func BuildChecks(servers []models.NameServer) []models.Check {
	checks := make([]models.Check, 0, len(servers)*len(servers))

	for _, src := range servers {
		for _, target := range servers {
			checks = append(checks, models.Check{
				Server:     src,
				Record:     target.Name,
				ExpectedIP: target.Address,
			})
		}
	}

	return checks
}
