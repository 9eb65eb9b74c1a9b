// Package query filters the in-memory listing collection. Every predicate
// narrows the previous result, an empty value skips the predicate, and the
// input is never mutated.
package query

import (
	"sort"
	"strings"

	"talktoearn/internal/models"
)

type Sort int

const (
	SortNone Sort = iota
	SortNewest
	SortRewardDesc
)

type Params struct {
	Text      string
	Category  string
	Status    models.BountyStatus
	Kind      string
	OwnedBy   string
	AppliedBy string
	Sort      Sort
}

// Search applies the predicates in sequence: text first, then
// kind/category/status, then ownership and applicant membership. Relative
// input order is preserved unless Sort says otherwise.
func Search(listings []models.Bounty, params Params) []models.Bounty {
	results := make([]models.Bounty, 0, len(listings))
	needle := strings.ToLower(strings.TrimSpace(params.Text))

	for _, listing := range listings {
		if needle != "" && !matchesText(&listing, needle) {
			continue
		}
		if params.Kind != "" && listing.Type != params.Kind {
			continue
		}
		if params.Category != "" && listing.Category != params.Category {
			continue
		}
		if params.Status != "" && listing.Status != params.Status {
			continue
		}
		if params.OwnedBy != "" && listing.Owner != params.OwnedBy {
			continue
		}
		if params.AppliedBy != "" && !listing.HasApplicant(params.AppliedBy) {
			continue
		}
		results = append(results, listing)
	}

	switch params.Sort {
	case SortNewest:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		})
	case SortRewardDesc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Reward > results[j].Reward
		})
	}

	return results
}

func matchesText(listing *models.Bounty, needle string) bool {
	for _, haystack := range []string{
		listing.Title,
		listing.Description,
		listing.Category,
		listing.Location,
		listing.Requirements,
	} {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}
