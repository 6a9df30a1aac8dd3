// internal/app/lifecycle/filter.go
package lifecycle

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// SortKey selects the dashboard ordering.
type SortKey string

const (
	SortDate         SortKey = "date" // descending ReportedAt, the default
	SortDateAsc      SortKey = "date-asc"
	SortName         SortKey = "name"
	SortHeight       SortKey = "height" // descending, reports without height last
	SortStatus       SortKey = "status"
	SortReporter     SortKey = "reporter"
	SortOrganization SortKey = "organization"
)

// CategoryFilter narrows reports by category. The zero value matches
// everything; Uncategorized matches reports with no category.
type CategoryFilter struct {
	Uncategorized bool
	ID            int // 0 = no id filter
}

// Filter describes a report query. All populated criteria are combined
// with AND. The zero Filter matches every report sorted by SortDate.
type Filter struct {
	SortBy         SortKey
	Status         *models.ReportStatus // nil = all
	Organization   string               // "" = all
	Category       CategoryFilter
	Query          string // substring of name or reporter name, case-insensitive
	ReporterUserID string // "" = all
	ExcludeDrafts  bool
}

// ParseFilter builds a Filter from raw dashboard query values. Unknown
// or unparseable values never fail: they fall open to "no filter" (and
// the default sort), so a stale bookmark or hand-edited URL still
// returns results.
func ParseFilter(sortBy, status, org, category, query string) Filter {
	f := Filter{SortBy: parseSortKey(sortBy), Query: strings.TrimSpace(query)}

	if status != "" && status != "all" {
		if st, ok := models.ParseStatus(status); ok {
			f.Status = &st
		}
	}
	if org != "" && org != "all" {
		f.Organization = org
	}
	switch {
	case category == "" || category == "all":
		// no category filter
	case category == "uncategorized":
		f.Category.Uncategorized = true
	default:
		if id, err := strconv.Atoi(category); err == nil {
			f.Category.ID = id
		}
	}
	return f
}

func parseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortDate, SortDateAsc, SortName, SortHeight, SortStatus, SortReporter, SortOrganization:
		return SortKey(s)
	}
	return SortDate
}

// Matches reports whether r satisfies every criterion in f. It is the
// reference semantics for Filter; the Mongo store translates the same
// Filter to a native query.
func Matches(r *models.ObstacleReport, f Filter) bool {
	if f.ExcludeDrafts && r.Status == models.StatusDraft {
		return false
	}
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Organization != "" && r.ReporterOrganization != f.Organization {
		return false
	}
	if f.Category.Uncategorized && r.CategoryID != nil {
		return false
	}
	if f.Category.ID != 0 && (r.CategoryID == nil || *r.CategoryID != f.Category.ID) {
		return false
	}
	if f.ReporterUserID != "" && r.ReporterUserID != f.ReporterUserID {
		return false
	}
	if f.Query != "" {
		q := text.Fold(f.Query)
		if !strings.Contains(text.Fold(r.Name), q) &&
			!strings.Contains(text.Fold(r.ReporterName), q) {
			return false
		}
	}
	return true
}

// statusRank orders statuses for the "status" sort: drafts first, then
// the review pipeline in progression order.
func statusRank(s models.ReportStatus) int {
	switch s {
	case models.StatusDraft:
		return 0
	case models.StatusPending:
		return 1
	case models.StatusApproved:
		return 2
	case models.StatusRejected:
		return 3
	}
	return 4
}

// SortReports orders rs in place by key.
func SortReports(rs []models.ObstacleReport, key SortKey) {
	less := func(a, b *models.ObstacleReport) bool {
		return a.ReportedAt.After(b.ReportedAt)
	}
	switch key {
	case SortDateAsc:
		less = func(a, b *models.ObstacleReport) bool { return a.ReportedAt.Before(b.ReportedAt) }
	case SortName:
		less = func(a, b *models.ObstacleReport) bool { return text.Fold(a.Name) < text.Fold(b.Name) }
	case SortHeight:
		less = func(a, b *models.ObstacleReport) bool {
			switch {
			case a.Height == nil:
				return false
			case b.Height == nil:
				return true
			default:
				return *a.Height > *b.Height
			}
		}
	case SortStatus:
		less = func(a, b *models.ObstacleReport) bool { return statusRank(a.Status) < statusRank(b.Status) }
	case SortReporter:
		less = func(a, b *models.ObstacleReport) bool { return text.Fold(a.ReporterName) < text.Fold(b.ReporterName) }
	case SortOrganization:
		less = func(a, b *models.ObstacleReport) bool { return a.ReporterOrganization < b.ReporterOrganization }
	}
	sort.SliceStable(rs, func(i, j int) bool { return less(&rs[i], &rs[j]) })
}
