// Package filter turns list-endpoint query strings into store filters.
// Values are not type-checked here; the store or service rejects bad input.
package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"lifeflow-backend/internal/domain"
)

// RequestPageSize is the fixed page size of the privileged request listing.
const RequestPageSize = 10

const maxPage = math.MaxInt / RequestPageSize

// Users maps ?sort=blocked|active to a status filter; anything else lists all.
func Users(q url.Values) domain.UserFilter {
	switch s := q.Get("sort"); s {
	case domain.StatusBlocked, domain.StatusActive:
		return domain.UserFilter{Status: s}
	}
	return domain.UserFilter{}
}

// Blogs reads sort, then status, into the same status field, so status wins
// when both are present.
func Blogs(q url.Values) domain.BlogFilter {
	var f domain.BlogFilter
	if v, ok := blogStatus(q.Get("sort")); ok {
		f.Status = v
	}
	if v, ok := blogStatus(q.Get("status")); ok {
		f.Status = v
	}
	f.Search = strings.TrimSpace(q.Get("search"))
	return f
}

// blogStatus returns ok=false when the parameter is absent, leaving any
// earlier value in place; "all" resets to unfiltered.
func blogStatus(v string) (string, bool) {
	switch v {
	case "":
		return "", false
	case "all":
		return "", true
	}
	return v, true
}

// UserSearch conjoins an equality match per present parameter.
//
// upazila is matched against the email column. Existing clients depend on
// that binding, so it is kept; an upazila name never equals an email, which
// makes upazila-only searches return nothing.
func UserSearch(q url.Values) domain.UserSearch {
	var s domain.UserSearch
	add := func(param string, col domain.Column) {
		if v := q.Get(param); v != "" {
			s.Matches = append(s.Matches, domain.Match{Column: col, Value: v})
		}
	}
	add("donor", domain.ColumnRole)
	add("email", domain.ColumnEmail)
	add("bloodType", domain.ColumnBloodType)
	add("district", domain.ColumnDistrict)
	add("upazila", domain.ColumnEmail)
	return s
}

// RequestListing pages through every request for admins and volunteers and
// restricts everyone else to their own requests without paging.
func RequestListing(caller *domain.User, email, page string) domain.RequestFilter {
	if caller != nil && caller.Privileged() {
		p, err := strconv.Atoi(page)
		if err != nil || p < 0 {
			p = 0
		}
		// past maxPage the offset would overflow; any such page is empty anyway
		p = min(p, maxPage)
		return domain.RequestFilter{Offset: p * RequestPageSize, Limit: RequestPageSize}
	}
	return domain.RequestFilter{RequesterEmail: email}
}
