package domain

// UserFilter narrows the user listing; empty Status means every user.
type UserFilter struct {
	Status string
}

// Column names a user column a search may match on.
type Column string

const (
	ColumnRole      Column = "role"
	ColumnEmail     Column = "email"
	ColumnBloodType Column = "blood_type"
	ColumnDistrict  Column = "district"
)

type Match struct {
	Column Column
	Value  string
}

// UserSearch is a conjunction of equality matches.
type UserSearch struct {
	Matches []Match
}

// BlogFilter: empty Status means any status; Search is a case-insensitive
// substring of title or author name.
type BlogFilter struct {
	Status string
	Search string
}

// RequestFilter: zero Limit means unbounded.
type RequestFilter struct {
	RequesterEmail string
	Status         string
	Offset         int
	Limit          int
}
