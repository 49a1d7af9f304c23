package state

// Status tracks one in-flight request lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Op discriminates which post operation a status belongs to, so the UI
// can tell "list loading" from "delete loading" instead of sharing one
// flag across all four.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// UpdatePolicy selects what a successful update does to the local
// collection. UpdateAppend preserves the historical behavior of pushing
// the returned post next to the existing entry; UpdateReplace swaps the
// entry matching the returned id in place.
type UpdatePolicy string

const (
	UpdateAppend  UpdatePolicy = "append"
	UpdateReplace UpdatePolicy = "replace"
)
