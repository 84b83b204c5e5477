package audit

import "time"

// TimelineFilters narrows the admin action timeline.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	Actor    string
	Resource string
	Action   string
	Page     int
	PageSize int
}

// TimelineRow is one recorded admin action.
type TimelineRow struct {
	At       time.Time
	Actor    string
	Role     string
	Action   string
	Resource string
	RecordID string
	Meta     string
}

// PagingInfo is simple offset paging metadata.
type PagingInfo struct {
	Page     int
	HasNext  bool
	PageSize int
	PrevPage int
	NextPage int
}

// FiltersViewModel echoes the filters back into the template.
type FiltersViewModel struct {
	From     string
	To       string
	Actor    string
	Resource string
	Action   string
}

// ViewModel is the audit page data.
type ViewModel struct {
	Enabled bool
	Filters FiltersViewModel
	Rows    []TimelineRow
	Paging  PagingInfo
	Error   string
}
