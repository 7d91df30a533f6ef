package constants

// Grid Query Parameters
const (
	QueryParamPage          = "page"
	QueryParamPageSize      = "size"
	QueryParamSortField     = "sort"
	QueryParamSortDirection = "dir"
	QueryParamFilter        = "filter"
)

// Filter segment prefixes
const (
	FilterPrefixAuthor = "author"
	FilterPrefixGenre  = "genre"
	FilterPrefixPrice  = "price"
)

// FilterAll is the segment value meaning "no filter".
const FilterAll = "all"

// Price filter values
const (
	PriceUnder7  = "under7"
	Price7To14   = "7to14"
	PriceOver14  = "over14"
	PriceLowCap  = 7.0
	PriceHighCap = 14.0
)

// Sort fields
const (
	SortFieldTitle     = "title"
	SortFieldGenre     = "genre"
	SortFieldPrice     = "price"
	SortFieldFirstName = "firstname"
	SortFieldLastName  = "lastname"
)

// Pagination Limits
const (
	MinPage         = 1
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 4
)

// AuthorSegmentTemplate renders the value of an author filter segment.
const AuthorSegmentTemplate = `{{ .ID }}-{{ list .FirstName .LastName | join " " | slug }}`
