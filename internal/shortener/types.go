package shortener

import "time"

// ExpirationType selects how a link stops being resolvable.
type ExpirationType string

const (
	// ExpireNever keeps the link resolvable until disabled or deleted.
	ExpireNever ExpirationType = "never"
	// ExpireOnDate expires the link once the expiration date is reached.
	ExpireOnDate ExpirationType = "date"
	// ExpireOnClicks expires the link after a fixed number of clicks.
	ExpireOnClicks ExpirationType = "clicks"
)

// DeviceType is the coarse device classification recorded per click.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceDesktop DeviceType = "desktop"
)

// User is the link owner as seen by this core. Identity and authentication
// live upstream; totalLinks/totalClicks are denormalized running totals
// maintained by the registry and the recorder.
type User struct {
	ID          string
	Name        string
	Email       string
	TotalLinks  int64
	TotalClicks int64
	IsPremium   bool
	IsAdmin     bool
	IsActive    bool
	CreatedAt   time.Time
}

// ShortLink maps a lookup key (generated code or user alias) to a URL.
//
// Code and Alias share one uniqueness namespace: no two links may carry
// the same value in either field, case-insensitively. When an alias is
// supplied at creation it doubles as the code.
type ShortLink struct {
	ID          string
	UserID      string
	OriginalURL string
	Code        string
	Alias       string // empty when the code was generated
	Title       string
	Description string
	Tags        []string
	TotalClicks int64
	IsActive    bool

	ExpirationType   ExpirationType
	ExpirationDate   *time.Time // set for ExpireOnDate
	ExpirationClicks *int64     // set for ExpireOnClicks
	ClicksRemaining  *int64     // counts down for ExpireOnClicks

	LastAccessedAt *time.Time
	CreatedAt      time.Time
}

// LookupKey returns the value the link occupies in the shared code/alias
// namespace. Codes and aliases are stored lowercased, so the key is
// already normalized.
func (l *ShortLink) LookupKey() string {
	return l.Code
}

// ClickEvent is one immutable record of a resolution. Events are append
// only; they are removed solely by the cascade when their link is deleted.
type ClickEvent struct {
	ID        string
	LinkID    string
	UserID    string // link owner, denormalized for aggregation
	IPAddress string
	Country   string
	City      string
	Device    DeviceType
	Browser   string
	OS        string
	Referrer  string
	UserAgent string
	CreatedAt time.Time
}

// ClientInfo carries the request attributes the HTTP layer hands to the
// recorder. Everything in it is best-effort.
type ClientInfo struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// CountBucket is a (label, count) pair used by the aggregator.
type CountBucket struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DayBucket is a per-calendar-day click count (UTC truncation).
type DayBucket struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// AnalyticsSummary is the per-link breakdown of recorded clicks.
type AnalyticsSummary struct {
	TotalClicks int64
	Countries   []CountBucket // descending by count
	Devices     []CountBucket // mobile and desktop, zero-filled
	Browsers    []CountBucket // top 5, descending by count
	DailyClicks []DayBucket   // ascending, days without clicks omitted
}

// DashboardSummary aggregates across all of a user's links.
type DashboardSummary struct {
	TotalURLs    int64
	TotalClicks  int64
	RecentClicks int64 // last 7 days
	TopLinks     []*ShortLink
}
