package handlers

import (
	"time"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

// LinkPayload is the wire representation of a short link.
type LinkPayload struct {
	ID               string     `json:"id"`
	Code             string     `doc:"Short code occupying the shared code/alias namespace" json:"code"`
	Alias            string     `json:"alias,omitempty"`
	ShortURL         string     `doc:"Full short URL" json:"shortUrl"`
	OriginalURL      string     `json:"originalUrl"`
	Title            string     `json:"title,omitempty"`
	Description      string     `json:"description,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	TotalClicks      int64      `json:"totalClicks"`
	IsActive         bool       `json:"isActive"`
	ExpirationType   string     `json:"expirationType"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
	ExpirationClicks *int64     `json:"expirationClicks,omitempty"`
	ClicksRemaining  *int64     `json:"clicksRemaining,omitempty"`
	LastAccessedAt   *time.Time `json:"lastAccessedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// CreateLinkRequest is the body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		OriginalURL      string     `doc:"Destination URL; https:// is assumed when no scheme is given" example:"https://example.com/very/long/path" json:"originalUrl"`
		Alias            string     `doc:"Optional custom alias, 1-30 chars of [a-zA-Z0-9-_]" example:"my-link" json:"alias,omitempty"`
		Title            string     `json:"title,omitempty"   maxLength:"200"`
		Description      string     `json:"description,omitempty" maxLength:"500"`
		Tags             []string   `json:"tags,omitempty"`
		ExpirationType   string     `doc:"One of never, date, clicks" enum:"never,date,clicks" json:"expirationType,omitempty"`
		ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
		ExpirationClicks *int64     `json:"expirationClicks,omitempty"`
	}
}

// CreateLinkResponse returns the created link.
type CreateLinkResponse struct {
	Status int
	Body   struct {
		Link LinkPayload `json:"link"`
	}
}

// RedirectRequest resolves a short code or alias.
type RedirectRequest struct {
	Code string `doc:"Short code or alias" example:"abc123" path:"code"`
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// ListLinksRequest pages through the caller's links.
type ListLinksRequest struct {
	Page     int      `default:"1"  minimum:"1" query:"page"`
	PageSize int      `default:"10" maximum:"100" minimum:"1" query:"pageSize"`
	Search   string   `doc:"Case-insensitive substring over URL, title, code and alias" query:"search"`
	Tags     []string `doc:"Match links carrying any of these tags" query:"tags"`
}

// ListLinksResponse is one page of links, newest first.
type ListLinksResponse struct {
	Body struct {
		Items     []LinkPayload `json:"items"`
		Total     int64         `json:"total"`
		Page      int           `json:"page"`
		PageCount int           `json:"pageCount"`
	}
}

// GetLinkRequest fetches one owned link.
type GetLinkRequest struct {
	ID string `path:"id"`
}

// GetLinkResponse returns the link.
type GetLinkResponse struct {
	Body struct {
		Link LinkPayload `json:"link"`
	}
}

// UpdateLinkRequest patches the owner-mutable fields. Absent fields are
// left untouched; code, alias and destination are immutable.
type UpdateLinkRequest struct {
	ID   string `path:"id"`
	Body struct {
		Title            *string    `json:"title,omitempty"`
		Description      *string    `json:"description,omitempty"`
		IsActive         *bool      `json:"isActive,omitempty"`
		Tags             *[]string  `json:"tags,omitempty"`
		ExpirationType   *string    `enum:"never,date,clicks" json:"expirationType,omitempty"`
		ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
		ExpirationClicks *int64     `json:"expirationClicks,omitempty"`
	}
}

// UpdateLinkResponse returns the updated link.
type UpdateLinkResponse struct {
	Body struct {
		Link LinkPayload `json:"link"`
	}
}

// DeleteLinkRequest removes a link and its click history.
type DeleteLinkRequest struct {
	ID string `path:"id"`
}

// DeleteLinkResponse confirms the deletion.
type DeleteLinkResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// LinkAnalyticsRequest fetches the per-link click breakdown.
type LinkAnalyticsRequest struct {
	ID string `path:"id"`
}

// LinkAnalyticsResponse carries the aggregated click data.
type LinkAnalyticsResponse struct {
	Body struct {
		TotalClicks int64                   `json:"totalClicks"`
		Countries   []shortener.CountBucket `json:"countries"`
		Devices     []shortener.CountBucket `json:"devices"`
		Browsers    []shortener.CountBucket `json:"browsers"`
		DailyClicks []shortener.DayBucket   `json:"dailyClicks"`
	}
}

// DashboardResponse aggregates across all of the caller's links.
type DashboardResponse struct {
	Body struct {
		TotalURLs    int64         `json:"totalUrls"`
		TotalClicks  int64         `json:"totalClicks"`
		RecentClicks int64         `doc:"Clicks in the last 7 days" json:"recentClicks"`
		TopLinks     []LinkPayload `doc:"Top 5 links by total clicks" json:"topLinks"`
	}
}

// ReconcileResponse reports the recomputed counters.
type ReconcileResponse struct {
	Body struct {
		TotalLinks  int64 `json:"totalLinks"`
		TotalClicks int64 `json:"totalClicks"`
	}
}
