package shortener

import (
	"context"
	"sort"
	"time"
)

const (
	topBrowsers     = 5
	topDashboard    = 5
	recentClicksAge = 7 * 24 * time.Hour
)

// Aggregator summarizes the raw click log into per-link and per-user
// breakdowns.
type Aggregator struct {
	repo Repository
}

// NewAggregator creates an analytics aggregator.
func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Summarize builds the per-link breakdown. The link must belong to the
// user or the call fails with ErrNotFound.
func (a *Aggregator) Summarize(ctx context.Context, userID, linkID string) (*AnalyticsSummary, error) {
	link, err := a.repo.LinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if link.UserID != userID {
		return nil, ErrNotFound
	}

	events, err := a.repo.ClicksByLink(ctx, link.ID)
	if err != nil {
		return nil, err
	}

	countries := newTally()
	browsers := newTally()
	daily := map[string]int64{}

	var mobile, desktop int64

	for _, e := range events {
		countries.add(e.Country)
		browsers.add(e.Browser)

		if e.Device == DeviceMobile {
			mobile++
		} else {
			desktop++
		}

		daily[e.CreatedAt.UTC().Format(time.DateOnly)]++
	}

	return &AnalyticsSummary{
		TotalClicks: link.TotalClicks,
		Countries:   countries.sorted(0),
		Devices: []CountBucket{
			{Name: string(DeviceMobile), Count: mobile},
			{Name: string(DeviceDesktop), Count: desktop},
		},
		Browsers:    browsers.sorted(topBrowsers),
		DailyClicks: sortedDays(daily),
	}, nil
}

// Dashboard aggregates across all of the user's links.
func (a *Aggregator) Dashboard(ctx context.Context, userID string) (*DashboardSummary, error) {
	totalURLs, err := a.repo.CountLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalClicks, err := a.repo.CountClicks(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := a.repo.CountClicksSince(ctx, userID, time.Now().UTC().Add(-recentClicksAge))
	if err != nil {
		return nil, err
	}

	top, err := a.repo.TopLinks(ctx, userID, topDashboard)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalURLs:    totalURLs,
		TotalClicks:  totalClicks,
		RecentClicks: recent,
		TopLinks:     top,
	}, nil
}

// tally counts labels while remembering first-encounter order, so that
// equal counts sort deterministically.
type tally struct {
	counts map[string]int64
	order  []string
}

func newTally() *tally {
	return &tally{counts: map[string]int64{}}
}

func (t *tally) add(label string) {
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}

	t.counts[label]++
}

// sorted returns the buckets in descending count order, ties broken by
// first encounter. limit > 0 caps the result length.
func (t *tally) sorted(limit int) []CountBucket {
	buckets := make([]CountBucket, 0, len(t.order))
	for _, label := range t.order {
		buckets = append(buckets, CountBucket{Name: label, Count: t.counts[label]})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})

	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}

	return buckets
}

func sortedDays(daily map[string]int64) []DayBucket {
	days := make([]DayBucket, 0, len(daily))
	for date, count := range daily {
		days = append(days, DayBucket{Date: date, Count: count})
	}

	// YYYY-MM-DD sorts chronologically as text.
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return days
}
