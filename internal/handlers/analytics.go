package handlers

import (
	"context"
)

// LinkAnalytics returns the aggregated click breakdown for one owned link.
func (h *LinkHandler) LinkAnalytics(ctx context.Context, req *LinkAnalyticsRequest) (*LinkAnalyticsResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := h.aggregator.Summarize(ctx, userID, req.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	resp := &LinkAnalyticsResponse{}
	resp.Body.TotalClicks = summary.TotalClicks
	resp.Body.Countries = summary.Countries
	resp.Body.Devices = summary.Devices
	resp.Body.Browsers = summary.Browsers
	resp.Body.DailyClicks = summary.DailyClicks

	return resp, nil
}

// Dashboard aggregates totals across every link the caller owns.
func (h *LinkHandler) Dashboard(ctx context.Context, _ *struct{}) (*DashboardResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := h.aggregator.Dashboard(ctx, userID)
	if err != nil {
		return nil, h.mapError(err)
	}

	resp := &DashboardResponse{}
	resp.Body.TotalURLs = summary.TotalURLs
	resp.Body.TotalClicks = summary.TotalClicks
	resp.Body.RecentClicks = summary.RecentClicks
	resp.Body.TopLinks = make([]LinkPayload, 0, len(summary.TopLinks))

	for _, link := range summary.TopLinks {
		resp.Body.TopLinks = append(resp.Body.TopLinks, h.toPayload(link))
	}

	return resp, nil
}

// ReconcileCounters recomputes the caller's aggregate counters from the
// authoritative link and click sets. Exposed as an explicit maintenance
// operation; the counters normally drift only when a best-effort update
// failed after a successful primary write.
func (h *LinkHandler) ReconcileCounters(ctx context.Context, _ *struct{}) (*ReconcileResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	links, clicks, err := h.registry.ReconcileUser(ctx, userID)
	if err != nil {
		return nil, h.mapError(err)
	}

	resp := &ReconcileResponse{}
	resp.Body.TotalLinks = links
	resp.Body.TotalClicks = clicks

	return resp, nil
}
