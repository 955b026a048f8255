package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the public redirect, link registry, and stats
// routes.
func RegisterRoutes(api huma.API, links *LinkHandler, redirects *RedirectHandler, statsH *StatsHandler) {
	// Public redirect. The response status is set per-request (302), so the
	// operation declares no default body.
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/r/{code}",
		Summary:     "Redirect to the target URL",
		Description: "Resolves the short code, records the click best-effort, and redirects.",
		Tags:        []string{"Redirect"},
	}, redirects.Redirect)

	huma.Register(api, huma.Operation{
		OperationID:   "track-click",
		Method:        http.MethodPost,
		Path:          "/r/{code}/track",
		Summary:       "Record a click",
		Description:   "Explicit tracking call for split deployments. 202 means the raw event is durable.",
		Tags:          []string{"Redirect"},
		DefaultStatus: http.StatusAccepted,
	}, redirects.TrackClick)

	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/links",
		Summary:       "Register a short link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List an owner's links",
		Tags:        []string{"Links"},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "get-link-by-code",
		Method:      http.MethodGet,
		Path:        "/links/by-code/{code}",
		Summary:     "Resolve an active link by code",
		Tags:        []string{"Links"},
	}, links.GetLinkByCode)

	huma.Register(api, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/links/{id}",
		Summary:     "Soft-delete a link",
		Description: "Deactivates the link. The code stays reserved forever and never resolves again.",
		Tags:        []string{"Links"},
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "stats-summary",
		Method:      http.MethodGet,
		Path:        "/stats/{code}/summary",
		Summary:     "All-time click summary for a code",
		Tags:        []string{"Stats"},
	}, statsH.Summary)

	huma.Register(api, huma.Operation{
		OperationID: "stats-daily",
		Method:      http.MethodGet,
		Path:        "/stats/{code}/daily",
		Summary:     "Daily click series for a code",
		Tags:        []string{"Stats"},
	}, statsH.DailySeries)
}
