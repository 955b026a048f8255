package handlers

import "time"

// LinkInfo is the wire representation of a link.
type LinkInfo struct {
	ID        int64     `doc:"Link ID"                            json:"id"`
	Code      string    `doc:"The short code"                     example:"promo"                   json:"code"`
	ShortURL  string    `doc:"The full short URL"                 example:"http://localhost:8888/r/promo" json:"shortUrl"`
	TargetURL string    `doc:"The target URL"                     example:"https://example.com/a/b" json:"targetUrl"`
	OwnerID   int64     `doc:"Owning user"                        json:"ownerId"`
	IsActive  bool      `doc:"False once the link is soft-deleted" json:"isActive"`
	CreatedAt time.Time `doc:"Creation time"                      json:"createdAt"`
}

// CreateLinkRequest is the request body for registering a short link.
type CreateLinkRequest struct {
	Body struct {
		OwnerID    int64  `doc:"Owning user"                                json:"ownerId" minimum:"1"`
		TargetURL  string `doc:"Absolute URL to redirect to"                example:"https://example.com/a/b?x=1" json:"targetUrl"`
		CustomCode string `doc:"Optional custom code, alphanumeric, max 20" json:"customCode,omitempty" required:"false"`
	}
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Body LinkInfo
}

// ListLinksRequest is the request for listing an owner's links.
type ListLinksRequest struct {
	OwnerID int64 `doc:"Owning user"    query:"owner_id" minimum:"1"`
	Page    int   `doc:"Page, 1-based"  query:"page"     required:"false"`
	PerPage int   `doc:"Page size"      query:"per_page" required:"false"`
}

// ListLinksResponse is a page of links.
type ListLinksResponse struct {
	Body struct {
		Links []LinkInfo `json:"links"`
	}
}

// GetLinkByCodeRequest is the request for resolving a link by code.
type GetLinkByCodeRequest struct {
	Code string `doc:"The short code" example:"promo" path:"code"`
}

// GetLinkByCodeResponse is the resolved link.
type GetLinkByCodeResponse struct {
	Body LinkInfo
}

// DeleteLinkRequest is the request for soft-deleting a link.
type DeleteLinkRequest struct {
	ID int64 `doc:"Link ID" path:"id"`
}

// DeleteLinkResponse acknowledges a soft delete.
type DeleteLinkResponse struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

// RedirectRequest is the request for redirecting a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"promo" path:"code"`
}

// RedirectResponse is the HTTP redirect to the target URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The target URL" header:"Location"`
	}
}

// TrackClickRequest is the explicit tracking call used when redirect and
// tracking are split across processes.
type TrackClickRequest struct {
	Code string `doc:"The short code" example:"promo" path:"code"`
	Body struct {
		OccurredAt time.Time `doc:"Click time, defaults to now" json:"occurredAt,omitempty" required:"false"`
		Referrer   string    `doc:"Referrer header value"       json:"referrer,omitempty"   required:"false"`
	}
}

// TrackClickResponse acknowledges a durable click write.
type TrackClickResponse struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

// SummaryRequest is the request for a code's click summary.
type SummaryRequest struct {
	Code string `doc:"The short code" example:"promo" path:"code"`
}

// SummaryResponse is the all-time click summary for a code.
type SummaryResponse struct {
	Body struct {
		TotalClicks  int64      `doc:"Total recorded clicks" json:"totalClicks"`
		FirstClickAt *time.Time `doc:"Earliest click"        json:"firstClickAt,omitempty"`
		LastClickAt  *time.Time `doc:"Latest click"          json:"lastClickAt,omitempty"`
	}
}

// DailySeriesRequest is the request for a code's daily click series.
type DailySeriesRequest struct {
	Code string `doc:"The short code"              example:"promo"      path:"code"`
	From string `doc:"First day, inclusive (YYYY-MM-DD)" example:"2025-08-15" query:"from" required:"false"`
	To   string `doc:"Last day, inclusive (YYYY-MM-DD)"  example:"2025-08-29" query:"to"   required:"false"`
}

// DayCountInfo is one day of the series.
type DayCountInfo struct {
	Day    string `doc:"UTC calendar day" example:"2025-08-29" json:"day"`
	Clicks int64  `doc:"Clicks that day"  json:"clicks"`
}

// DailySeriesResponse is the daily click series, ascending by day.
type DailySeriesResponse struct {
	Body struct {
		Days []DayCountInfo `json:"days"`
	}
}
