// Admin HTTP handlers.
//
// This file exposes the endpoints behind middleware.AdminAuth:
//   - GET /admin/dashboard     (aggregate metrics, ETag support)
//   - GET /admin/feedback      (filtered and sorted list, ETag support)
//   - GET /admin/feedback/{id} (single record)
//
// ETags are derived from the record count and the id of the newest record.
// Records are append-only, so that pair changes whenever the collection does.
package handlers

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-feedback-backend/internal/analytics"
	"github.com/tbourn/go-feedback-backend/internal/domain"
	"github.com/tbourn/go-feedback-backend/internal/services"
	"github.com/tbourn/go-feedback-backend/internal/utils"
)

// DashboardResponse wraps the aggregate metrics. Empty is true when no
// submissions exist yet, in which case Dashboard is omitted.
type DashboardResponse struct {
	Empty     bool                 `json:"empty"               example:"false"`
	Dashboard *analytics.Dashboard `json:"dashboard,omitempty"`
}

// FeedbackListResponse is the admin list view.
type FeedbackListResponse struct {
	Items []domain.FeedbackRecord `json:"items"`
	// Count is the number of records in Items.
	Count int `json:"count" example:"3"`
	// Total is the number of stored records before filtering.
	Total int    `json:"total" example:"20"`
	Sort  string `json:"sort"  example:"recent"`
	// Terms are the keyword terms applied after folding and stopword removal.
	Terms []string `json:"terms,omitempty" example:"delivery"`
}

// Dashboard godoc
// @ID          getDashboard
// @Summary     Admin dashboard
// @Description Average rating, positive and negative shares, rating histogram, daily average trend and sentiment buckets.
// @Tags        Admin
// @Produce     json
// @Security    AdminSecret
// @Param       If-None-Match header string false "Return 304 if ETag matches" example(W/\"dashboard:20:20250314150926535897\")
// @Success     200  {object} handlers.DashboardResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Missing or wrong admin secret"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable or admin disabled"
// @Router      /admin/dashboard [get]
func (h *Handlers) Dashboard(c *gin.Context) {
	snap, err := h.dashSvc.Dashboard(c.Request.Context())
	switch {
	case errors.Is(err, analytics.ErrEmptyCollection):
		if notModified(c, `W/"dashboard:0:"`) {
			return
		}
		ok(c, http.StatusOK, DashboardResponse{Empty: true})
		return
	case err != nil:
		failService(c, err, ErrCodeDashboardFailed)
		return
	}

	if notModified(c, fmt.Sprintf(`W/"dashboard:%d:%s"`, snap.Total, snap.LastID)) {
		return
	}
	d := snap.Dashboard
	ok(c, http.StatusOK, DashboardResponse{Dashboard: &d})
}

// ListFeedback godoc
// @ID          listFeedback
// @Summary     List submissions
// @Description Filters by rating and keyword, then sorts. Equal keys keep storage order.
// @Tags        Admin
// @Produce     json
// @Security    AdminSecret
// @Param       rating query []int  false "Ratings to keep (repeat or comma-separate); default all" collectionFormat(multi) example(4)
// @Param       sort   query string false "recent | highest | lowest" Enums(recent, highest, lowest) default(recent)
// @Param       q      query string false "Keyword filter over review and admin summary (prefix match, accents and case ignored)" example(delivery)
// @Param       in     query string false "Fields searched by q" Enums(all, review) default(all)
// @Param       If-None-Match header string false "Return 304 if ETag matches"
// @Success     200  {object} handlers.FeedbackListResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Invalid rating, sort or in"
// @Failure     401  {object} handlers.ErrorResponse "Missing or wrong admin secret"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable or admin disabled"
// @Router      /admin/feedback [get]
func (h *Handlers) ListFeedback(c *gin.Context) {
	ratings, err := parseRatings(c.QueryArray("rating"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	mode, err := analytics.ParseSortMode(c.Query("sort"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	reviewOnly, err := parseScope(c.Query("in"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	res, err := h.dashSvc.Query(c.Request.Context(), services.ListQuery{
		Ratings:    ratings,
		Sort:       mode,
		Keyword:    c.Query("q"),
		ReviewOnly: reviewOnly,
	})
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}

	etag := fmt.Sprintf(`W/"feedback:%d:%s:%x"`, res.Total, res.LastID, queryHash(c))
	if notModified(c, etag) {
		return
	}

	items := res.Items
	if items == nil {
		items = []domain.FeedbackRecord{}
	}
	ok(c, http.StatusOK, FeedbackListResponse{
		Items: items,
		Count: len(items),
		Total: res.Total,
		Sort:  string(mode),
		Terms: res.Terms,
	})
}

// GetFeedback godoc
// @ID          getFeedback
// @Summary     Get one submission
// @Tags        Admin
// @Produce     json
// @Security    AdminSecret
// @Param       id path string true "Record id (YYYYMMDDHHMMSSffffff)" example(20250314150926535897)
// @Success     200  {object} domain.FeedbackRecord
// @Failure     401  {object} handlers.ErrorResponse "Missing or wrong admin secret"
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable or admin disabled"
// @Router      /admin/feedback/{id} [get]
func (h *Handlers) GetFeedback(c *gin.Context) {
	rec, err := h.fbSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "feedback not found")
			return
		}
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, rec)
}

// parseRatings accepts repeated and comma-separated values. No values means
// every rating.
func parseRatings(raw []string) (analytics.RatingSet, error) {
	ratings, err := utils.Ints(raw)
	if err != nil {
		return nil, fmt.Errorf("rating: %w", err)
	}
	for _, n := range ratings {
		if !domain.ValidRating(n) {
			return nil, fmt.Errorf("rating must be between %d and %d, got %d", domain.MinRating, domain.MaxRating, n)
		}
	}
	if len(ratings) == 0 {
		return nil, nil
	}
	return analytics.NewRatingSet(ratings...), nil
}

// parseScope reads the "in" parameter: blank or "all" searches review and
// summary, "review" the review alone.
func parseScope(raw string) (reviewOnly bool, err error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return false, nil
	case "review":
		return true, nil
	}
	return false, fmt.Errorf("in must be all or review, got %q", raw)
}

// queryHash fingerprints the parameters that shape a list response.
func queryHash(c *gin.Context) uint32 {
	h := fnv.New32a()
	q := c.Request.URL.Query()
	for _, k := range []string{"rating", "sort", "q", "in"} {
		h.Write([]byte(k + "=" + strings.Join(q[k], ",") + "&"))
	}
	return h.Sum32()
}
