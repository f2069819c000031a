package shop

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/globaltire/storefront/internal/domain"
)

// State is the lifecycle of the product listing.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// snapshotSize is how many products one catalog fetch pulls. Filtering and
// paging happen against this snapshot rather than per-request upstream calls.
const snapshotSize = 100

// ProductFetcher retrieves a catalog snapshot from the upstream store.
type ProductFetcher interface {
	FetchProducts(ctx context.Context, params url.Values) ([]domain.Product, error)
}

// View is one renderable page of the listing.
type View struct {
	State      State            `json:"state"`
	Error      string           `json:"error,omitempty"`
	Category   string           `json:"category"`
	Products   []domain.Product `json:"products"`
	TotalItems int              `json:"total_items"`
	Pagination Pagination       `json:"pagination"`
}

// Controller drives the shop listing: it owns the product snapshot, the
// active category filter and the current page, and serves paged views.
type Controller struct {
	fetcher ProductFetcher
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	err      string
	all      []domain.Product
	filtered []domain.Product
	category string
	page     int
}

// NewController creates an idle controller. Load must be called before
// views carry products.
func NewController(fetcher ProductFetcher, logger *slog.Logger) *Controller {
	return &Controller{
		fetcher:  fetcher,
		logger:   logger,
		state:    StateIdle,
		category: "all",
		page:     1,
	}
}

// Load fetches a fresh catalog snapshot. While the fetch runs the listing
// reports the loading state. On failure the previous snapshot stays in
// place and the state becomes failed. On success the filter resets to all
// categories and the page to 1.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.err = ""
	c.mu.Unlock()

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(snapshotSize))

	products, err := c.fetcher.FetchProducts(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		c.err = "Could not load products."
		c.logger.ErrorContext(ctx, "catalog snapshot fetch failed", slog.String("error", err.Error()))
		return err
	}

	c.all = products
	c.filtered = products
	c.category = "all"
	c.page = 1
	c.state = StateReady
	return nil
}

// SetFilter applies a category filter to the snapshot and resets to the
// first page. An empty or "all" category clears the filter.
func (c *Controller) SetFilter(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.category = category
	if category == "" || category == "all" {
		c.category = "all"
		c.filtered = c.all
	} else {
		filtered := make([]domain.Product, 0, len(c.all))
		for _, p := range c.all {
			if p.InCategory(category) {
				filtered = append(filtered, p)
			}
		}
		c.filtered = filtered
	}
	c.page = 1
}

// SetPage moves to the given page, clamped to the valid range.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalPages := (len(c.filtered) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	c.page = page
}

// View returns the current page of the listing.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := (c.page - 1) * PageSize
	end := start + PageSize
	if start > len(c.filtered) {
		start = len(c.filtered)
	}
	if end > len(c.filtered) {
		end = len(c.filtered)
	}

	products := make([]domain.Product, end-start)
	copy(products, c.filtered[start:end])

	return View{
		State:      c.state,
		Error:      c.err,
		Category:   c.category,
		Products:   products,
		TotalItems: len(c.filtered),
		Pagination: BuildPagination(c.page, len(c.filtered), PageSize),
	}
}
