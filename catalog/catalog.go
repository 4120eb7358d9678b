// Package catalog is the product-browsing client: paged product listings
// with category filtering and search, single-product lookup, and categories.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jharlow/go-storefront-client/api"
)

const (
	productsPath   = "products/"
	categoriesPath = "categories/"

	// DefaultPageSize matches the backend's default page size.
	DefaultPageSize = 12
)

// Product is one catalog entry.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// Category is one catalog category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Query selects and pages a product listing. Zero values are omitted from
// the request.
type Query struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

// Page is one page of products with resolved pagination totals.
type Page struct {
	Items      []Product
	TotalCount int
	Page       int
	PageSize   int
	HasNext    bool
	HasPrev    bool
}

// TotalPages returns the page count implied by TotalCount and PageSize.
func (p Page) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// Client reads the product catalog.
type Client struct {
	backend *api.Client
}

// NewClient initializes a catalog Client.
func NewClient(backend *api.Client) (*Client, error) {
	if backend == nil {
		return nil, errors.New("[catalog.NewClient] backend client is required")
	}
	return &Client{backend: backend}, nil
}

// pagedResponse is the backend's listing envelope. Count is optional: some
// listing endpoints omit it, in which case totals are derived from the page
// contents and the presence of a next link.
type pagedResponse struct {
	Count    *int      `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Product `json:"results"`
}

// Products fetches one page of the catalog.
func (c *Client) Products(ctx context.Context, q Query) (*Page, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var resp pagedResponse
	if err := c.backend.Get(ctx, productsPath, query, &resp); err != nil {
		return nil, errors.Wrap(err, "[Client.Products] products fetch")
	}

	return &Page{
		Items:      resp.Results,
		TotalCount: resolveTotal(resp, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		HasNext:    resp.Next != nil,
		HasPrev:    resp.Previous != nil,
	}, nil
}

// resolveTotal returns the backend count when present, otherwise a fallback
// derived from what this page proves: a next link means at least one more
// item beyond this page; no next link means this is the final page.
func resolveTotal(resp pagedResponse, page, pageSize int) int {
	if resp.Count != nil {
		return *resp.Count
	}
	seen := (page-1)*pageSize + len(resp.Results)
	if resp.Next != nil {
		return seen + 1
	}
	return seen
}

// Product fetches a single product by ID.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.backend.Get(ctx, fmt.Sprintf("products/%d/", id), nil, &product); err != nil {
		return nil, errors.Wrap(err, "[Client.Product] product fetch")
	}
	return &product, nil
}

// Categories fetches the category list.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.backend.Get(ctx, categoriesPath, nil, &categories); err != nil {
		return nil, errors.Wrap(err, "[Client.Categories] categories fetch")
	}
	return categories, nil
}
