package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// User is a row in the users table, keyed by the Google subject claim.
// The google_id column carries a uniqueness constraint so concurrent first
// sign-ins cannot create two rows.
type User struct {
	GoogleID      string `json:"google_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	PictureURL    string `json:"picture_url,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// Item is a row of the items table as seen by the enrichment job.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// Key returns the item identifier as used in the progress file.
func (it Item) Key() string {
	return strconv.FormatInt(it.ID, 10)
}

// Client talks to the Supabase PostgREST row API.
type Client struct {
	http *resty.Client
}

// NewClient creates a store client for the given Supabase project URL and
// service key.
func NewClient(baseURL, key string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/") + "/rest/v1").
		SetTimeout(30 * time.Second).
		SetHeader("apikey", key).
		SetHeader("Authorization", "Bearer "+key).
		SetHeader("Content-Type", "application/json")

	return &Client{http: c}
}

// Items returns every row of the items table.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	var items []Item

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetResult(&items).
		Get("/items")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("items select returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return items, nil
}

// UpdateItemImage sets image_url on a single item row.
func (c *Client) UpdateItemImage(ctx context.Context, id, imageURL string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		SetBody(map[string]string{"image_url": imageURL}).
		Patch("/items")
	if err != nil {
		return fmt.Errorf("failed to update item %s: %w", id, err)
	}
	if resp.IsError() {
		return fmt.Errorf("item update returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// UserByGoogleID looks up a user row by google_id. A missing row is not an
// error; it returns nil.
func (c *Client) UserByGoogleID(ctx context.Context, googleID string) (*User, error) {
	var users []User

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("google_id", "eq."+googleID).
		SetQueryParam("select", "*").
		SetQueryParam("limit", "1").
		SetResult(&users).
		Get("/users")
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("user select returned status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// InsertUser inserts the user unless a row with the same google_id already
// exists. A conflicting concurrent insert resolves as "already exists"
// rather than an error.
func (c *Client) InsertUser(ctx context.Context, user User) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", "google_id").
		SetHeader("Prefer", "resolution=ignore-duplicates").
		SetBody(user).
		Post("/users")
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("user insert returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
