// Package api is the HTTP client for the backend REST API. All requests are
// form-encoded posts or plain gets under a single origin; all responses are
// JSON. The session is carried by a cookie.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/version"
)

const requestTimeout = 10 * time.Second

// Client talks to the backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *logging.Logger

	// group collapses identical concurrent GETs, e.g. overlapping
	// notification-stat polls.
	group singleflight.Group
}

// NewClient builds a Client for the backend at the given address, which may
// be a host:port or a full URL.
func NewClient(address string, logger *logging.Logger) (*Client, error) {
	base, err := parseBaseURL(address)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		userAgent: "finch/" + version.Version,
		logger:    logger,
	}, nil
}

//
// Session
//

// CurrentUser performs the silent who-am-I check. ErrUnauthenticated means
// there is no active session.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	err := c.get(ctx, "/auth/get", &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	var user User
	err := c.postForm(ctx, "/auth/login", form, &user)
	return user, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.get(ctx, "/auth/logout", nil)
}

type CreateAccountOptions struct {
	Name     string
	Email    string
	Password string
	// OptEmail opts the new account into email notifications.
	OptEmail bool
}

func (c *Client) CreateAccount(ctx context.Context, opts CreateAccountOptions) (User, error) {
	form := url.Values{}
	form.Set("name", opts.Name)
	form.Set("email", opts.Email)
	form.Set("password", opts.Password)
	form.Set("optEmail", strconv.FormatBool(opts.OptEmail))

	var payload struct {
		envelope
		User *User `json:"user"`
	}
	if err := c.postForm(ctx, "/user/create", form, &payload); err != nil {
		return User{}, err
	}
	if err := payload.err(); err != nil {
		return User{}, err
	}
	if payload.User == nil {
		return User{}, fmt.Errorf("creating account: empty response")
	}
	return *payload.User, nil
}

//
// Companies
//

func (c *Client) CompanyDetails(ctx context.Context, id, articleCount int) (CompanyDetails, error) {
	form := url.Values{}
	form.Set("id", strconv.Itoa(id))
	form.Set("loadStock", "true")
	form.Set("articleCount", strconv.Itoa(articleCount))

	var payload struct {
		envelope
		Data *CompanyDetails `json:"data"`
	}
	if err := c.postForm(ctx, "/company/details", form, &payload); err != nil {
		return CompanyDetails{}, err
	}
	if err := payload.err(); err != nil {
		return CompanyDetails{}, err
	}
	if payload.Data == nil {
		return CompanyDetails{}, fmt.Errorf("company %d: empty response", id)
	}
	return *payload.Data, nil
}

func (c *Client) Follow(ctx context.Context, id int) error {
	return c.postID(ctx, "/company/follow", id)
}

func (c *Client) Unfollow(ctx context.Context, id int) error {
	return c.postID(ctx, "/company/unfollow", id)
}

func (c *Client) Following(ctx context.Context) ([]Company, error) {
	var companies []Company
	err := c.postForm(ctx, "/company/following", url.Values{}, &companies)
	return companies, err
}

func (c *Client) Popular(ctx context.Context, count int) ([]Company, error) {
	form := url.Values{}
	form.Set("count", strconv.Itoa(count))

	var companies []Company
	err := c.postForm(ctx, "/company/popular", form, &companies)
	return companies, err
}

func (c *Client) ForYou(ctx context.Context, count int) ([]Company, error) {
	form := url.Values{}
	form.Set("count", strconv.Itoa(count))

	var companies []Company
	err := c.postForm(ctx, "/user/for-you", form, &companies)
	return companies, err
}

func (c *Client) Search(ctx context.Context, filter SearchFilter) ([]Company, error) {
	form := url.Values{}
	if filter.Name != "" {
		form.Set("name", filter.Name)
	}
	if filter.CEO != "" {
		form.Set("ceo", filter.CEO)
	}
	for _, sector := range filter.Sectors {
		form.Add("sectors[]", sector)
	}
	if filter.MarketCapMin != 0 {
		form.Set("marketCapMin", formatFloat(filter.MarketCapMin))
	}
	if filter.MarketCapMax != 0 {
		form.Set("marketCapMax", formatFloat(filter.MarketCapMax))
	}
	if filter.SentimentMin != 0 {
		form.Set("sentimentMin", formatFloat(filter.SentimentMin))
	}
	if filter.SentimentMax != 0 {
		form.Set("sentimentMax", formatFloat(filter.SentimentMax))
	}

	var companies []Company
	err := c.postForm(ctx, "/company/search", form, &companies)
	return companies, err
}

//
// News
//

func (c *Client) RecentArticles(ctx context.Context) ([]Article, error) {
	var articles []Article
	err := c.get(ctx, "/news/recent", &articles)
	return articles, err
}

func (c *Client) Article(ctx context.Context, id int) (Article, error) {
	form := url.Values{}
	form.Set("id", strconv.Itoa(id))

	var payload struct {
		envelope
		Data *Article `json:"data"`
	}
	if err := c.postForm(ctx, "/news/article", form, &payload); err != nil {
		return Article{}, err
	}
	if err := payload.err(); err != nil {
		return Article{}, err
	}
	if payload.Data == nil {
		return Article{}, fmt.Errorf("article %d: empty response", id)
	}
	return *payload.Data, nil
}

//
// Notifications
//

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	err := c.get(ctx, "/user/notifications", &notifications)
	return notifications, err
}

func (c *Client) NotificationStats(ctx context.Context) (NotificationStats, error) {
	var stats NotificationStats
	err := c.get(ctx, "/user/notification-stats", &stats)
	return stats, err
}

func (c *Client) MarkAsRead(ctx context.Context, id int) error {
	return c.postID(ctx, "/notification/mark-as-read", id)
}

func (c *Client) ReadAll(ctx context.Context) error {
	return c.postForm(ctx, "/notification/read-all", url.Values{}, nil)
}

//
// Profile
//

func (c *Client) ChangeName(ctx context.Context, name string) (User, error) {
	form := url.Values{}
	form.Set("name", name)

	var payload struct {
		envelope
		User *User `json:"user"`
	}
	if err := c.postForm(ctx, "/user/change-name", form, &payload); err != nil {
		return User{}, err
	}
	if err := payload.err(); err != nil {
		return User{}, err
	}
	if payload.User == nil {
		return User{}, fmt.Errorf("changing name: empty response")
	}
	return *payload.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, password, newPassword, repeatNewPassword string) error {
	form := url.Values{}
	form.Set("password", password)
	form.Set("newPassword", newPassword)
	form.Set("repeatNewPassword", repeatNewPassword)

	var payload envelope
	if err := c.postForm(ctx, "/user/change-password", form, &payload); err != nil {
		return err
	}
	return payload.err()
}

func (c *Client) Sectors(ctx context.Context) ([]Sector, error) {
	var sectors []Sector
	err := c.get(ctx, "/user/sectors/get", &sectors)
	return sectors, err
}

func (c *Client) AddSector(ctx context.Context, id int) (Sector, error) {
	form := url.Values{}
	form.Set("id", strconv.Itoa(id))

	var payload struct {
		envelope
		Sector *Sector `json:"sector"`
	}
	if err := c.postForm(ctx, "/user/sectors/add", form, &payload); err != nil {
		return Sector{}, err
	}
	if err := payload.err(); err != nil {
		return Sector{}, err
	}
	if payload.Sector == nil {
		return Sector{}, fmt.Errorf("adding sector %d: empty response", id)
	}
	return *payload.Sector, nil
}

func (c *Client) RemoveSector(ctx context.Context, id int) error {
	return c.postID(ctx, "/user/sectors/remove", id)
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.postForm(ctx, "/user/delete", url.Values{}, nil)
}

//
// Plumbing
//

// envelope is the {error, message} wrapper most mutation endpoints respond
// with.
type envelope struct {
	ErrorFlag bool   `json:"error"`
	Message   string `json:"message"`
}

func (e envelope) err() error {
	if e.ErrorFlag {
		return &Error{Message: e.Message}
	}
	return nil
}

func (c *Client) postID(ctx context.Context, path string, id int) error {
	form := url.Values{}
	form.Set("id", strconv.Itoa(id))

	var payload envelope
	if err := c.postForm(ctx, path, form, &payload); err != nil {
		return err
	}
	return payload.err()
}

// get issues a GET, collapsing identical concurrent requests into one.
func (c *Client) get(ctx context.Context, path string, dest any) error {
	raw, err, _ := c.group.Do(path, func() (any, error) {
		return c.doRaw(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return err
	}
	return decode(raw.([]byte), dest)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, dest any) error {
	raw, err := c.doRaw(ctx, http.MethodPost, path, form)
	if err != nil {
		return err
	}
	return decode(raw, dest)
}

func decode(raw []byte, dest any) error {
	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "path", path, "error", err, "request_id", requestID)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", requestID,
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode >= 400 {
		return nil, &statusError{path: path, status: resp.StatusCode}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func parseBaseURL(address string) (*url.URL, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("backend address is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", address, err)
	}
	u.Path = ""
	return u, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
