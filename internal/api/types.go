package api

import (
	"time"

	"github.com/finchtui/finch/internal/sentiment"
)

// User is the authenticated subject driving every query.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Sector struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Company struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	URL               string             `json:"url"`
	LogoURL           string             `json:"logoUrl"`
	Description       string             `json:"description"`
	Location          string             `json:"location"`
	MarketCap         float64            `json:"marketCap"`
	CEO               string             `json:"ceo"`
	Sentiment         float64            `json:"sentiment"`
	SentimentCategory sentiment.Category `json:"sentimentCategory"`
	LastScraped       string             `json:"lastScraped"`

	Sectors     []Sector `json:"sectors"`
	StockDelta  float64  `json:"stockDelta"`
	IsFollowing bool     `json:"isFollowing"`
}

// CompanyDetails is the full payload behind /company/details: the company
// plus its stocks and related articles.
type CompanyDetails struct {
	Company

	Stocks   []Stock   `json:"stocks"`
	Articles []Article `json:"articles"`
}

type Stock struct {
	Symbol      string    `json:"symbol"`
	CompanyID   int       `json:"companyId"`
	Exchange    string    `json:"exchange"`
	MarketCap   float64   `json:"marketCap"`
	StockPrice  float64   `json:"stockPrice"`
	StockChange float64   `json:"stockChange"`
	StockDay    []float64 `json:"stockDay"`
	StockWeek   []float64 `json:"stockWeek"`
	StockMonth  []float64 `json:"stockMonth"`
	StockYear   []float64 `json:"stockYear"`
}

type Article struct {
	ID                int                `json:"id"`
	Title             string             `json:"title"`
	Publisher         string             `json:"publisher"`
	Published         string             `json:"published"`
	Overview          string             `json:"overview"`
	SentimentScore    float64            `json:"sentimentScore"`
	SentimentCategory sentiment.Category `json:"sentimentCategory"`
	URL               string             `json:"url"`
}

// PublishedTime parses the article's publication timestamp. The zero time is
// returned if the backend sent something unparseable.
func (a Article) PublishedTime() time.Time {
	return parseTime(a.Published)
}

// Notification target types.
const (
	NotificationTargetCompany = 1
	NotificationTargetArticle = 2
)

type Notification struct {
	ID         int    `json:"id"`
	TargetID   int    `json:"targetId"`
	TargetType int    `json:"targetType"`
	Message    string `json:"message"`
	Read       bool   `json:"read"`
	Received   string `json:"received"`
}

func (n Notification) ReceivedTime() time.Time {
	return parseTime(n.Received)
}

type NotificationStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

// SearchFilter narrows a company search. Zero values are omitted from the
// request.
type SearchFilter struct {
	Name         string
	CEO          string
	Sectors      []string
	MarketCapMin float64
	MarketCapMax float64
	SentimentMin float64
	SentimentMax float64
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02-01-2006 15:04",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
