package company

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
)

func acme(articleCount int) api.CompanyDetails {
	articles := make([]api.Article, articleCount)
	for i := range articles {
		articles[i] = api.Article{ID: i + 1, Title: "article"}
	}
	return api.CompanyDetails{
		Company: api.Company{ID: 42, Name: "Acme", CEO: "Jo Smith", MarketCap: 1e9},
		Stocks: []api.Stock{{
			Symbol:    "ACME",
			StockDay:  []float64{1, 2, 3},
			StockYear: []float64{3, 2, 1},
		}},
		Articles: articles,
	}
}

func loadDetails(t *testing.T, srv *testServer, details api.CompanyDetails) Details {
	t.Helper()

	srv.server.AddCompany(details)
	m := NewDetails(srv.client, details.ID, 80, 24)
	cmd := m.Init()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Details)
}

func TestDetails_load(t *testing.T) {
	srv := newTestServer(t)
	m := loadDetails(t, srv, acme(2))

	assert.True(t, m.loaded)
	assert.Equal(t, "Acme", m.Title())
	assert.Len(t, m.articles.Items(), 2)
	// 2 of 4 requested articles: exhausted.
	assert.False(t, m.moreArticles)

	view := tui.StripAnsi(m.View())
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "Jo Smith")
	assert.Contains(t, view, "$1B")
}

func TestDetails_loadFailure(t *testing.T) {
	srv := newTestServer(t)
	m := NewDetails(srv.client, 999, 80, 24)
	require.Contains(t, tui.StripAnsi(m.View()), "Loading company...")

	msg := m.Init()()
	require.IsType(t, tui.ErrorMsg{}, msg)
	updated, _ := m.Update(msg)
	m = updated.(Details)

	// The failure reports in the footer; the page renders empty rather
	// than a load that will never finish.
	assert.False(t, m.loaded)
	assert.Equal(t, "", m.View())
}

func TestDetails_viewMoreArticles(t *testing.T) {
	srv := newTestServer(t)
	m := loadDetails(t, srv, acme(6))

	require.Len(t, m.articles.Items(), 4)
	require.True(t, m.moreArticles)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = updated.(Details)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Details)

	// Requested 8, received 6: exhausted.
	assert.Len(t, m.articles.Items(), 6)
	assert.False(t, m.moreArticles)
}

func TestDetails_chartRange(t *testing.T) {
	srv := newTestServer(t)
	m := loadDetails(t, srv, acme(0))

	assert.Contains(t, tui.StripAnsi(m.View()), "range: day")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")})
	m = updated.(Details)
	assert.Contains(t, tui.StripAnsi(m.View()), "range: year")
}

func TestDetails_rawToggle(t *testing.T) {
	srv := newTestServer(t)
	m := loadDetails(t, srv, acme(0))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m = updated.(Details)
	assert.Contains(t, tui.StripAnsi(m.View()), "\"name\"")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m = updated.(Details)
	assert.NotContains(t, tui.StripAnsi(m.View()), "\"name\"")
}

func TestDetails_follow(t *testing.T) {
	srv := newTestServer(t)
	m := loadDetails(t, srv, acme(0))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("F")})
	m = updated.(Details)
	require.NotNil(t, cmd)
	assert.False(t, m.details.IsFollowing)

	updated, _ = m.Update(cmd())
	m = updated.(Details)
	assert.True(t, m.details.IsFollowing)
	assert.Equal(t, []int{42}, srv.server.Followed)
}

func TestDetails_enterOpensArticle(t *testing.T) {
	srv := newTestServer(t)
	m := loadDetails(t, srv, acme(2))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	nav, ok := cmd().(tui.NavigationMsg)
	require.True(t, ok)
	assert.IsType(t, tui.OpenArticleEvent{}, nav.Event)
}

func TestDetails_staleResponseDiscarded(t *testing.T) {
	srv := newTestServer(t)
	srv.server.AddCompany(acme(6))
	m := NewDetails(srv.client, 42, 80, 24)

	first := m.Init()()

	// A reload supersedes the initial load.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Details)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Details)
	require.True(t, m.loaded)

	count := len(m.articles.Items())
	updated, _ = m.Update(first)
	m = updated.(Details)
	assert.Len(t, m.articles.Items(), count)
}
