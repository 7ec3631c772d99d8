// Package apitest provides an in-memory fixture backend for tests, speaking
// the same routes and envelopes as the real service.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/finchtui/finch/internal/api"
)

const sessionCookie = "finch_session"

// Server is a fake backend. Mutate its fixture fields before (or between)
// requests; access is serialized internally.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Accounts maps email -> password for accounts that can log in.
	Accounts map[string]string
	// User is returned for any authenticated identity request.
	User api.User

	Companies     map[int]api.CompanyDetails
	Popular       []api.Company
	ForYou        []api.Company
	Following     []api.Company
	SearchResults []api.Company
	Recent        []api.Article
	Articles      map[int]api.Article
	Notifications []api.Notification
	Stats         api.NotificationStats
	Sectors       []api.Sector

	// FailLogout makes /auth/logout respond with a 500.
	FailLogout bool
	// Followed records ids passed to /company/follow, Unfollowed likewise.
	Followed   []int
	Unfollowed []int
	MarkedRead []int
}

func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		Accounts:  map[string]string{"bob@example.com": "hunter2"},
		User:      api.User{ID: 1, Name: "Bob", Email: "bob@example.com"},
		Companies: make(map[int]api.CompanyDetails),
		Articles:  make(map[int]api.Article),
	}

	r := chi.NewRouter()

	r.Post("/auth/login", s.login)
	r.Get("/auth/get", s.authed(s.currentUser))
	r.Get("/auth/logout", s.authed(s.logout))
	r.Post("/user/create", s.createAccount)

	r.Post("/company/details", s.authed(s.companyDetails))
	r.Post("/company/follow", s.authed(s.follow))
	r.Post("/company/unfollow", s.authed(s.unfollow))
	r.Post("/company/following", s.authed(s.listJSON(func() any { return s.Following })))
	r.Post("/company/popular", s.authed(s.counted(func() []api.Company { return s.Popular })))
	r.Post("/company/search", s.authed(s.listJSON(func() any { return s.SearchResults })))
	r.Post("/user/for-you", s.authed(s.counted(func() []api.Company { return s.ForYou })))

	r.Get("/news/recent", s.authed(s.listJSON(func() any { return s.Recent })))
	r.Post("/news/article", s.authed(s.article))

	r.Get("/user/notifications", s.authed(s.listJSON(func() any { return s.Notifications })))
	r.Get("/user/notification-stats", s.authed(s.listJSON(func() any { return s.Stats })))
	r.Post("/notification/mark-as-read", s.authed(s.markAsRead))
	r.Post("/notification/read-all", s.authed(s.readAll))

	r.Get("/user/sectors/get", s.authed(s.listJSON(func() any { return s.Sectors })))
	r.Post("/user/sectors/add", s.authed(s.addSector))
	r.Post("/user/sectors/remove", s.authed(s.removeSector))
	r.Post("/user/change-name", s.authed(s.changeName))
	r.Post("/user/change-password", s.authed(s.changePassword))
	r.Post("/user/delete", s.authed(s.deleteAccount))

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddCompany registers a company for /company/details and returns it.
func (s *Server) AddCompany(details api.CompanyDetails) api.CompanyDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Companies[details.ID] = details
	return details
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessionCookie); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := r.PostFormValue("email")
	if password, ok := s.Accounts[email]; !ok || password != r.PostFormValue("password") {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: email, Path: "/"})
	writeJSON(w, s.User)
}

func (s *Server) currentUser(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.User)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	if s.FailLogout {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, MaxAge: -1, Path: "/"})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := r.PostFormValue("email")
	if _, exists := s.Accounts[email]; exists {
		writeJSON(w, map[string]any{"error": true, "message": "An account with this email already exists"})
		return
	}
	s.Accounts[email] = r.PostFormValue("password")
	user := api.User{ID: 99, Name: r.PostFormValue("name"), Email: email}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: email, Path: "/"})
	writeJSON(w, map[string]any{"error": false, "user": user})
}

func (s *Server) companyDetails(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PostFormValue("id"))
	details, ok := s.Companies[id]
	if !ok {
		writeJSON(w, map[string]any{"error": true, "message": "No such company"})
		return
	}
	if count, _ := strconv.Atoi(r.PostFormValue("articleCount")); count > 0 && count < len(details.Articles) {
		details.Articles = details.Articles[:count]
	}
	writeJSON(w, map[string]any{"error": false, "data": details})
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PostFormValue("id"))
	s.Followed = append(s.Followed, id)
	writeJSON(w, map[string]any{"error": false})
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PostFormValue("id"))
	s.Unfollowed = append(s.Unfollowed, id)
	writeJSON(w, map[string]any{"error": false})
}

func (s *Server) article(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PostFormValue("id"))
	article, ok := s.Articles[id]
	if !ok {
		writeJSON(w, map[string]any{"error": true, "message": "No such article"})
		return
	}
	writeJSON(w, map[string]any{"error": false, "data": article})
}

func (s *Server) markAsRead(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PostFormValue("id"))
	s.MarkedRead = append(s.MarkedRead, id)
	for i := range s.Notifications {
		if s.Notifications[i].ID == id {
			s.Notifications[i].Read = true
		}
	}
	writeJSON(w, map[string]any{"error": false})
}

func (s *Server) readAll(w http.ResponseWriter, _ *http.Request) {
	for i := range s.Notifications {
		s.Notifications[i].Read = true
	}
	s.Stats.Unread = 0
	writeJSON(w, map[string]any{"error": false})
}

func (s *Server) addSector(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PostFormValue("id"))
	sector := api.Sector{ID: id, Name: "Sector " + strconv.Itoa(id)}
	s.Sectors = append(s.Sectors, sector)
	writeJSON(w, map[string]any{"error": false, "sector": sector})
}

func (s *Server) deleteAccount(w http.ResponseWriter, _ *http.Request) {
	s.Accounts = map[string]string{}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, MaxAge: -1, Path: "/"})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) removeSector(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PostFormValue("id"))
	kept := s.Sectors[:0]
	for _, sector := range s.Sectors {
		if sector.ID != id {
			kept = append(kept, sector)
		}
	}
	s.Sectors = kept
	writeJSON(w, map[string]any{"error": false})
}

func (s *Server) changeName(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	if name == "" {
		writeJSON(w, map[string]any{"error": true, "message": "A name must be provided"})
		return
	}
	s.User.Name = name
	writeJSON(w, map[string]any{"error": false, "user": s.User})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue("newPassword") != r.PostFormValue("repeatNewPassword") {
		writeJSON(w, map[string]any{"error": true, "message": "New passwords are not equal"})
		return
	}
	writeJSON(w, map[string]any{"error": false})
}

// counted returns the first `count` items of a company fixture list.
func (s *Server) counted(items func() []api.Company) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companies := items()
		if count, _ := strconv.Atoi(r.PostFormValue("count")); count > 0 && count < len(companies) {
			companies = companies[:count]
		}
		writeJSON(w, companies)
	}
}

func (s *Server) listJSON(value func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		v := value()
		if v == nil {
			v = []any{}
		}
		writeJSON(w, v)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
