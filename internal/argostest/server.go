// Package argostest runs an in-process argos server for tests. It renders
// the same action markup as the real front-end and keeps bookmark, watch
// and icon state in memory.
package argostest

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Item is one article served by the fake feed.
type Item struct {
	EventID int
	StoryID int
	Title   string
}

// Source is an admin news source with an icon.
type Source struct {
	ID   int
	Name string
	Icon string
}

// Request is a request the server received.
type Request struct {
	Method        string
	Path          string
	Query         string
	RequestedWith string
	Cookie        string
	UserAgent     string
}

type failure struct {
	status int
	body   string
}

// Server is a fake argos server.
type Server struct {
	*httptest.Server

	// SessionCookie is the cookie name checked when Token is set.
	SessionCookie string
	// Token, when set, is required on every mutating request.
	Token string

	mu        sync.Mutex
	pages     map[int][]Item
	sources   map[int]*Source
	bookmarks map[int]bool
	watches   map[int]bool
	failures  map[string][]failure
	requests  []Request
	uploads   map[int][]byte
}

// New starts a server with two pages of items and one admin source. It is
// closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		SessionCookie: "session",
		pages: map[int][]Item{
			1: {
				{EventID: 1, StoryID: 10, Title: "Flooding in the valley"},
				{EventID: 2, StoryID: 20, Title: "Election results"},
			},
			2: {
				{EventID: 3, StoryID: 30, Title: "Central bank holds rates"},
			},
		},
		sources: map[int]*Source{
			7: {ID: 7, Name: "Wire service", Icon: "/static/icons/default.png"},
		},
		bookmarks: make(map[int]bool),
		watches:   make(map[int]bool),
		failures:  make(map[string][]failure),
		uploads:   make(map[int][]byte),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Get("/", s.handleFeed)
	r.Get("/feed", s.handleFeed)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Post("/bookmark", s.toggle(s.bookmarks, "event_id", true))
		r.Delete("/bookmark", s.toggle(s.bookmarks, "event_id", false))
		r.Post("/watch", s.toggle(s.watches, "story_id", true))
		r.Delete("/watch", s.toggle(s.watches, "story_id", false))
		r.Route("/admin/sources", func(r chi.Router) {
			r.Get("/", s.handleSources)
			r.Post("/{sourceID}/icon", s.handleIcon)
		})
	})
	return r
}

// FailNext makes the next request to path answer status with body.
func (s *Server) FailNext(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], failure{status: status, body: body})
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Bookmarked reports the server-side bookmark state of an event.
func (s *Server) Bookmarked(eventID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks[eventID]
}

// Watching reports the server-side watch state of a story.
func (s *Server) Watching(storyID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watches[storyID]
}

// Uploaded returns the last icon uploaded for a source.
func (s *Server) Uploaded(sourceID int) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[sourceID]
	return data, ok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie := ""
		if c, err := r.Cookie(s.SessionCookie); err == nil {
			cookie = c.Value
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			RequestedWith: r.Header.Get("X-Requested-With"),
			Cookie:        cookie,
			UserAgent:     r.UserAgent(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		queue := s.failures[r.URL.Path]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[r.URL.Path] = queue[1:]
		}
		s.mu.Unlock()

		if f != nil {
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" {
			c, err := r.Cookie(s.SessionCookie)
			if err != nil || c.Value != s.Token {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) toggle(state map[int]bool, param string, on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.URL.Query().Get(param))
		if err != nil {
			http.Error(w, "Missing "+param, http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		state[id] = on
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "{}")
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			http.Error(w, "Bad page", http.StatusBadRequest)
			return
		}
		page = n
	}

	s.mu.Lock()
	items, ok := s.pages[page]
	_, hasNext := s.pages[page+1]
	var b strings.Builder
	b.WriteString(`<html><head><title>The latest events</title></head><body><ul class="articles">`)
	for _, it := range items {
		s.writeItem(&b, it)
	}
	b.WriteString(`</ul>`)
	if hasNext {
		fmt.Fprintf(&b, `<a class="more" data-href="/feed?page=%d" data-mapping="articles">More</a>`, page+1)
	}
	b.WriteString(`</body></html>`)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "No such page", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, b.String())
}

func (s *Server) writeItem(b *strings.Builder, it Item) {
	bookmarked := s.bookmarks[it.EventID]
	watching := s.watches[it.StoryID]

	fmt.Fprintf(b, `<li><article><h2 class="title">%s</h2>`, html.EscapeString(it.Title))
	flagStyle := ` style="display: none"`
	if bookmarked {
		flagStyle = ""
	}
	fmt.Fprintf(b, `<span class="item--bookmark"%s>Bookmarked</span>`, flagStyle)
	writeToggle(b, "/bookmark?event_id="+strconv.Itoa(it.EventID), "bookmark", bookmarked, "Bookmark", "Bookmarked")
	writeToggle(b, "/watch?story_id="+strconv.Itoa(it.StoryID), "watch", watching, "Watch", "Watching")
	b.WriteString(`</article></li>`)
}

func writeToggle(b *strings.Builder, href, mapping string, on bool, offLabel, onLabel string) {
	method, class, label := "POST", "", offLabel
	if on {
		method, class, label = "DELETE", ` class="active"`, onLabel
	}
	fmt.Fprintf(b, `<a href="%s" data-method="%s" data-mapping="%s"%s><span class="action-label">%s</span></a>`,
		html.EscapeString(href), method, mapping, class, label)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var b strings.Builder
	b.WriteString(`<html><head><title>Sources</title></head><body><ul class="sources">`)
	for _, id := range ids {
		src := s.sources[id]
		fmt.Fprintf(&b, `<li><img class="admin-source-icon" data-id="%d" src="%s" alt="%s"></li>`,
			src.ID, html.EscapeString(src.Icon), html.EscapeString(src.Name))
	}
	b.WriteString(`</ul></body></html>`)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, b.String())
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "sourceID"))
	if err != nil {
		http.Error(w, "Bad source", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Unreadable file", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	icon := ""
	src, ok := s.sources[id]
	if ok {
		src.Icon = "/static/icons/" + strconv.Itoa(id) + "/" + header.Filename
		icon = src.Icon
		s.uploads[id] = data
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "No such source", http.StatusNotFound)
		return
	}
	_, _ = io.WriteString(w, icon)
}
