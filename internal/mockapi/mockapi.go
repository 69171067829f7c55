// Package mockapi serves a small in-memory imitation of the SoundCloud REST
// API. It backs the client and CLI tests and scripts/mock-server.
package mockapi

import (
	"encoding/xml"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// User is the account returned by /me.
type User struct {
	XMLName     xml.Name `json:"-" xml:"user"`
	ID          int      `json:"id" xml:"id"`
	Username    string   `json:"username" xml:"username"`
	FullName    string   `json:"full_name" xml:"full-name"`
	Description string   `json:"description" xml:"description"`
}

// Track is a single uploaded track.
type Track struct {
	XMLName      xml.Name `json:"-" xml:"track"`
	ID           int      `json:"id" xml:"id"`
	Title        string   `json:"title" xml:"title"`
	Genre        string   `json:"genre" xml:"genre"`
	Sharing      string   `json:"sharing" xml:"sharing"`
	PermalinkURL string   `json:"permalink_url" xml:"permalink-url"`
}

type trackList struct {
	XMLName xml.Name `xml:"tracks"`
	Tracks  []Track  `xml:"track"`
}

type apiError struct {
	XMLName xml.Name `json:"-" xml:"error"`
	Message string   `json:"error_message" xml:"error-message"`
}

// API is the in-memory state behind the router.
type API struct {
	ClientID string
	Token    string

	mu     sync.Mutex
	me     User
	tracks map[int]Track
	nextID int
}

// New returns an API seeded with one user and two tracks. Requests must carry
// clientID; /me and write operations also require token.
func New(clientID, token string) *API {
	return &API{
		ClientID: clientID,
		Token:    token,
		me:       User{ID: 3207, Username: "jwagener", FullName: "Johannes Wagener"},
		tracks: map[int]Track{
			49931: {ID: 49931, Title: "Hybrid Species", Genre: "ambient", Sharing: "public",
				PermalinkURL: "http://soundcloud.com/hybrid-species"},
			13158665: {ID: 13158665, Title: "Munching at Tiannas house", Genre: "field recording", Sharing: "public",
				PermalinkURL: "http://soundcloud.com/alex-stevenson/munching-at-tiannas-house"},
		},
		nextID: 20000000,
	}
}

// Router returns the chi router serving the API.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.GetHead)
	r.Use(a.requireClientID)

	r.Get("/resolve", a.resolve)
	r.Get("/tracks", a.listTracks)
	r.Get("/tracks/{id}", a.getTrack)

	r.Group(func(r chi.Router) {
		r.Use(a.requireToken)
		r.Get("/me", a.getMe)
		r.Put("/me", a.putMe)
		r.Post("/tracks", a.createTrack)
		r.Delete("/tracks/{id}", a.deleteTrack)
	})
	return r
}

func (a *API) requireClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("client_id") != a.ClientID {
			render(w, r, http.StatusUnauthorized, apiError{Message: "401 - Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Token == "" || r.FormValue("oauth_token") != a.Token {
			render(w, r, http.StatusUnauthorized, apiError{Message: "401 - Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) resolve(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.tracks {
		if t.PermalinkURL == target {
			http.Redirect(w, r, "/tracks/"+strconv.Itoa(t.ID)+"?client_id="+a.ClientID, http.StatusFound)
			return
		}
	}
	render(w, r, http.StatusNotFound, apiError{Message: "404 - Not Found"})
}

func (a *API) listTracks(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	a.mu.Lock()
	list := trackList{Tracks: []Track{}}
	for _, t := range a.tracks {
		if q == "" || strings.Contains(strings.ToLower(t.Title+" "+t.Genre), q) {
			list.Tracks = append(list.Tracks, t)
		}
	}
	a.mu.Unlock()

	sort.Slice(list.Tracks, func(i, j int) bool { return list.Tracks[i].ID < list.Tracks[j].ID })
	if wantsXML(r) {
		render(w, r, http.StatusOK, list)
		return
	}
	render(w, r, http.StatusOK, list.Tracks)
}

func (a *API) getTrack(w http.ResponseWriter, r *http.Request) {
	t, ok := a.track(chi.URLParam(r, "id"))
	if !ok {
		render(w, r, http.StatusNotFound, apiError{Message: "404 - Not Found"})
		return
	}
	render(w, r, http.StatusOK, t)
}

func (a *API) deleteTrack(w http.ResponseWriter, r *http.Request) {
	t, ok := a.track(chi.URLParam(r, "id"))
	if !ok {
		render(w, r, http.StatusNotFound, apiError{Message: "404 - Not Found"})
		return
	}

	a.mu.Lock()
	delete(a.tracks, t.ID)
	a.mu.Unlock()
	render(w, r, http.StatusOK, t)
}

func (a *API) createTrack(w http.ResponseWriter, r *http.Request) {
	title := r.PostFormValue("track[title]")
	if title == "" {
		render(w, r, http.StatusUnprocessableEntity, apiError{Message: "track[title] is required"})
		return
	}

	a.mu.Lock()
	a.nextID++
	t := Track{
		ID:      a.nextID,
		Title:   title,
		Genre:   r.PostFormValue("track[genre]"),
		Sharing: valueOr(r.PostFormValue("track[sharing]"), "public"),
	}
	t.PermalinkURL = "http://soundcloud.com/" + a.me.Username + "/" + strconv.Itoa(t.ID)
	a.tracks[t.ID] = t
	a.mu.Unlock()

	w.Header().Set("Location", "/tracks/"+strconv.Itoa(t.ID))
	render(w, r, http.StatusCreated, t)
}

func (a *API) getMe(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	me := a.me
	a.mu.Unlock()
	render(w, r, http.StatusOK, me)
}

func (a *API) putMe(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	if v := r.PostFormValue("user[full_name]"); v != "" {
		a.me.FullName = v
	}
	if v := r.PostFormValue("user[description]"); v != "" {
		a.me.Description = v
	}
	me := a.me
	a.mu.Unlock()
	render(w, r, http.StatusOK, me)
}

func (a *API) track(rawID string) (Track, bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return Track{}, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tracks[id]
	return t, ok
}

func wantsXML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "xml")
}

func render(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsXML(r) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(xml.Header))
		xml.NewEncoder(w).Encode(v)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
