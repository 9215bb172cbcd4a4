package main

import (
	"encoding/json"
	"flag"
	"html/template"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"aaprofile/internal/composition"
	"aaprofile/internal/config"
	"aaprofile/internal/profile"

	"github.com/charmbracelet/log"
)

// ProfileView is the JSON and template shape of one table row.
type ProfileView struct {
	ID       string             `json:"id"`
	Percents map[string]float64 `json:"percents"`
	Values   []float64          `json:"-"`
}

// ProfilesPage is used to render the index page and to carry query state
type ProfilesPage struct {
	Symbols  []string
	Profiles []ProfileView
	Query    string
	Sort     string
	Source   string
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}).Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>aaprofile</title></head>
<body>
<h1>Amino-acid composition</h1>
<p>{{len .Profiles}} records from {{.Source}}</p>
<form method="get"><input name="q" value="{{.Query}}" placeholder="filter identifiers">
<input name="sort" value="{{.Sort}}" placeholder="sort: id or residue"><button>apply</button></form>
<table>
<tr><th>identifier</th>{{range .Symbols}}<th>{{.}}</th>{{end}}</tr>
{{range .Profiles}}<tr><td><a href="/api/profile/{{.ID}}">{{.ID}}</a></td>{{range .Values}}<td>{{pct .}}</td>{{end}}</tr>
{{end}}</table>
</body></html>
`))

// statusResponseWriter captures status and bytes written for logging
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// loggingMiddleware logs each request with method, path, status, size and duration
func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		if srw.status == 0 {
			srw.status = http.StatusOK
		}
		logger.Info("request", "remote", r.RemoteAddr, "method", r.Method, "uri", r.URL.RequestURI(),
			"status", srw.status, "bytes", srw.written, "duration", time.Since(start), "ua", r.UserAgent())
	})
}

func toView(r profile.Row) ProfileView {
	values := r.Profile.Values()
	v := ProfileView{ID: r.ID, Percents: make(map[string]float64, composition.Size), Values: values[:]}
	for i, pct := range values {
		v.Percents[composition.Alphabet[i:i+1]] = pct
	}
	return v
}

// queryProfiles reads the table at path, filters by q (case-insensitive
// substring of the identifier) and sorts by identifier or by a residue's
// percentage, highest first.
func queryProfiles(path, q, sortKey string) ([]ProfileView, error) {
	tbl, err := profile.Load(path)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]ProfileView, 0, tbl.Len())
	for _, r := range tbl.Rows() {
		if q == "" || strings.Contains(strings.ToLower(r.ID), q) {
			out = append(out, toView(r))
		}
	}
	switch {
	case sortKey == "id":
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].ID) < strings.ToLower(out[j].ID) })
	case len(sortKey) == 1 && composition.Index(strings.ToUpper(sortKey)[0]) >= 0:
		sym := strings.ToUpper(sortKey)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Percents[sym] > out[j].Percents[sym] })
	}
	return out, nil
}

func symbols() []string {
	s := make([]string, composition.Size)
	for i := range s {
		s[i] = composition.Alphabet[i : i+1]
	}
	return s
}

func indexHandler(logger *log.Logger, csvPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		q, s := r.URL.Query().Get("q"), r.URL.Query().Get("sort")
		profiles, err := queryProfiles(csvPath, q, s)
		if err != nil {
			logger.Warn("failed to read profile table for index", "path", csvPath, "err", err)
			profiles = []ProfileView{}
		}
		page := ProfilesPage{Symbols: symbols(), Profiles: profiles, Query: q, Sort: s, Source: csvPath}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, page); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// apiProfilesHandler returns the (optionally filtered and sorted) rows as JSON
func apiProfilesHandler(csvPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := queryProfiles(csvPath, r.URL.Query().Get("q"), r.URL.Query().Get("sort"))
		if err != nil {
			http.Error(w, "failed to read profile table", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(profiles)
	}
}

// apiProfileHandler returns JSON for a single identifier
func apiProfileHandler(csvPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/profile/")
		if id == "" {
			http.Error(w, "missing identifier", http.StatusBadRequest)
			return
		}
		tbl, err := profile.Load(csvPath)
		if err != nil {
			http.Error(w, "failed to read profile table", http.StatusInternalServerError)
			return
		}
		for _, row := range tbl.Rows() {
			if row.ID == id {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				_ = json.NewEncoder(w).Encode(toView(row))
				return
			}
		}
		http.Error(w, "profile not found", http.StatusNotFound)
	}
}

func newMux(logger *log.Logger, csvPath string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", indexHandler(logger, csvPath))
	mux.HandleFunc("/api/profiles", apiProfilesHandler(csvPath))
	mux.HandleFunc("/api/profile/", apiProfileHandler(csvPath))
	return loggingMiddleware(logger, mux)
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	csvPath := flag.String("in", config.DefaultOutput, "profile CSV written by aaprofile")
	logFile := flag.String("log", "", "path to write access logs (optional). If empty, logs go to stdout only")
	flag.Parse()

	var out io.Writer = os.Stdout
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal("failed to open log file", "path", *logFile, "err", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "aaprofile-web"})

	srv := &http.Server{Addr: *addr, Handler: newMux(logger, *csvPath), ReadTimeout: 5 * time.Second, WriteTimeout: 10 * time.Second}
	logger.Info("serving profile viewer", "addr", *addr, "csv", *csvPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", "err", err)
	}
}
