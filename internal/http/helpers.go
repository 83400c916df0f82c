package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"saletrack/internal/core"
)

const dateParam = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// parseCriteria builds filter criteria from repeated query parameters.
// Each of owner, status, game and detail may appear multiple times; a
// date range needs both from and to in YYYY-MM-DD form.
func parseCriteria(q url.Values) (core.Criteria, error) {
	c := core.Criteria{
		Owners:     cleanParams(q["owner"]),
		Statuses:   cleanParams(q["status"]),
		Games:      cleanParams(q["game"]),
		DetailTags: cleanParams(q["detail"]),
	}

	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from == "" && to == "" {
		return c, nil
	}
	if from == "" || to == "" {
		return core.Criteria{}, fmt.Errorf("date range needs both from and to")
	}

	fromT, err := time.ParseInLocation(dateParam, from, time.Local)
	if err != nil {
		return core.Criteria{}, fmt.Errorf("invalid from date %q: want YYYY-MM-DD", from)
	}
	toT, err := time.ParseInLocation(dateParam, to, time.Local)
	if err != nil {
		return core.Criteria{}, fmt.Errorf("invalid to date %q: want YYYY-MM-DD", to)
	}
	if toT.Before(fromT) {
		return core.Criteria{}, fmt.Errorf("to date precedes from date")
	}

	c.Created = &core.DateRange{From: fromT, To: toT}
	return c, nil
}

func cleanParams(raw []string) []string {
	var out []string
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// criteriaKey renders criteria as a canonical cache key. Parameter order
// in the URL must not produce distinct cache entries.
func criteriaKey(c core.Criteria) string {
	var b strings.Builder
	writePart := func(label string, vals []string) {
		sorted := append([]string(nil), vals...)
		sort.Strings(sorted)
		b.WriteString(label)
		b.WriteByte('=')
		b.WriteString(strings.Join(sorted, ","))
		b.WriteByte(';')
	}
	writePart("o", c.Owners)
	writePart("s", c.Statuses)
	writePart("g", c.Games)
	writePart("d", c.DetailTags)
	if c.Created != nil {
		fmt.Fprintf(&b, "r=%s..%s;",
			c.Created.From.Format(dateParam), c.Created.To.Format(dateParam))
	}
	return b.String()
}
