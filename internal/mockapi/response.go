package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nyacdn/cdnctl/internal/api"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the {"message": ...} error body shared by every non-2xx
// response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// pageParams reads the page/limit query parameters. Absent parameters fall
// back to page 1, limit 20; limit 0 is the fetch-all sentinel.
func pageParams(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	page, limit = 1, api.DefaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid page parameter")
			return 0, 0, false
		}
		page = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return 0, 0, false
		}
		limit = n
	}
	return page, limit, true
}

// paginate windows a full collection into the shared list envelope.
// limit 0 returns everything as a single page. A page past the end yields an
// empty list, not an error; page_max is ceil(total/limit).
func paginate[T any](all []T, page, limit int) api.ListPage[T] {
	if limit == 0 {
		return api.ListPage[T]{Limit: 0, PageMax: 1, List: all}
	}

	pageMax := (len(all) + limit - 1) / limit
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	if start >= len(all) {
		return api.ListPage[T]{Limit: limit, PageMax: pageMax, List: []T{}}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return api.ListPage[T]{Limit: limit, PageMax: pageMax, List: all[start:end]}
}
