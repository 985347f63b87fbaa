package mockapi

import (
	"net/http"

	"github.com/nyacdn/cdnctl/internal/api"
)

func (s *Server) handleSiteList(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := make([]api.Site, 0)
	for _, site := range s.store.sites.list() {
		all = append(all, *site)
	}
	writeJSON(w, http.StatusOK, paginate(all, page, limit))
}

func (s *Server) handleSiteGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	site, ok := s.store.sites.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleSiteCreate(w http.ResponseWriter, r *http.Request) {
	var input api.SiteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.siteInputValid(w, input) {
		return
	}

	site := &api.Site{SiteInput: input}
	site.ID = s.store.sites.add(site)
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleSiteUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input api.SiteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	site, ok := s.store.sites.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}
	if !s.siteInputValid(w, input) {
		return
	}
	site.SiteInput = input
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleSiteDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.store.sites.remove(id) {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// siteInputValid enforces the site's referential rules: the template must
// exist, the variable values must match its declared slots one-to-one, and a
// referenced cert must exist. Caller holds the store lock.
func (s *Server) siteInputValid(w http.ResponseWriter, input api.SiteInput) bool {
	tpl, ok := s.store.templates.get(input.TemplateID)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown template id")
		return false
	}
	if len(input.TemplateValues) != len(tpl.Variables) {
		writeError(w, http.StatusBadRequest, "template variable count mismatch")
		return false
	}
	if input.CertID != nil {
		if _, ok := s.store.certs.get(*input.CertID); !ok {
			writeError(w, http.StatusBadRequest, "unknown cert id")
			return false
		}
	}
	return true
}
