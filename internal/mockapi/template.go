package mockapi

import (
	"net/http"

	"github.com/nyacdn/cdnctl/internal/api"
)

func (s *Server) handleTemplateList(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := make([]api.Template, 0)
	for _, tpl := range s.store.templates.list() {
		all = append(all, *tpl)
	}
	writeJSON(w, http.StatusOK, paginate(all, page, limit))
}

func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tpl, ok := s.store.templates.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleTemplateCreate(w http.ResponseWriter, r *http.Request) {
	var input api.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tpl := &api.Template{TemplateInput: input}
	tpl.ID = s.store.templates.add(tpl)
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleTemplateUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input api.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tpl, ok := s.store.templates.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	tpl.TemplateInput = input
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.store.templates.remove(id) {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}
