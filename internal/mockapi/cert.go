package mockapi

import (
	"net/http"
	"time"

	"github.com/nyacdn/cdnctl/internal/api"
)

// renewedValidity is how far out a renewed (or freshly created automatic)
// certificate's expiry is set.
const renewedValidity = 90 * 24 * time.Hour

func (s *Server) handleCertList(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := make([]api.Cert, 0)
	for _, crt := range s.store.certs.list() {
		all = append(all, *crt)
	}
	writeJSON(w, http.StatusOK, paginate(all, page, limit))
}

func (s *Server) handleCertGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	crt, ok := s.store.certs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "cert not found")
		return
	}
	writeJSON(w, http.StatusOK, crt)
}

func (s *Server) handleCertCreate(w http.ResponseWriter, r *http.Request) {
	var input api.CertInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	crt := &api.Cert{
		CertInput: input,
		ExpiresAt: time.Now().Add(renewedValidity).Unix(),
	}
	crt.ID = s.store.certs.add(crt)
	writeJSON(w, http.StatusOK, crt)
}

func (s *Server) handleCertUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input api.CertInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	crt, ok := s.store.certs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "cert not found")
		return
	}
	crt.CertInput = input
	writeJSON(w, http.StatusOK, crt)
}

func (s *Server) handleCertRenew(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	crt, ok := s.store.certs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "cert not found")
		return
	}
	if crt.IsManualMode {
		writeError(w, http.StatusBadRequest, "certificate is manually managed")
		return
	}
	crt.ExpiresAt = time.Now().Add(renewedValidity).Unix()
	writeJSON(w, http.StatusOK, crt)
}

func (s *Server) handleCertDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.store.certs.remove(id) {
		writeError(w, http.StatusNotFound, "cert not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}
