package mockapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nyacdn/cdnctl/internal/api"
)

func (s *Server) handleInstanceList(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := make([]api.Instance, 0)
	for _, rec := range s.store.instances.list() {
		all = append(all, rec.Instance)
	}
	writeJSON(w, http.StatusOK, paginate(all, page, limit))
}

func (s *Server) handleInstanceGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, ok := s.store.instances.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}
	// The agent token is deliberately absent here; it is revealed only by
	// create and rotate-token.
	writeJSON(w, http.StatusOK, rec.Instance)
}

func (s *Server) handleInstanceCreate(w http.ResponseWriter, r *http.Request) {
	var input api.InstanceInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.referencesValid(w, input) {
		return
	}

	rec := &instanceRecord{
		Instance: api.Instance{InstanceInput: input, LastSeen: time.Now().Unix()},
		token:    uuid.NewString(),
	}
	rec.ID = s.store.instances.add(rec)

	writeJSON(w, http.StatusOK, api.InstanceWithToken{Instance: rec.Instance, Token: rec.token})
}

func (s *Server) handleInstanceUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input api.InstanceInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, ok := s.store.instances.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}
	if !s.referencesValid(w, input) {
		return
	}
	rec.InstanceInput = input
	writeJSON(w, http.StatusOK, rec.Instance)
}

func (s *Server) handleInstanceRotateToken(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, ok := s.store.instances.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}
	// The previous token is invalid from this point on.
	rec.token = uuid.NewString()
	writeJSON(w, http.StatusOK, api.InstanceWithToken{Instance: rec.Instance, Token: rec.token})
}

func (s *Server) handleInstanceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.store.instances.remove(id) {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// referencesValid checks the instance's site and additional-file id lists.
// Caller holds the store lock.
func (s *Server) referencesValid(w http.ResponseWriter, input api.InstanceInput) bool {
	for _, siteID := range input.SiteIDs {
		if _, ok := s.store.sites.get(siteID); !ok {
			writeError(w, http.StatusBadRequest, "unknown site id")
			return false
		}
	}
	for _, fileID := range input.AdditionalFileIDs {
		if _, ok := s.store.files.get(fileID); !ok {
			writeError(w, http.StatusBadRequest, "unknown additional file id")
			return false
		}
	}
	return true
}
