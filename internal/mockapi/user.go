package mockapi

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/nyacdn/cdnctl/internal/api"
)

func (s *Server) handleSelfInfo(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user, ok := s.store.users.get(currentUserID(r.Context()))
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, user.User)
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := make([]api.User, 0)
	for _, rec := range s.store.users.list() {
		all = append(all, rec.User)
	}
	writeJSON(w, http.StatusOK, paginate(all, page, limit))
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user, ok := s.store.users.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user.User)
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var input api.UserCreate
	if !decodeJSON(w, r, &input) {
		return
	}

	if input.Username == "" || input.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.userByUsername(input.Username); exists {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash password")
		return
	}

	rec := &userRecord{
		User:         api.User{Name: input.Name, Username: input.Username, IsAdmin: input.IsAdmin},
		passwordHash: hash,
	}
	rec.ID = s.store.users.add(rec)
	writeJSON(w, http.StatusOK, rec.User)
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input api.UserInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user, ok := s.store.users.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	user.Name = input.Name
	writeJSON(w, http.StatusOK, user.User)
}

func (s *Server) handleUserUsername(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input struct {
		Username string `json:"username"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user, ok := s.store.users.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if other, exists := s.store.userByUsername(input.Username); exists && other.ID != id {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}
	user.Username = input.Username
	writeJSON(w, http.StatusOK, user.User)
}

func (s *Server) handleUserPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user, ok := s.store.users.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash password")
		return
	}
	user.passwordHash = hash
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input struct {
		IsAdmin bool `json:"is_admin"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user, ok := s.store.users.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	user.IsAdmin = input.IsAdmin
	writeJSON(w, http.StatusOK, user.User)
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.store.users.remove(id) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	// Invalidate any sessions belonging to the deleted account.
	for token, userID := range s.store.sessions {
		if userID == id {
			delete(s.store.sessions, token)
		}
	}
	w.WriteHeader(http.StatusOK)
}
