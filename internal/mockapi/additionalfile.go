package mockapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/nyacdn/cdnctl/internal/api"
)

// maxUploadSize caps multipart uploads held in memory.
const maxUploadSize = 32 << 20

func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := make([]api.AdditionalFile, 0)
	for _, rec := range s.store.files.list() {
		all = append(all, rec.AdditionalFile)
	}
	writeJSON(w, http.StatusOK, paginate(all, page, limit))
}

func (s *Server) handleFileGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, ok := s.store.files.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "additional file not found")
		return
	}
	writeJSON(w, http.StatusOK, rec.AdditionalFile)
}

func (s *Server) handleFileCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	name := r.FormValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	rec := &fileRecord{
		AdditionalFile: api.AdditionalFile{
			Name:     name,
			Filename: r.FormValue("filename"),
		},
	}

	content, filename, ok := formFile(w, r, "content")
	if !ok {
		return
	}
	if content != nil {
		rec.content = content
		if rec.Filename == "" {
			rec.Filename = filename
		}
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec.ID = s.store.files.add(rec)
	writeJSON(w, http.StatusOK, rec.AdditionalFile)
}

func (s *Server) handleFileUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var input api.AdditionalFileInfo
	if !decodeJSON(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, ok := s.store.files.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "additional file not found")
		return
	}
	rec.Name = input.Name
	if input.Filename != "" {
		rec.Filename = input.Filename
	}
	writeJSON(w, http.StatusOK, rec.AdditionalFile)
}

func (s *Server) handleFileReplace(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	content, _, ok := formFile(w, r, "content")
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, ok := s.store.files.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "additional file not found")
		return
	}
	if content != nil {
		rec.content = content
	}
	writeJSON(w, http.StatusOK, rec.AdditionalFile)
}

func (s *Server) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	rec, ok := s.store.files.get(id)
	if !ok {
		s.store.mu.Unlock()
		writeError(w, http.StatusNotFound, "additional file not found")
		return
	}
	content := rec.content
	filename := rec.Filename
	if filename == "" {
		filename = rec.Name
	}
	s.store.mu.Unlock()
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (s *Server) handleFileDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.store.files.remove(id) {
		writeError(w, http.StatusNotFound, "additional file not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// formFile reads an optional multipart file part. A missing part is not an
// error; it returns nil content.
func formFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "read uploaded file: "+err.Error())
		return nil, "", false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read uploaded file: "+err.Error())
		return nil, "", false
	}
	return content, header.Filename, true
}
