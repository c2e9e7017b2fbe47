package manager

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
)

type uploadResponse struct {
	Files []string `json:"files"`
}

// handleUpload stores every file of a multipart upload in the uploads
// directory, keeping only the base name the client sent.
func (m *Manager) handleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reader, err := r.MultipartReader()
		if err != nil {
			m.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		err = os.MkdirAll(m.uploadsDir, 0755)
		if err != nil {
			m.log.Errorf("Could not create uploads directory: %v", err)
			m.jsonError(w, "Could not create uploads directory", http.StatusInternalServerError)
			return
		}

		res := &uploadResponse{Files: []string{}}

		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}

			if err != nil {
				m.jsonError(w, err.Error(), http.StatusBadRequest)
				return
			}

			if part.FileName() == "" {
				continue
			}

			name := filepath.Base(part.FileName())
			if name == "." || name == ".." || name == string(filepath.Separator) {
				m.jsonError(w, "Invalid file name", http.StatusBadRequest)
				return
			}

			err = m.store(name, part)
			if err != nil {
				m.log.Errorf("Could not store upload %v: %v", name, err)
				m.jsonError(w, "Could not store file", http.StatusInternalServerError)
				return
			}

			m.log.Debugf("File uploaded: %v", name)

			res.Files = append(res.Files, name)
		}

		if len(res.Files) == 0 {
			m.jsonError(w, "No file name provided", http.StatusBadRequest)
			return
		}

		m.jsonResponse(w, res, http.StatusOK)
	}
}

func (m *Manager) store(name string, r io.Reader) error {
	f, err := os.Create(filepath.Join(m.uploadsDir, name))
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
