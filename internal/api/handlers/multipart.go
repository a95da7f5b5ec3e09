package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/domain/upload"
)

func candidateFromHeader(fh *multipart.FileHeader) upload.Candidate {
	return upload.Candidate{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

const multipartMemory = 32 << 20

// parseMultipart reads the request form. Parts beyond multipartMemory spill
// to temporary files; config.MaxUploadBytes caps the whole body when set.
func parseMultipart(c *gin.Context) (*multipart.Form, error) {
	if config.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && err != http.ErrNotMultipart {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	if c.Request.MultipartForm == nil {
		return &multipart.Form{Value: map[string][]string{}, File: map[string][]*multipart.FileHeader{}}, nil
	}
	return c.Request.MultipartForm, nil
}

// formFiles collects files under name and name[].
func formFiles(form *multipart.Form, name string) []upload.Candidate {
	var out []upload.Candidate
	for _, key := range []string{name, name + "[]"} {
		for _, fh := range form.File[key] {
			out = append(out, candidateFromHeader(fh))
		}
	}
	return out
}

func formFile(form *multipart.Form, name string) *upload.Candidate {
	files := formFiles(form, name)
	if len(files) == 0 {
		return nil
	}
	return &files[0]
}

func formValue(form *multipart.Form, name string) string {
	if v := form.Value[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// formJSON decodes a JSON-encoded form field into v. Missing fields leave v
// untouched.
func formJSON(form *multipart.Form, name string, v any) error {
	raw := formValue(form, name)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%s must be valid JSON: %w", name, err)
	}
	return nil
}

var indexedField = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// indexedFiles collects name[0], name[1], ... ordered by index.
func indexedFiles(form *multipart.Form, name string) []upload.Candidate {
	type entry struct {
		idx  int
		cand upload.Candidate
	}
	var entries []entry
	for key, headers := range form.File {
		m := indexedField.FindStringSubmatch(key)
		if m == nil || m[1] != name || len(headers) == 0 {
			continue
		}
		idx, _ := strconv.Atoi(m[2])
		entries = append(entries, entry{idx: idx, cand: candidateFromHeader(headers[0])})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
	out := make([]upload.Candidate, len(entries))
	for i, e := range entries {
		out[i] = e.cand
	}
	return out
}
