package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/linskybing/scan2cad/internal/domain/validation"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidLink     = errors.New("link must start with http:// or https://")
)

// Candidate is a local file staged for upload. Picker selections, dropped
// files and server-side multipart parts all normalize to this shape.
type Candidate struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

func (c Candidate) Extension() string {
	return Extension(c.Name)
}

func (c Candidate) key() string {
	return fmt.Sprintf("%s\x00%d", c.Name, c.Size)
}

func FromPath(path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, err
	}
	if info.IsDir() {
		return Candidate{}, fmt.Errorf("%s is a directory", path)
	}
	return FromFileInfo(filepath.Dir(path), info), nil
}

func FromFileInfo(dir string, info fs.FileInfo) Candidate {
	full := filepath.Join(dir, info.Name())
	return Candidate{
		Name: info.Name(),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(full) },
	}
}

func FromBytes(name string, data []byte) Candidate {
	return Candidate{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Selection is an ordered, de-duplicated list of candidates for one role.
type Selection struct {
	policy  Policy
	items   []Candidate
	preview int
}

func NewSelection(policy Policy) *Selection {
	return &Selection{policy: policy}
}

func (s *Selection) Policy() Policy { return s.policy }

func (s *Selection) Items() []Candidate {
	out := make([]Candidate, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Selection) Len() int { return len(s.items) }

// Add appends candidates not already present by (name, size), including
// repeats inside the batch. Dropped duplicates are reported through notice
// only; they are not an error.
func (s *Selection) Add(cands ...Candidate) (added int, notice string) {
	seen := make(map[string]bool, len(s.items)+len(cands))
	for _, c := range s.items {
		seen[c.key()] = true
	}
	dupes := 0
	for _, c := range cands {
		if seen[c.key()] {
			dupes++
			continue
		}
		seen[c.key()] = true
		s.items = append(s.items, c)
		added++
	}
	switch {
	case dupes == 1:
		notice = "1 duplicate file ignored"
	case dupes > 1:
		notice = fmt.Sprintf("%d duplicate files ignored", dupes)
	}
	return added, notice
}

// Remove drops the item at index and keeps the preview index in range.
func (s *Selection) Remove(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	if index < s.preview {
		s.preview--
	}
	if s.preview >= len(s.items) {
		s.preview = len(s.items) - 1
	}
	if s.preview < 0 {
		s.preview = 0
	}
	return nil
}

// Preview is the index of the file shown in the viewer, or -1 when empty.
func (s *Selection) Preview() int {
	if len(s.items) == 0 {
		return -1
	}
	return s.preview
}

func (s *Selection) SetPreview(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.preview = index
	return nil
}

func (s *Selection) TotalBytes() int64 {
	var n int64
	for _, c := range s.items {
		n += c.Size
	}
	return n
}

// Check returns a message for the first extension violation and the first
// size violation, joined, or "" when every item passes.
func (s *Selection) Check() string {
	var msgs []string
	for _, c := range s.items {
		if err := s.policy.CheckExtension(c.Name); err != nil {
			msgs = append(msgs, fmt.Sprintf("%s has an unsupported file type (allowed: %s)", c.Name, strings.Join(s.policy.AllowedExtensions, ", ")))
			break
		}
	}
	for _, c := range s.items {
		if err := s.policy.CheckSize(c.Name, c.Size); err != nil {
			if errors.Is(err, ErrEmptyFile) {
				msgs = append(msgs, fmt.Sprintf("%s is empty", c.Name))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s exceeds the %s limit", c.Name, FormatBytes(s.policy.MaxBytes)))
			}
			break
		}
	}
	return strings.Join(msgs, "; ")
}

func (s *Selection) Reset() {
	s.items = nil
	s.preview = 0
}

// Mode selects whether a request carries uploaded models or external links.
type Mode string

const (
	ModeFiles Mode = "files"
	ModeLinks Mode = "links"
)

// Session is the local state of a new request before submission. It is
// owned by one view and never shared.
type Session struct {
	Mode   Mode
	Models *Selection
	Info   *Selection
	links  []string
}

func NewSession(policies Policies) *Session {
	return &Session{
		Mode:   ModeFiles,
		Models: NewSelection(policies.For(ContextModel)),
		Info:   NewSelection(policies.For(ContextInfo)),
	}
}

func (s *Session) AddFiles(cands ...Candidate) (int, string) {
	return s.Models.Add(cands...)
}

func (s *Session) RemoveFile(index int) error {
	return s.Models.Remove(index)
}

func (s *Session) AddInfoFiles(cands ...Candidate) (int, string) {
	return s.Info.Add(cands...)
}

func (s *Session) RemoveInfoFile(index int) error {
	return s.Info.Remove(index)
}

func ValidLink(url string) bool {
	u := strings.ToLower(strings.TrimSpace(url))
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func (s *Session) AddLink(url string) error {
	url = strings.TrimSpace(url)
	if !ValidLink(url) {
		return ErrInvalidLink
	}
	s.links = append(s.links, url)
	return nil
}

func (s *Session) RemoveLink(index int) error {
	if index < 0 || index >= len(s.links) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.links = append(s.links[:index], s.links[index+1:]...)
	return nil
}

func (s *Session) Links() []string {
	out := make([]string, len(s.links))
	copy(out, s.links)
	return out
}

// Validate checks the session for the current mode.
func (s *Session) Validate() validation.Errors {
	errs := validation.Errors{}
	switch s.Mode {
	case ModeLinks:
		nonEmpty := 0
		for _, l := range s.links {
			if strings.TrimSpace(l) != "" {
				nonEmpty++
			}
		}
		if nonEmpty == 0 {
			errs.Add("links", "At least one link is required")
		}
	default:
		if s.Models.Len() == 0 {
			errs.Add("files", "At least one file is required")
		} else if msg := s.Models.Check(); msg != "" {
			errs.Add("files", msg)
		}
	}
	if msg := s.Info.Check(); msg != "" {
		errs.Add("infoFiles", msg)
	}
	return errs
}

// Reset discards the session after a successful submit or a cancel.
func (s *Session) Reset() {
	s.Models.Reset()
	s.Info.Reset()
	s.links = nil
	s.Mode = ModeFiles
}
