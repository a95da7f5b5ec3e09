package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Context names an upload endpoint. Each context has its own policy.
type Context string

const (
	ContextModel     Context = "model"
	ContextInfo      Context = "info"
	ContextCompleted Context = "completed"
	ContextIssued    Context = "issued"
	ContextDocument  Context = "document"
)

const (
	KiB int64 = 1 << 10
	MiB       = KiB << 10
	GiB       = MiB << 10
)

var (
	ErrExtensionNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file too large")
	ErrEmptyFile           = errors.New("file is empty")
)

// Policy is the acceptance rule for one upload context.
type Policy struct {
	Context           Context  `yaml:"-"`
	AllowedExtensions []string `yaml:"extensions"`
	MaxBytes          int64    `yaml:"max_bytes"`
}

var cadExports = []string{"step", "stp", "iges", "igs", "x_t", "sldprt", "dwg", "dxf", "stl", "obj", "ply", "zip", "3dm", "f3d"}

// DefaultPolicies are the limits each endpoint enforces.
func DefaultPolicies() Policies {
	return Policies{
		ContextModel: {
			Context:           ContextModel,
			AllowedExtensions: []string{"stl", "ply", "obj"},
			MaxBytes:          5 * GiB,
		},
		ContextInfo: {
			Context:           ContextInfo,
			AllowedExtensions: []string{"pdf", "doc", "docx", "xls", "xlsx", "csv", "txt", "jpg", "jpeg", "png", "zip"},
			MaxBytes:          50 * MiB,
		},
		ContextCompleted: {
			Context:           ContextCompleted,
			AllowedExtensions: cadExports,
			MaxBytes:          1 * GiB,
		},
		ContextIssued: {
			Context:           ContextIssued,
			AllowedExtensions: cadExports,
			MaxBytes:          1 * GiB,
		},
		ContextDocument: {
			Context:           ContextDocument,
			AllowedExtensions: []string{"pdf", "doc", "docx", "xls", "xlsx", "png", "jpg", "jpeg"},
			MaxBytes:          10 * MiB,
		},
	}
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func (p Policy) Allows(name string) bool {
	ext := Extension(name)
	for _, allowed := range p.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// CheckExtension and CheckSize report the first violation for name.
func (p Policy) CheckExtension(name string) error {
	if !p.Allows(name) {
		return fmt.Errorf("%w: %s (allowed: %s)", ErrExtensionNotAllowed, name, strings.Join(p.AllowedExtensions, ", "))
	}
	return nil
}

func (p Policy) CheckSize(name string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return fmt.Errorf("%w: %s exceeds the %s limit", ErrFileTooLarge, name, FormatBytes(p.MaxBytes))
	}
	return nil
}

func (p Policy) Check(name string, size int64) error {
	if err := p.CheckExtension(name); err != nil {
		return err
	}
	return p.CheckSize(name, size)
}

type Policies map[Context]Policy

// For returns the policy of ctx. Unknown contexts accept nothing.
func (ps Policies) For(ctx Context) Policy {
	if p, ok := ps[ctx]; ok {
		return p
	}
	return Policy{Context: ctx}
}

// LoadPolicies overlays YAML overrides on the defaults:
//
//	model:
//	  extensions: [stl, ply, obj, e57]
//	  max_bytes: 10737418240
func LoadPolicies(r io.Reader) (Policies, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	overrides := map[Context]Policy{}
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse upload policy: %w", err)
	}

	policies := DefaultPolicies()
	for ctx, o := range overrides {
		p := policies.For(ctx)
		p.Context = ctx
		if len(o.AllowedExtensions) > 0 {
			exts := make([]string, 0, len(o.AllowedExtensions))
			for _, e := range o.AllowedExtensions {
				exts = append(exts, strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), ".")))
			}
			p.AllowedExtensions = exts
		}
		if o.MaxBytes > 0 {
			p.MaxBytes = o.MaxBytes
		}
		policies[ctx] = p
	}
	return policies, nil
}

// LoadPolicyFile reads overrides from path; an empty path yields the defaults.
func LoadPolicyFile(path string) (Policies, error) {
	if path == "" {
		return DefaultPolicies(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadPolicies(f)
}

func FormatBytes(n int64) string {
	switch {
	case n >= GiB && n%GiB == 0:
		return fmt.Sprintf("%dGB", n/GiB)
	case n >= GiB:
		return fmt.Sprintf("%.1fGB", float64(n)/float64(GiB))
	case n >= MiB && n%MiB == 0:
		return fmt.Sprintf("%dMB", n/MiB)
	case n >= MiB:
		return fmt.Sprintf("%.1fMB", float64(n)/float64(MiB))
	case n >= KiB:
		return fmt.Sprintf("%dKB", n/KiB)
	}
	return fmt.Sprintf("%dB", n)
}
