package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/gosimple/slug"
	"github.com/linskybing/scan2cad/internal/domain/upload"
)

// Role is the folder a quotation object lives under.
type Role string

const (
	RoleOriginal  Role = "original"
	RoleInfo      Role = "info"
	RoleCompleted Role = "completed"
	RoleIssued    Role = "issued"
	RoleDocument  Role = "documents"
)

// ObjectKey builds quotations/<id>/<role>/<index>-<slug>.<ext>. The index
// keeps keys unique when two files slug to the same name.
func ObjectKey(quotationID string, role Role, index int, filename string) string {
	ext := upload.Extension(filename)
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	name := slug.Make(base)
	if name == "" {
		name = "file"
	}
	if ext != "" {
		name += "." + ext
	}
	return fmt.Sprintf("quotations/%s/%s/%03d-%s", quotationID, role, index, name)
}

func ContentType(filename string) string {
	if t := mime.TypeByExtension(path.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
