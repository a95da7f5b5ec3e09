package quotation

import (
	"strings"

	"github.com/linskybing/scan2cad/internal/domain/validation"
)

// FormInput is the project metadata submitted with a new request.
type FormInput struct {
	ProjectName     string          `form:"projectName" json:"projectName"`
	Description     string          `form:"description" json:"description"`
	TechnicalInfo   []TechnicalFlag `form:"-" json:"technicalInfo"`
	Deliverables    string          `form:"deliverables" json:"deliverables"`
	Software        string          `form:"software" json:"software"`
	SoftwareVersion string          `form:"softwareVersion" json:"softwareVersion"`
}

var FormRules = []validation.Rule{
	{Field: "projectName", Expr: `!blank(projectName)`, Message: "Project name is required"},
	{Field: "projectName", Expr: `chars(projectName) <= 100`, Message: "Project name must be at most 100 characters"},
	{Field: "description", Expr: `!blank(description)`, Message: "Description is required"},
	{Field: "description", Expr: `chars(description) <= 500`, Message: "Description must be at most 500 characters"},
	{Field: "technicalInfo", Expr: `len(technicalInfo) > 0`, Message: "Select at least one technical option"},
	{Field: "technicalInfo", Expr: `all(technicalInfo, {# in knownFlags})`, Message: "Unknown technical option"},
	{
		Field:   "softwareVersion",
		Expr:    `!("designIntent" in technicalInfo && !blank(software)) || !blank(softwareVersion)`,
		Message: "Select a software version",
	},
}

var formRuleset = validation.MustCompile(FormRules)

func (in FormInput) env() map[string]any {
	flags := make([]string, 0, len(in.TechnicalInfo))
	for _, f := range in.TechnicalInfo {
		flags = append(flags, string(f))
	}
	known := make([]string, 0, len(TechnicalFlags))
	for _, f := range TechnicalFlags {
		known = append(known, string(f))
	}
	return map[string]any{
		"projectName":     in.ProjectName,
		"description":     in.Description,
		"technicalInfo":   flags,
		"knownFlags":      known,
		"deliverables":    in.Deliverables,
		"software":        in.Software,
		"softwareVersion": in.SoftwareVersion,
	}
}

// Validate runs the form rules and returns a field-keyed error map.
func (in FormInput) Validate() validation.Errors {
	return formRuleset.Check(in.env())
}

// ParseTechnicalInfo splits the comma-joined wire form.
func ParseTechnicalInfo(raw string) []TechnicalFlag {
	var out []TechnicalFlag
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, TechnicalFlag(part))
		}
	}
	return out
}

func JoinTechnicalInfo(flags []TechnicalFlag) string {
	parts := make([]string, 0, len(flags))
	for _, f := range flags {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ",")
}
