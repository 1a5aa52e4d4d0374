package plan

import (
	"github.com/ashokvundavalli/AderantDevops-sub005/resolver"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// CodeChangedUnitUnknown marks a changed unit name that matches no vertex.
const CodeChangedUnitUnknown = "changed-unit-unknown"

// Diagnostic is a non-fatal finding of a planning pass.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
}

func fromIssues(issues []resolver.Issue) []Diagnostic {
	diags := make([]Diagnostic, 0, len(issues))
	for _, is := range issues {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     is.Code,
			Subject:  is.Subject,
			Message:  is.Message,
		})
	}
	return diags
}

func unknownChanges(names []string) []Diagnostic {
	diags := make([]Diagnostic, 0, len(names))
	for _, name := range names {
		diags = append(diags, Diagnostic{
			Severity: SeverityInfo,
			Code:     CodeChangedUnitUnknown,
			Subject:  name,
			Message:  "changed unit " + name + " matches no project or module",
		})
	}
	return diags
}

// unresolved reports whether a diagnostic is about a dropped reference.
func (d Diagnostic) unresolved() bool {
	switch d.Code {
	case resolver.IssueUnresolvedProject, resolver.IssueUnresolvedAssembly,
		resolver.IssueUnresolvedModule, resolver.IssueUnresolvedTemplate:
		return true
	}
	return false
}
