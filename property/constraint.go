package property

import (
	"strings"

	"github.com/dhamidi/confdoc/java"
)

const (
	JakartaConstraints = "jakarta.validation.constraints."
	JavaxConstraints   = "javax.validation.constraints."
)

// Constraint is a Bean Validation constraint annotation.
type Constraint struct {
	*java.Annotation
	// Name is the constraint's simple name. The repeatable container
	// Size.List reports Size with List set.
	Name   string
	List   bool
	Javax  bool
	Source string // qualified annotation type
}

// Constraints returns the jakarta and javax constraint annotations on d.
// Annotations reached through a wildcard import are matched against the
// constraint packages imported by the declaring file.
func Constraints(d Decl) []Constraint {
	var unit *java.Unit
	if c := d.Class(); c != nil {
		unit = c.Unit
	}
	var out []Constraint
	for _, a := range d.Annotations() {
		q := a.Qualified
		if q == "" {
			q = onDemandConstraint(a, unit)
		}
		for _, pkg := range []string{JakartaConstraints, JavaxConstraints} {
			rest, ok := strings.CutPrefix(q, pkg)
			if !ok {
				continue
			}
			name, suffix, _ := strings.Cut(rest, ".")
			out = append(out, Constraint{
				Annotation: a,
				Name:       name,
				List:       suffix == "List",
				Javax:      pkg == JavaxConstraints,
				Source:     q,
			})
		}
	}
	return out
}

func onDemandConstraint(a *java.Annotation, unit *java.Unit) string {
	if unit == nil {
		return ""
	}
	for _, imp := range unit.Imports {
		if !imp.OnDemand || imp.Static {
			continue
		}
		pkg := imp.Name + "."
		if pkg == JakartaConstraints || pkg == JavaxConstraints {
			return pkg + a.Name
		}
	}
	return ""
}

// IsRequired reports whether a NotNull, NotEmpty or NotBlank constraint
// applies to d.
func IsRequired(d Decl) bool {
	for _, c := range Constraints(d) {
		switch c.Name {
		case "NotNull", "NotEmpty", "NotBlank":
			return true
		}
	}
	return false
}
