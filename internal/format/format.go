// Package format renders the outbound log line from an operator-supplied
// template. Templates reference a fixed field table by name ({status},
// {host}, ...); they can never reach into the underlying values, so a
// hostile or typo'd template cannot disclose internals or crash the run.
package format

import (
	"fmt"
	"strings"
)

// DefaultTemplate is used when no custom log format is configured.
const DefaultTemplate = "status={status} action={action} changed={changed} play={playbook} role={role} host={host} name={name}"

// FormatError reports a template placeholder using disallowed syntax.
// It is a static operator misconfiguration and should fail the run fast.
type FormatError struct {
	Placeholder string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format: placeholder %q contains disallowed characters (. [ ()", e.Placeholder)
}

// Fields is the fixed set of values a template may reference. All values
// are already-resolved strings; a missing source value is the empty string.
type Fields struct {
	Action   string
	Changed  string
	Host     string
	Playbook string
	Role     string
	Status   string
	Name     string
}

func (f Fields) lookup(name string) string {
	switch name {
	case "action":
		return f.Action
	case "changed":
		return f.Changed
	case "host":
		return f.Host
	case "playbook":
		return f.Playbook
	case "role":
		return f.Role
	case "status":
		return f.Status
	case "name":
		return f.Name
	}
	// Unknown placeholders render as empty rather than failing the run.
	return ""
}

// Render substitutes {name} placeholders in template with values from f
// and returns the result trimmed of surrounding whitespace. {{ and }}
// are literal braces. A placeholder containing '.', '[' or '(' returns a
// *FormatError: those forms express attribute or index traversal, which
// this renderer exists to forbid.
func Render(template string, f Fields) (string, error) {
	var b strings.Builder
	s := template
	for len(s) > 0 {
		i := strings.IndexAny(s, "{}")
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		s = s[i:]

		switch {
		case strings.HasPrefix(s, "{{"):
			b.WriteByte('{')
			s = s[2:]
		case strings.HasPrefix(s, "}}"):
			b.WriteByte('}')
			s = s[2:]
		case s[0] == '}':
			// Stray closing brace: emit literally.
			b.WriteByte('}')
			s = s[1:]
		default:
			j := strings.IndexByte(s, '}')
			if j < 0 {
				// Unterminated placeholder: emit the rest literally.
				b.WriteString(s)
				s = ""
				break
			}
			name := s[1:j]
			if strings.ContainsAny(name, ".[(") {
				return "", &FormatError{Placeholder: name}
			}
			b.WriteString(f.lookup(name))
			s = s[j+1:]
		}
	}
	return strings.TrimSpace(b.String()), nil
}
