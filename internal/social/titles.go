package social

import (
	"strings"

	"github.com/alexandrarotta/microestado/internal/catalog"
)

// Genders accepted for a leader.
const (
	GenderMale         = "MALE"
	GenderFemale       = "FEMALE"
	GenderOther        = "OTHER"
	GenderPreferNotSay = "PREFER_NOT_SAY"
)

// FallbackTitle is used when the role is unknown.
const FallbackTitle = "Liderazgo"

// RoleTitle returns the title of a role for a gender.
func RoleTitle(role *catalog.Role, gender string) string {
	if role == nil {
		return FallbackTitle
	}
	var title string
	switch gender {
	case GenderOther, GenderPreferNotSay:
		title = role.Labels.Neutral
	case GenderFemale:
		title = role.Labels.Female
	default:
		title = role.Labels.Male
	}
	if title == "" {
		return FallbackTitle
	}
	return title
}

// FormalName builds the official country name from a base name and a state
// type. OTHER uses the custom text, replacing {name} when present.
func FormalName(base string, st *catalog.StateType, custom string) string {
	name := strings.TrimSpace(base)
	if name == "" {
		return ""
	}
	if st == nil || st.ID == "NONE" {
		return name
	}
	if st.ID == "OTHER" {
		custom = strings.TrimSpace(custom)
		switch {
		case custom == "":
			return name
		case strings.Contains(custom, "{name}"):
			return strings.ReplaceAll(custom, "{name}", name)
		default:
			return custom + " de " + name
		}
	}
	return st.Prefix + name
}

// FormatTemplate replaces every {{key}} in tmpl with vars[key]. Unknown
// placeholders are left as they are.
func FormatTemplate(tmpl string, vars map[string]string) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	var b strings.Builder
	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		key := strings.TrimSpace(rest[start+2 : start+end])
		b.WriteString(rest[:start])
		if v, ok := vars[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(rest[start : start+end+2])
		}
		rest = rest[start+end+2:]
	}
	return b.String()
}
