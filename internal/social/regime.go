// Package social classifies leader roles into political regimes and builds
// the titles and formal names shown to the player.
package social

// Regime groups leader roles for regime-gated content.
type Regime string

const (
	Democracy     Regime = "DEMOCRACY"
	Monarchy      Regime = "MONARCHY"
	Authoritarian Regime = "AUTHORITARIAN"
)

var democraticRoles = map[string]bool{
	"PRESIDENT":       true,
	"PRIME_MINISTER":  true,
	"KING_PARLIAMENT": true,
	"CHANCELLOR":      true,
}

var authoritarianRoles = map[string]bool{
	"DICTATOR":       true,
	"SUPREME_LEADER": true,
	"DICTATORSHIP":   true,
}

var monarchyRoles = map[string]bool{
	"KING_ABSOLUTE":   true,
	"KING_PARLIAMENT": true,
}

// IsDemocratic reports whether the role faces elections.
func IsDemocratic(roleID string) bool { return democraticRoles[roleID] }

// IsAuthoritarian reports whether the role rules by decree.
func IsAuthoritarian(roleID string) bool { return authoritarianRoles[roleID] }

// IsMonarchy reports whether the role wears a crown.
func IsMonarchy(roleID string) bool { return monarchyRoles[roleID] }

// CabinetGroup returns the advisor group of a role. Democratic roles win
// over monarchy, so a parliamentary king keeps a democratic cabinet.
func CabinetGroup(roleID string) Regime {
	switch {
	case democraticRoles[roleID]:
		return Democracy
	case monarchyRoles[roleID]:
		return Monarchy
	default:
		return Authoritarian
	}
}

// DecreeCatalog names the Level-2 decree catalog a role draws from.
type DecreeCatalog string

const (
	DecreesDemocracy     DecreeCatalog = "democracy"
	DecreesAuthoritarian DecreeCatalog = "authoritarian"
	DecreesNeutral       DecreeCatalog = "neutral"
)

// DecreeCatalogFor selects the Level-2 decree catalog for a role.
func DecreeCatalogFor(roleID string) DecreeCatalog {
	switch {
	case democraticRoles[roleID]:
		return DecreesDemocracy
	case authoritarianRoles[roleID]:
		return DecreesAuthoritarian
	default:
		return DecreesNeutral
	}
}
