package story

// Closed vocabularies for node settings and speaker-two roles.
// Model output is never rejected for an out-of-vocabulary value:
// the enricher substitutes the default instead.

const (
	DefaultSetting = "sala"
	DefaultRole    = "familiare"
)

var validSettings = map[string]bool{
	"bagno":    true,
	"camera":   true,
	"città":    true,
	"cucina":   true,
	"ufficio":  true,
	"parco":    true,
	"palestra": true,
	"sala":     true,
}

var validRoles = map[string]bool{
	"amico":      true,
	"collega":    true,
	"familiare":  true,
	"conoscente": true,
	"paziente":   true,
}

// ValidSetting reports whether s belongs to the setting vocabulary.
func ValidSetting(s string) bool {
	return validSettings[s]
}

// ValidRole reports whether r belongs to the speaker-two role vocabulary.
func ValidRole(r string) bool {
	return validRoles[r]
}

// NormalizeSetting returns s unchanged when it is valid, otherwise the
// default setting. The second result reports whether a substitution
// happened.
func NormalizeSetting(s string) (string, bool) {
	if ValidSetting(s) {
		return s, false
	}
	return DefaultSetting, true
}

// NormalizeRole returns r unchanged when it is valid, otherwise the
// default role. The second result reports whether a substitution
// happened.
func NormalizeRole(r string) (string, bool) {
	if ValidRole(r) {
		return r, false
	}
	return DefaultRole, true
}
