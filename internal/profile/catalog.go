package profile

// Role catalog: per-role ordered whitelists of fields visible to viewers who
// are neither the profile owner nor a guardian of the profile. attendee-u13
// deliberately has no entry (fully restricted) and parent-guardian has none
// either (unrestricted to self and guardians, nothing public).
//
// The catalog is immutable; it is built once at init and only read after.

var mentorPublicFields = []string{
	FieldName,
	FieldLanguagesSpoken,
	FieldProgrammingLanguages,
	FieldLinkedin,
	FieldTwitter,
	FieldUserTypes,
	FieldDojos,
}

var championPublicFields = []string{
	FieldName,
	FieldLanguagesSpoken,
	FieldProgrammingLanguages,
	FieldLinkedin,
	FieldTwitter,
	FieldUserTypes,
	FieldProjects,
	FieldNotes,
	FieldDojos,
}

var attendeeO13PublicFields = []string{
	FieldAlias,
	FieldLinkedin,
	FieldTwitter,
	FieldBadges,
	FieldUserTypes,
}

var fieldWhitelist = map[string][]string{
	"mentor":       mentorPublicFields,
	"champion":     championPublicFields,
	"attendee-o13": attendeeO13PublicFields,
}

// youthBlacklist names the fields withheld from youth profiles regardless of
// what other roles' whitelists grant.
var youthBlacklist = []string{FieldName}

// YouthBlacklist returns the youth field blacklist.
func YouthBlacklist() []string {
	return youthBlacklist
}

// Whitelist returns the ordered public-field whitelist for a role. Roles
// without an entry expose nothing publicly.
func Whitelist(role string) ([]string, bool) {
	fields, ok := fieldWhitelist[role]
	return fields, ok
}
