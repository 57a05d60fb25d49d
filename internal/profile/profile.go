// Package profile defines the profile record, the per-viewer resolved view,
// and the static role catalog that drives field visibility.
package profile

import (
	"dojohub/pkg/domain"
)

// Field names as they appear in stored records and resolved views. The role
// catalog whitelists and the projection in the visibility resolver are all
// keyed by these.
const (
	FieldUserID               = "userId"
	FieldName                 = "name"
	FieldAlias                = "alias"
	FieldEmail                = "email"
	FieldUserType             = "userType"
	FieldUserTypes            = "userTypes"
	FieldParents              = "parents"
	FieldChildren             = "children"
	FieldDojos                = "dojos"
	FieldMyChild              = "myChild"
	FieldLanguagesSpoken      = "languagesSpoken"
	FieldProgrammingLanguages = "programmingLanguages"
	FieldLinkedin             = "linkedin"
	FieldTwitter              = "twitter"
	FieldProjects             = "projects"
	FieldNotes                = "notes"
	FieldBadges               = "badges"

	// Attached to every resolved view, never whitelisted.
	FieldOwnProfileFlag   = "ownProfileFlag"
	FieldResolvedChildren = "resolvedChildren"
)

// Profile is the persisted record describing a platform participant.
// UserType is assigned at creation and never changes; the multi-valued
// userTypes set is derived on every read from dojo memberships and is never
// persisted.
type Profile struct {
	ID                   string          `json:"id,omitempty"`
	UserID               domain.UserID   `json:"userId"`
	UserType             domain.UserType `json:"userType"`
	Name                 string          `json:"name,omitempty"`
	Alias                string          `json:"alias,omitempty"`
	Email                string          `json:"email,omitempty"`
	Parents              []domain.UserID `json:"parents,omitempty"`
	Children             []domain.UserID `json:"children,omitempty"`
	LanguagesSpoken      []string        `json:"languagesSpoken,omitempty"`
	ProgrammingLanguages []string        `json:"programmingLanguages,omitempty"`
	Linkedin             string          `json:"linkedin,omitempty"`
	Twitter              string          `json:"twitter,omitempty"`
	Projects             string          `json:"projects,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	Badges               []string        `json:"badges,omitempty"`
}

// HasParent reports whether userID is among the profile's parents.
func (p *Profile) HasParent(userID domain.UserID) bool {
	for _, parent := range p.Parents {
		if parent == userID {
			return true
		}
	}
	return false
}

// View is a resolved, possibly redacted rendering of a profile keyed by
// field name. Redaction is structural: a field a viewer may not see is
// absent, not blanked.
type View map[string]any

// Pick returns a copy of the view containing only the given fields, skipping
// fields the view does not carry.
func (v View) Pick(fields []string) View {
	out := make(View, len(fields))
	for _, f := range fields {
		if val, ok := v[f]; ok {
			out[f] = val
		}
	}
	return out
}

// UserTypes returns the view's derived userTypes set, or nil when redaction
// removed it.
func (v View) UserTypes() []string {
	types, _ := v[FieldUserTypes].([]string)
	return types
}

// Children returns the view's child id sequence, or nil when redaction
// removed it.
func (v View) Children() []domain.UserID {
	children, _ := v[FieldChildren].([]domain.UserID)
	return children
}

// AsView renders the stored record as an unredacted view. Derived fields
// (userTypes, dojos, myChild, ownProfileFlag) are attached by the resolver,
// not here.
func (p *Profile) AsView() View {
	v := View{
		FieldUserID:   p.UserID,
		FieldUserType: p.UserType,
	}
	putString := func(field, val string) {
		if val != "" {
			v[field] = val
		}
	}
	putString(FieldName, p.Name)
	putString(FieldAlias, p.Alias)
	putString(FieldEmail, p.Email)
	putString(FieldLinkedin, p.Linkedin)
	putString(FieldTwitter, p.Twitter)
	putString(FieldProjects, p.Projects)
	putString(FieldNotes, p.Notes)
	if len(p.Parents) > 0 {
		v[FieldParents] = p.Parents
	}
	if len(p.Children) > 0 {
		v[FieldChildren] = p.Children
	}
	if len(p.LanguagesSpoken) > 0 {
		v[FieldLanguagesSpoken] = p.LanguagesSpoken
	}
	if len(p.ProgrammingLanguages) > 0 {
		v[FieldProgrammingLanguages] = p.ProgrammingLanguages
	}
	if len(p.Badges) > 0 {
		v[FieldBadges] = p.Badges
	}
	return v
}
