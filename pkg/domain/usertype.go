package domain

// UserType is the single role a profile is created with. A profile's derived
// userTypes set unions this with the types granted by dojo memberships.
type UserType string

const (
	UserTypeAttendeeU13    UserType = "attendee-u13"
	UserTypeAttendeeO13    UserType = "attendee-o13"
	UserTypeParentGuardian UserType = "parent-guardian"
	UserTypeMentor         UserType = "mentor"
	UserTypeChampion       UserType = "champion"
)

// UserTypesByPrecedence orders user types from least to most privileged.
// No algorithm consumes this today; it documents the implicit ordering the
// platform has always assumed.
var UserTypesByPrecedence = []UserType{
	UserTypeAttendeeU13,
	UserTypeAttendeeO13,
	UserTypeParentGuardian,
	UserTypeMentor,
	UserTypeChampion,
}

// InitUserType pairs a selectable registration type with its display title.
type InitUserType struct {
	Title string   `json:"title"`
	Name  UserType `json:"name"`
}

// InitUserTypes lists the types selectable during registration, in display
// order.
func InitUserTypes() []InitUserType {
	return []InitUserType{
		{Title: "Parent/Guardian", Name: UserTypeParentGuardian},
		{Title: "Mentor/Volunteer", Name: UserTypeMentor},
		{Title: "Ninja Over 13", Name: UserTypeAttendeeO13},
		{Title: "Ninja Under 13", Name: UserTypeAttendeeU13},
		{Title: "Champion", Name: UserTypeChampion},
	}
}

// Valid reports whether t is one of the recognized user types.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeAttendeeU13, UserTypeAttendeeO13, UserTypeParentGuardian, UserTypeMentor, UserTypeChampion:
		return true
	}
	return false
}

func (t UserType) String() string { return string(t) }
