package users

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RoleType represents the marketplace role a user signs in as
type RoleType string

const (
	RolePatient   RoleType = "patient"   // Uploads scans, receives treatment plans and clinic offers
	RoleClinic    RoleType = "clinic"    // Prices incoming plans and manages appointments
	RoleRegulator RoleType = "regulator" // Oversees clinics and reads platform statistics
)

var knownRoles = map[RoleType]struct{}{
	RolePatient:   {},
	RoleClinic:    {},
	RoleRegulator: {},
}

// Valid reports whether r is one of the marketplace roles.
func (r RoleType) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

// Profile is the cached identity of the signed-in user.
type Profile struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Role     RoleType    `json:"role"`
	Email    string      `json:"email,omitempty"`
}

// Validate checks the fields required to treat the profile as an identity.
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile is missing an id")
	}
	if _, err := strconv.ParseUint(p.ID.String(), 10, 64); err != nil {
		return fmt.Errorf("profile id %q is not a numeric user id", p.ID)
	}
	if p.Username == "" {
		return fmt.Errorf("profile is missing a username")
	}
	if !p.Role.Valid() {
		return fmt.Errorf("profile has unknown role %q", p.Role)
	}
	return nil
}

// Marshal serializes the profile for the persisted session store.
func (p Profile) Marshal() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Unmarshal parses a profile previously written by Marshal.
func Unmarshal(raw string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
