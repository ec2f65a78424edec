package users_test

import (
	"testing"

	"github.com/jrsteele09/dental-session-client/users"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	require.True(t, users.RolePatient.Valid())
	require.True(t, users.RoleClinic.Valid())
	require.True(t, users.RoleRegulator.Valid())
	require.False(t, users.RoleType("admin").Valid())
	require.False(t, users.RoleType("").Valid())
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile users.Profile
		wantErr string
	}{
		{"valid", users.Profile{ID: "1", Username: "patient", Role: users.RolePatient}, ""},
		{"missing id", users.Profile{Username: "patient", Role: users.RolePatient}, "missing an id"},
		{"non-numeric id", users.Profile{ID: "abc", Username: "patient", Role: users.RolePatient}, "not a numeric user id"},
		{"negative id", users.Profile{ID: "-4", Username: "patient", Role: users.RolePatient}, "not a numeric user id"},
		{"missing username", users.Profile{ID: "1", Role: users.RolePatient}, "missing a username"},
		{"unknown role", users.Profile{ID: "1", Username: "x", Role: "dentist"}, "unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestProfileMarshalRoundTrip(t *testing.T) {
	p := users.Profile{ID: "42", Username: "clinic1", Role: users.RoleClinic, Email: "c1@example.com"}
	raw, err := p.Marshal()
	require.NoError(t, err)
	require.JSONEq(t, `{"id":42,"username":"clinic1","role":"clinic","email":"c1@example.com"}`, raw)

	got, err := users.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestUnmarshalBackendUser(t *testing.T) {
	got, err := users.Unmarshal(`{"id":7,"username":"regulator","email":"r@example.com","role":"regulator","profile":{"x":1}}`)
	require.NoError(t, err)
	require.Equal(t, "7", got.ID.String())
	require.Equal(t, users.RoleRegulator, got.Role)

	_, err = users.Unmarshal("{not json")
	require.Error(t, err)
}
