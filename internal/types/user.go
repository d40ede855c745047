package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the authorization category of an account
type Role string

const (
	RoleUser    Role = "user"
	RoleTrainer Role = "trainer"
)

// Roles lists every valid role in display order
var Roles = []Role{RoleUser, RoleTrainer}

// ParseRole converts a raw string into a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleTrainer:
		return r, nil
	default:
		return "", fmt.Errorf("invalid role: %q (valid options: user, trainer)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so JSON decoding keeps the set closed
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Label returns the human readable name used in forms
func (r Role) Label() string {
	if r == RoleTrainer {
		return "Trainer"
	}
	return "Member"
}

// User is the account profile returned by the auth endpoints
type User struct {
	ID              string   `json:"_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            Role     `json:"role"`
	Qualifications  []string `json:"qualifications,omitempty"`
	Expertise       []string `json:"expertise,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	ProfilePicture  string   `json:"profilePicture,omitempty"`
	VideoIntro      string   `json:"videoIntro,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id" identifiers
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.alias)
	if u.ID == "" {
		u.ID = raw.AltID
	}
	return nil
}

// IsTrainer reports whether the user holds the trainer role
func (u *User) IsTrainer() bool {
	return u != nil && u.Role == RoleTrainer
}

// Trainer is a trainer profile as listed publicly
type Trainer struct {
	User
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// UnmarshalJSON decodes the embedded user and the rating fields separately,
// since the promoted User.UnmarshalJSON would otherwise swallow them.
func (t *Trainer) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &t.User); err != nil {
		return err
	}
	var stats struct {
		AverageRating float64 `json:"averageRating"`
		ReviewCount   int     `json:"reviewCount"`
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return err
	}
	t.AverageRating = stats.AverageRating
	t.ReviewCount = stats.ReviewCount
	return nil
}
