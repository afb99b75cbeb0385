package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Role определяет категорию пользователя, от которой зависят доступные страницы
type Role string

const (
	RoleNormal     Role = "normal"
	RoleStore      Role = "store"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
	RoleChef       Role = "chef"
	RoleCustomer   Role = "customer"
)

// Roles lists every role the backend knows about.
var Roles = []Role{RoleNormal, RoleStore, RoleRestaurant, RoleAdmin, RoleChef, RoleCustomer}

// ID is an entity identifier. The backend sends numeric ids for some
// entities and string ids for others, so both JSON forms are accepted.
type ID string

// UnmarshalJSON принимает как строку, так и число
func (id *ID) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}
	*id = ID(s)
	return nil
}

// scalarString возвращает JSON строку или число как строку; null дает ""
func scalarString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// String returns the id as used in URL paths.
func (id ID) String() string {
	return string(id)
}

// User представляет пользователя, как его возвращает сервер
type User struct {
	Profile       *Profile `json:"profile,omitempty"`
	ID            ID       `json:"id"`
	Email         string   `json:"email"`
	Role          Role     `json:"role"`
	EmailVerified bool     `json:"email_verified"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Profile != nil {
		p := *u.Profile
		c.Profile = &p
	}
	return &c
}

// Profile содержит персональные данные пользователя
type Profile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Location    string `json:"location"`
	Bio         string `json:"bio"`
	DarkMode    bool   `json:"dark_mode"`
}

// ProfileUpdate is a partial profile update: nil fields are left untouched.
type ProfileUpdate struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Location    *string `json:"location,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	DarkMode    *bool   `json:"dark_mode,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.PhoneNumber == nil &&
		u.Location == nil && u.Bio == nil && u.DarkMode == nil
}

// ProfileUpdateResponse представляет ответ PUT /profile/
type ProfileUpdateResponse struct {
	Message string  `json:"message"`
	Profile Profile `json:"profile"`
}
