package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleAdmin = "admin"

// User is keyed by email. Everything else the client submitted, name
// included, is kept in Profile and rendered inline.
type User struct {
	ID      primitive.ObjectID     `bson:"_id,omitempty"`
	Email   string                 `bson:"email"`
	Role    string                 `bson:"role,omitempty"`
	Profile map[string]interface{} `bson:",inline"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(u.Profile)+3)
	for k, v := range u.Profile {
		out[k] = v
	}
	if !u.ID.IsZero() {
		out["id"] = u.ID
	}
	out["email"] = u.Email
	if u.Role != "" {
		out["role"] = u.Role
	}
	return json.Marshal(out)
}
