package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Doctor is keyed by email; the rest of the roster entry is free-form.
type Doctor struct {
	ID      primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Email   string                 `bson:"email" json:"email"`
	Profile map[string]interface{} `bson:",inline" json:"-"`
}

type doctorFields Doctor

func (d Doctor) MarshalJSON() ([]byte, error) {
	return mergeExtra(doctorFields(d), d.Profile)
}

func (d *Doctor) UnmarshalJSON(data []byte) error {
	var known doctorFields
	profile, err := splitExtra(data, &known, "email")
	if err != nil {
		return err
	}
	known.Profile = profile
	*d = Doctor(known)
	return nil
}
