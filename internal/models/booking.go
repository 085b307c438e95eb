package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Booking is one patient's reservation of one slot of a treatment on a date.
// A patient holds at most one booking per treatment per day. Whatever else
// the client sends (treatmentId, patientName, phone...) is kept in Extra and
// stored and rendered inline.
type Booking struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Treatment string                 `bson:"treatment" json:"treatment"`
	Date      string                 `bson:"date" json:"date"`
	Patient   string                 `bson:"patient" json:"patient"` // patient email
	Slot      string                 `bson:"slot" json:"slot"`
	Extra     map[string]interface{} `bson:",inline" json:"-"`
}

type bookingFields Booking

func (b Booking) MarshalJSON() ([]byte, error) {
	return mergeExtra(bookingFields(b), b.Extra)
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	var known bookingFields
	extra, err := splitExtra(data, &known, "treatment", "date", "patient", "slot")
	if err != nil {
		return err
	}
	known.Extra = extra
	*b = Booking(known)
	return nil
}
