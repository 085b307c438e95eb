package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Treatment struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Slots []string           `bson:"slots" json:"slots"`
}

// TreatmentName is the name-only projection of a treatment.
type TreatmentName struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name string             `bson:"name" json:"name"`
}
