package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBookingJSONKeepsExtraFields(t *testing.T) {
	var b Booking
	err := json.Unmarshal([]byte(`{"treatment":"Checkup","date":"2024-01-01","patient":"a@x.com","slot":"09:00","treatmentId":"abc123","_id":"x"}`), &b)
	require.NoError(t, err)
	assert.Equal(t, "Checkup", b.Treatment)
	assert.Equal(t, "09:00", b.Slot)
	assert.Equal(t, map[string]interface{}{"treatmentId": "abc123"}, b.Extra)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "abc123", out["treatmentId"])
	assert.Equal(t, "a@x.com", out["patient"])
}

func TestBookingJSONKnownFieldsWin(t *testing.T) {
	b := Booking{Treatment: "Checkup", Extra: map[string]interface{}{"treatment": "Other"}}

	data, err := json.Marshal(b)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Checkup", out["treatment"])
}

func TestBookingBSONInlinesExtra(t *testing.T) {
	raw, err := bson.Marshal(Booking{Treatment: "Checkup", Patient: "a@x.com", Extra: map[string]interface{}{"treatmentId": "abc123"}})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "abc123", doc["treatmentId"])
	assert.NotContains(t, doc, "Extra")

	var b Booking
	require.NoError(t, bson.Unmarshal(raw, &b))
	assert.Equal(t, "abc123", b.Extra["treatmentId"])
}

func TestDoctorJSONKeepsProfile(t *testing.T) {
	var d Doctor
	require.NoError(t, json.Unmarshal([]byte(`{"email":"d@x.com","name":"Dr","degree":"MBBS"}`), &d))
	assert.Equal(t, "d@x.com", d.Email)
	assert.Equal(t, map[string]interface{}{"name": "Dr", "degree": "MBBS"}, d.Profile)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "MBBS", out["degree"])
	assert.Equal(t, "d@x.com", out["email"])
}
