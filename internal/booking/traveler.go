package booking

import (
	"fmt"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

type TravelerField string

const (
	FieldFullName       TravelerField = "fullName"
	FieldPassportNumber TravelerField = "passportNumber"
	FieldEmail          TravelerField = "email"
	FieldGender         TravelerField = "gender"
)

// TravelerRecord is one passenger's booking-time data. ID is the 1-based
// position of the passenger on the booking.
type TravelerRecord struct {
	ID             int    `json:"id"`
	FullName       string `json:"fullName"`
	PassportNumber string `json:"passportNumber"`
	Email          string `json:"email"`
	Gender         Gender `json:"gender"`
}

// BookingRequest is the payload sent to the booking provider. The flat
// FullName/PassportNumber/Email trio duplicates traveler 0: the provider
// predates multi-passenger bookings and still expects a top-level primary
// contact alongside the passenger list.
type BookingRequest struct {
	Offer     Offer            `json:"flight_offer"`
	Travelers []TravelerRecord `json:"passengers"`

	FullName       string `json:"fullName"`
	PassportNumber string `json:"passportNumber"`
	Email          string `json:"email"`
}

// TravelerForm collects one TravelerRecord per unit of offer capacity.
type TravelerForm struct {
	records []TravelerRecord
}

// NewTravelerForm initializes capacity empty records, gender defaulted to
// MALE. A capacity below one is treated as one.
func NewTravelerForm(capacity int) *TravelerForm {
	if capacity < 1 {
		capacity = 1
	}
	records := make([]TravelerRecord, capacity)
	for i := range records {
		records[i] = TravelerRecord{ID: i + 1, Gender: GenderMale}
	}
	return &TravelerForm{records: records}
}

func (f *TravelerForm) Len() int {
	return len(f.records)
}

// Records returns a copy of the current records.
func (f *TravelerForm) Records() []TravelerRecord {
	out := make([]TravelerRecord, len(f.records))
	copy(out, f.records)
	return out
}

// Update replaces one field of one record.
func (f *TravelerForm) Update(index int, field TravelerField, value string) error {
	if index < 0 || index >= len(f.records) {
		return NewIndexOutOfRangeError(fmt.Sprintf("traveler index %d out of range [0,%d)", index, len(f.records)))
	}
	rec := &f.records[index]
	switch field {
	case FieldFullName:
		rec.FullName = value
	case FieldPassportNumber:
		rec.PassportNumber = value
	case FieldEmail:
		rec.Email = value
	case FieldGender:
		switch Gender(value) {
		case GenderMale, GenderFemale:
			rec.Gender = Gender(value)
		default:
			return NewValidationError("gender must be MALE or FEMALE")
		}
	default:
		return NewValidationError("unknown traveler field " + string(field))
	}
	return nil
}

// Validate reports the indices of records whose full name, passport number
// or email is empty after trimming. An empty result means the form is
// complete.
func (f *TravelerForm) Validate() []int {
	var invalid []int
	for i, rec := range f.records {
		if strings.TrimSpace(rec.FullName) == "" ||
			strings.TrimSpace(rec.PassportNumber) == "" ||
			strings.TrimSpace(rec.Email) == "" {
			invalid = append(invalid, i)
		}
	}
	return invalid
}

// Assemble builds the BookingRequest for the given offer, with the primary
// contact populated from the first traveler. It fails when any record is
// still incomplete.
func (f *TravelerForm) Assemble(offer Offer) (BookingRequest, error) {
	if invalid := f.Validate(); len(invalid) > 0 {
		return BookingRequest{}, NewTravelerValidationError("traveler details are incomplete", invalid)
	}
	primary := f.records[0]
	return BookingRequest{
		Offer:          offer,
		Travelers:      f.Records(),
		FullName:       primary.FullName,
		PassportNumber: primary.PassportNumber,
		Email:          primary.Email,
	}, nil
}
