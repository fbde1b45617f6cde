// Package patient implements the patient directory: registration of a fixed
// identity keyed by uhid and resolution of that identity for the attachment
// record store. Patients are created once and never edited or deleted.
package patient

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("patient not found")
	ErrDuplicateUHID      = errors.New("patient with this uhid already exists")
	ErrValidation         = errors.New("invalid patient")
	ErrStorageUnavailable = errors.New("patient storage unavailable")
)

// Patient maps to the patient table. UHID is the external unique hospital
// identifier used as the partition key of the attachment stores.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UHID        int64     `db:"uhid" json:"uhid"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Contact     string    `db:"contact" json:"contact"`
	Country     string    `db:"country" json:"country"`
	CountryCode string    `db:"country_code" json:"country_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
