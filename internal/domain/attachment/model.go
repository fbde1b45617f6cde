// Package attachment implements the per-patient categorized attachment
// record store: eleven append-only record categories partitioned into three
// group documents, with short opaque record identifiers, recency-ordered
// reads and single-record lookup.
package attachment

import (
	"fmt"
	"time"
)

// Group names one of the three physical stores a patient owns.
type Group string

const (
	GroupAssessment Group = "assessment"
	GroupDocument   Group = "document"
	GroupOrder      Group = "order"
)

// Category names one attachment type within a patient's record. The values
// double as storage keys, so they must stay stable.
type Category string

const (
	CategoryVitals             Category = "vitals"
	CategoryChiefComplaints    Category = "chiefComplaints"
	CategoryDiagnosis          Category = "diagnosis"
	CategoryPainAssessments    Category = "painAssessments"
	CategoryPrescriptions      Category = "prescriptions"
	CategoryAllergies          Category = "allergies"
	CategoryLabReports         Category = "labReports"
	CategoryDischargeSummaries Category = "dischargeSummaries"
	CategoryMedications        Category = "medications"
	CategoryClinicalOrder      Category = "clinicalOrder"
	CategoryDietOrder          Category = "dietOrder"
)

var groupCategories = map[Group][]Category{
	GroupAssessment: {CategoryVitals, CategoryChiefComplaints, CategoryDiagnosis, CategoryPainAssessments},
	GroupDocument:   {CategoryPrescriptions, CategoryAllergies, CategoryLabReports, CategoryDischargeSummaries},
	GroupOrder:      {CategoryMedications, CategoryClinicalOrder, CategoryDietOrder},
}

var categoryGroup = func() map[Category]Group {
	m := make(map[Category]Group)
	for g, cats := range groupCategories {
		for _, c := range cats {
			m[c] = g
		}
	}
	return m
}()

// URL aliases accepted next to the canonical category names.
var categoryAliases = map[string]Category{
	"chief-complaints":    CategoryChiefComplaints,
	"pain-assessments":    CategoryPainAssessments,
	"lab-reports":         CategoryLabReports,
	"discharge-summaries": CategoryDischargeSummaries,
	"clinical-order":      CategoryClinicalOrder,
	"diet-order":          CategoryDietOrder,
}

// Groups returns the three groups in a stable order.
func Groups() []Group {
	return []Group{GroupAssessment, GroupDocument, GroupOrder}
}

// Categories returns the categories belonging to a group in a stable order.
func Categories(g Group) []Category {
	return groupCategories[g]
}

// GroupOf returns the group that owns a category. The second return is false
// for unknown categories.
func GroupOf(c Category) (Group, bool) {
	g, ok := categoryGroup[c]
	return g, ok
}

// ParseCategory resolves a canonical category name or its URL alias.
func ParseCategory(s string) (Category, error) {
	if _, ok := categoryGroup[Category(s)]; ok {
		return Category(s), nil
	}
	if c, ok := categoryAliases[s]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
}

// Record is one uploaded item with its metadata. Records are append-only:
// CreatedAt is stamped once and never mutated.
type Record struct {
	ID          string `db:"id" json:"id"`
	FileRef     string `db:"file_ref" json:"file_ref"`
	DisplayName string `db:"display_name" json:"display_name"`
	Comment     string `db:"comment" json:"comment,omitempty"`
	UploadedAt  string `db:"uploaded_at" json:"uploaded_at"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
}

// StoreDocument is one of the three per-patient stores: identity attributes
// plus the ordered record sequences of the group's categories.
type StoreDocument struct {
	UHID       int64                 `json:"uhid"`
	Name       string                `json:"name"`
	Email      string                `json:"email"`
	Categories map[Category][]Record `json:"categories"`
}

// NewRecord assembles a new attachment record: it draws an identifier not
// present in existing, stamps the creation instant and derives its display
// rendering. fileRef and displayName are required.
func NewRecord(existing map[string]struct{}, fileRef, displayName, comment string, now time.Time) (Record, error) {
	if fileRef == "" {
		return Record{}, fmt.Errorf("%w: file_ref is required", ErrValidation)
	}
	if displayName == "" {
		return Record{}, fmt.Errorf("%w: display_name is required", ErrValidation)
	}
	id, err := NewID(existing)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:          id,
		FileRef:     fileRef,
		DisplayName: displayName,
		Comment:     comment,
		UploadedAt:  displayDate(now),
		CreatedAt:   now.UnixMilli(),
	}, nil
}

// displayDate renders day/month/year with a zero-based month. The month
// convention is what the existing record viewers parse, so it is kept.
func displayDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month())-1, t.Year())
}
