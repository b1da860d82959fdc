// Package schemas declares every application form the portal accepts. One generic
// submission workflow runs against these descriptors.
package schemas

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"citizen-portal.backend/internal/domain/entities"
	"citizen-portal.backend/internal/domain/validation"
)

// ErrUnknownClientType is returned when a consultation names a variant that does not exist.
var ErrUnknownClientType = errors.New("clientType must be one of: Individual, Firm")

// Schema describes the fields, document slots and rules of one collection.
type Schema struct {
	Kind             entities.Kind
	Title            string
	ClientType       entities.ClientType
	Fields           []validation.Field
	Slots            []validation.Slot
	Statuses         []entities.ApplicationStatus
	PhoneField       string
	IdentifierField  string
	DuplicateMessage string
	// Fee is the processing fee in rupees. Consultations are priced by consultation type.
	Fee decimal.Decimal
}

// Validate checks every field and slot and returns the decoded documents together with all
// failure messages.
func (s *Schema) Validate(fields map[string]any, files map[string]any, now time.Time) (map[string]entities.File, []string) {
	errs := validation.ValidateFields(s.Fields, fields, now)
	docs, fileErrs := validation.DecodeFiles(s.Slots, files)
	return docs, append(errs, fileErrs...)
}

// FieldNames lists the declared fields in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// AllowsStatus reports whether status belongs to the schema's vocabulary.
func (s *Schema) AllowsStatus(status entities.ApplicationStatus) bool {
	for _, st := range s.Statuses {
		if st == status {
			return true
		}
	}
	return false
}

// StatusList renders the vocabulary for error messages.
func (s *Schema) StatusList() string {
	out := make([]string, 0, len(s.Statuses))
	for _, st := range s.Statuses {
		out = append(out, string(st))
	}
	return strings.Join(out, ", ")
}

// Declared keeps only the declared fields of input.
func (s *Schema) Declared(input map[string]any) map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if v, ok := input[f.Name]; ok && v != nil {
			out[f.Name] = v
		}
	}
	return out
}

// Contact extracts the unique-indexed values from validated input.
func (s *Schema) Contact(input map[string]any) (email, phone string, identifier null.String) {
	email = strings.ToLower(validation.Normalize(input["email"]))
	if s.PhoneField != "" {
		phone = validation.Normalize(input[s.PhoneField])
	}
	if s.IdentifierField != "" {
		if v := validation.Normalize(input[s.IdentifierField]); v != "" {
			identifier = null.StringFrom(v)
		}
	}
	return email, phone, identifier
}

// ColumnField maps a storage column back to the field name the applicant typed.
func (s *Schema) ColumnField(column string) string {
	switch column {
	case "phone":
		if s.PhoneField != "" {
			return s.PhoneField
		}
	case "identifier":
		if s.IdentifierField != "" {
			return s.IdentifierField
		}
	}
	return column
}

// View projects an application onto the staff-facing shape, listing exactly the declared fields.
func (s *Schema) View(app *entities.Application) entities.ApplicationView {
	fields := make(map[string]any, len(s.Fields))
	for _, name := range s.FieldNames() {
		if v, ok := app.Fields[name]; ok {
			fields[name] = v
		}
	}
	files := make(map[string]entities.File, len(app.Documents))
	for _, slot := range s.Slots {
		if f, ok := app.Documents[slot.Name]; ok {
			files[slot.Name] = f
		}
	}
	return entities.ApplicationView{
		ID:              app.ID.String(),
		Kind:            app.Kind,
		ClientType:      s.ClientType,
		Fields:          fields,
		Files:           files,
		Status:          app.Status,
		PaymentVerified: app.PaymentVerified,
		ApplicationDate: app.ApplicationDate,
	}
}

// Family groups the schemas served by one route family. Consultation families hold an
// Individual and a Firm variant; every other family holds exactly one schema.
type Family struct {
	Slug    string
	Product entities.PaymentProduct
	Schemas []*Schema
}

// Select picks the schema for a submission. An explicit clientType wins; otherwise the
// presence of companySize selects the Firm variant.
func (f *Family) Select(input map[string]any) (*Schema, error) {
	if len(f.Schemas) == 1 {
		return f.Schemas[0], nil
	}
	want := entities.ClientTypeIndividual
	if ct := validation.Normalize(input["clientType"]); ct != "" {
		want = entities.ClientType(ct)
	} else if validation.Normalize(input["companySize"]) != "" {
		want = entities.ClientTypeFirm
	}
	for _, s := range f.Schemas {
		if s.ClientType == want {
			return s, nil
		}
	}
	return nil, ErrUnknownClientType
}

// Kinds lists the collections backing the family.
func (f *Family) Kinds() []entities.Kind {
	out := make([]entities.Kind, 0, len(f.Schemas))
	for _, s := range f.Schemas {
		out = append(out, s.Kind)
	}
	return out
}

// Schema returns the family member stored under kind.
func (f *Family) Schema(kind entities.Kind) (*Schema, bool) {
	for _, s := range f.Schemas {
		if s.Kind == kind {
			return s, true
		}
	}
	return nil, false
}

// Registry indexes families by slug and schemas by kind.
type Registry struct {
	families []*Family
	bySlug   map[string]*Family
	byKind   map[entities.Kind]*Family
}

// NewRegistry builds a registry and rejects duplicate slugs or kinds.
func NewRegistry(families ...*Family) (*Registry, error) {
	r := &Registry{
		bySlug: make(map[string]*Family, len(families)),
		byKind: make(map[entities.Kind]*Family),
	}
	for _, f := range families {
		if _, dup := r.bySlug[f.Slug]; dup {
			return nil, fmt.Errorf("duplicate family slug %q", f.Slug)
		}
		r.bySlug[f.Slug] = f
		for _, s := range f.Schemas {
			if _, dup := r.byKind[s.Kind]; dup {
				return nil, fmt.Errorf("duplicate schema kind %q", s.Kind)
			}
			r.byKind[s.Kind] = f
		}
		r.families = append(r.families, f)
	}
	return r, nil
}

// Families returns the families in registration order.
func (r *Registry) Families() []*Family {
	return r.families
}

// Family looks up a family by its route slug.
func (r *Registry) Family(slug string) (*Family, bool) {
	f, ok := r.bySlug[slug]
	return f, ok
}

// Schema looks up the schema and family stored under kind.
func (r *Registry) Schema(kind entities.Kind) (*Schema, *Family, bool) {
	f, ok := r.byKind[kind]
	if !ok {
		return nil, nil, false
	}
	s, _ := f.Schema(kind)
	return s, f, true
}

// Kinds returns every registered kind, sorted.
func (r *Registry) Kinds() []entities.Kind {
	out := make([]entities.Kind, 0, len(r.byKind))
	for k := range r.byKind {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ResolveCollection maps a client-supplied collection name to server-side kinds. Only an
// exact kind or a family slug is accepted.
func (r *Registry) ResolveCollection(name string) ([]entities.Kind, bool) {
	name = strings.TrimSpace(name)
	if kind, err := entities.ParseKind(name); err == nil {
		if _, ok := r.byKind[kind]; ok {
			return []entities.Kind{kind}, true
		}
	}
	if f, ok := r.bySlug[name]; ok {
		return f.Kinds(), true
	}
	return nil, false
}
