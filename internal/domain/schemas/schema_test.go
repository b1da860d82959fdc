package schemas

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizen-portal.backend/internal/domain/entities"
)

const jpegDataURL = "data:image/jpeg;base64,/9j/4AAQSkZJRgABAQAAAQABAAD/2wBD"

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func TestDefault_RegistersEveryKind(t *testing.T) {
	r := Default()
	assert.ElementsMatch(t, entities.AllKinds, r.Kinds())
	assert.Len(t, r.Families(), 15)

	for _, f := range r.Families() {
		for _, s := range f.Schemas {
			assert.NotEmpty(t, s.Statuses, s.Kind)
			assert.NotEmpty(t, s.PhoneField, s.Kind)
			assert.NotEmpty(t, s.DuplicateMessage, s.Kind)
			assert.Contains(t, s.FieldNames(), "email", s.Kind)
			if f.Product == entities.ProductApplication {
				assert.True(t, s.Fee.IsPositive(), "fee for %s", s.Kind)
			}
		}
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	a := &Family{Slug: "x", Schemas: []*Schema{{Kind: entities.KindPassport}}}
	b := &Family{Slug: "x", Schemas: []*Schema{{Kind: entities.KindVoterID}}}
	_, err := NewRegistry(a, b)
	assert.Error(t, err)

	c := &Family{Slug: "y", Schemas: []*Schema{{Kind: entities.KindPassport}}}
	_, err = NewRegistry(a, c)
	assert.Error(t, err)
}

func TestFamily_Select(t *testing.T) {
	r := Default()
	lawyer, ok := r.Family("lawyer")
	require.True(t, ok)

	s, err := lawyer.Select(map[string]any{"fullName": "A B"})
	require.NoError(t, err)
	assert.Equal(t, entities.KindLawyerIndividual, s.Kind)

	s, err = lawyer.Select(map[string]any{"companySize": "11-50"})
	require.NoError(t, err)
	assert.Equal(t, entities.KindLawyerFirm, s.Kind)

	s, err = lawyer.Select(map[string]any{"clientType": "Individual", "companySize": "11-50"})
	require.NoError(t, err)
	assert.Equal(t, entities.KindLawyerIndividual, s.Kind)

	_, err = lawyer.Select(map[string]any{"clientType": "Trust"})
	assert.ErrorIs(t, err, ErrUnknownClientType)

	income, _ := r.Family("income-certificate")
	s, err = income.Select(map[string]any{"clientType": "Firm"})
	require.NoError(t, err)
	assert.Equal(t, entities.KindIncomeCertificate, s.Kind)
}

func TestSchema_ValidateIncomeCertificate(t *testing.T) {
	s, _, ok := Default().Schema(entities.KindIncomeCertificate)
	require.True(t, ok)

	docs, errs := s.Validate(map[string]any{
		"fullName":     "A B",
		"email":        "a@b.com",
		"phoneNumber":  "9876543210",
		"address":      "12 Main St",
		"annualIncome": float64(50000),
		"idProofType":  "aadhar",
	}, map[string]any{"photo": jpegDataURL}, now)
	assert.Empty(t, errs)
	assert.Contains(t, docs, "photo")

	_, errs = s.Validate(map[string]any{}, map[string]any{}, now)
	assert.Contains(t, errs, "fullName is required")
	assert.Contains(t, errs, "email is required")
	assert.Contains(t, errs, "photo is required")
}

func TestSchema_ValidateCAIndividual(t *testing.T) {
	s, _, ok := Default().Schema(entities.KindCAIndividual)
	require.True(t, ok)

	input := map[string]any{
		"fullName":         "Asha Rao",
		"email":            "asha@example.com",
		"phone":            "9876543210",
		"panNumber":        "ABCDE1234F",
		"consultationType": "Tax",
		"preferredDate":    "2026-12-01",
		"description":      "Need help filing returns for two years",
	}
	_, errs := s.Validate(input, nil, now)
	assert.Empty(t, errs)

	input["panNumber"] = "abcde1234f"
	input["consultationType"] = "Litigation"
	_, errs = s.Validate(input, nil, now)
	assert.Len(t, errs, 2)
}

func TestSchema_ContactAndView(t *testing.T) {
	s, _, _ := Default().Schema(entities.KindGSTRegistration)

	input := map[string]any{
		"email":       "Owner@Shop.in",
		"phoneNumber": "9876543210",
		"panNumber":   "ABCDE1234F",
		"undeclared":  "dropped",
	}
	email, phone, id := s.Contact(input)
	assert.Equal(t, "owner@shop.in", email)
	assert.Equal(t, "9876543210", phone)
	assert.Equal(t, "ABCDE1234F", id.String)
	assert.Equal(t, "panNumber", s.ColumnField("identifier"))
	assert.Equal(t, "phoneNumber", s.ColumnField("phone"))
	assert.Equal(t, "email", s.ColumnField("email"))

	declared := s.Declared(input)
	assert.NotContains(t, declared, "undeclared")

	app := &entities.Application{
		ID:              uuid.New(),
		Kind:            s.Kind,
		Fields:          declared,
		Documents:       map[string]entities.File{"panCard": {Data: "JVBERi0x", ContentType: "application/pdf"}, "stray": {}},
		Status:          entities.StatusPending,
		ApplicationDate: now,
	}
	view := s.View(app)
	assert.Equal(t, app.ID.String(), view.ID)
	assert.Equal(t, declared, view.Fields)
	assert.Contains(t, view.Files, "panCard")
	assert.NotContains(t, view.Files, "stray")
}

func TestSchema_AllowsStatus(t *testing.T) {
	r := Default()
	income, _, _ := r.Schema(entities.KindIncomeCertificate)
	assert.True(t, income.AllowsStatus(entities.StatusApproved))
	assert.False(t, income.AllowsStatus(entities.StatusProcessing))
	assert.Equal(t, "pending, approved, rejected", income.StatusList())

	passport, _, _ := r.Schema(entities.KindPassport)
	assert.True(t, passport.AllowsStatus(entities.StatusCompleted))
	assert.False(t, passport.AllowsStatus(entities.StatusApproved))
}

func TestRegistry_ResolveCollection(t *testing.T) {
	r := Default()

	kinds, ok := r.ResolveCollection("ca_firm")
	require.True(t, ok)
	assert.Equal(t, []entities.Kind{entities.KindCAFirm}, kinds)

	kinds, ok = r.ResolveCollection("lawyer")
	require.True(t, ok)
	assert.Equal(t, []entities.Kind{entities.KindLawyerIndividual, entities.KindLawyerFirm}, kinds)

	_, ok = r.ResolveCollection("users")
	assert.False(t, ok)
	_, ok = r.ResolveCollection("income_certificate_applications")
	assert.False(t, ok)
}
