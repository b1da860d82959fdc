package usecases

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"citizen-portal.backend/internal/domain/entities"
	"citizen-portal.backend/internal/domain/schemas"
	"citizen-portal.backend/internal/domain/validation"
)

var hundred = decimal.NewFromInt(100)

// Quote is a priced line item ready for checkout
type Quote struct {
	Description string
	AmountMinor int64
}

// PriceBook maps consultation services to rupee prices. Applications are charged the fee
// declared on their schema.
type PriceBook struct {
	consultations map[entities.Kind]map[string]decimal.Decimal
}

func inr(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// DefaultPriceBook returns the published consultation tariff.
func DefaultPriceBook() *PriceBook {
	return &PriceBook{consultations: map[entities.Kind]map[string]decimal.Decimal{
		entities.KindCAIndividual: {
			"Tax": inr(1999), "Audit": inr(2999), "GST": inr(1499), "Accounting": inr(999), "Business Setup": inr(2499),
		},
		entities.KindCAFirm: {
			"Tax": inr(4999), "Audit": inr(9999), "GST": inr(3499), "Accounting": inr(2999), "Business Setup": inr(5999),
		},
		entities.KindLawyerIndividual: {
			"Civil": inr(2499), "Criminal": inr(3999), "Family": inr(1999), "Property": inr(2999), "Consumer": inr(1499),
		},
		entities.KindLawyerFirm: {
			"Corporate": inr(7999), "Contract": inr(4999), "Intellectual Property": inr(6999),
			"Employment": inr(3999), "Litigation": inr(9999),
		},
	}}
}

// Quote prices a checkout for schema using the submitted form.
func (p *PriceBook) Quote(schema *schemas.Schema, form map[string]any) (*Quote, error) {
	table, consultation := p.consultations[schema.Kind]
	if !consultation {
		if !schema.Fee.IsPositive() {
			return nil, fmt.Errorf("no fee configured for %s", schema.Kind)
		}
		return &Quote{
			Description: schema.Title + " processing fee",
			AmountMinor: toMinor(schema.Fee),
		}, nil
	}

	service := validation.Normalize(form["consultationType"])
	if service == "" {
		return nil, errors.New("consultationType is required")
	}
	price, ok := table[service]
	if !ok {
		return nil, fmt.Errorf("consultationType %q is not offered for %s clients", service, schema.ClientType)
	}
	return &Quote{
		Description: fmt.Sprintf("%s - %s", schema.Title, service),
		AmountMinor: toMinor(price),
	}, nil
}

func toMinor(rupees decimal.Decimal) int64 {
	return rupees.Mul(hundred).Round(0).IntPart()
}
