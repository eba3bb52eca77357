package farm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Detail is the kind-specific part of an expense. The set of implementations
// is closed: MaterialDetail, LabourDetail and GeneralDetail.
type Detail interface {
	Kind() CategoryKind
	// resolve validates the detail and returns the expense amount, filling in
	// a default where the kind has one.
	resolve(amount decimal.Decimal) (decimal.Decimal, error)
}

type MaterialDetail struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

func (MaterialDetail) Kind() CategoryKind { return KindMaterial }

func (d MaterialDetail) resolve(amount decimal.Decimal) (decimal.Decimal, error) {
	if !d.Quantity.IsPositive() {
		return amount, &FieldError{Field: "quantity", Message: "must be greater than zero"}
	}
	if strings.TrimSpace(d.Unit) == "" {
		return amount, &FieldError{Field: "unit", Message: "is required"}
	}
	return requireAmount(amount)
}

type LabourDetail struct {
	Workers int             `json:"workers"`
	Wage    decimal.Decimal `json:"wage"`
}

func (LabourDetail) Kind() CategoryKind { return KindLabour }

func (d LabourDetail) resolve(amount decimal.Decimal) (decimal.Decimal, error) {
	if d.Workers <= 0 {
		return amount, &FieldError{Field: "workers", Message: "must be greater than zero"}
	}
	if !d.Wage.IsPositive() {
		return amount, &FieldError{Field: "wage", Message: "must be greater than zero"}
	}
	if amount.IsZero() {
		return d.Wage.Mul(decimal.NewFromInt(int64(d.Workers))), nil
	}
	return requireAmount(amount)
}

type GeneralDetail struct {
	Notes string `json:"notes,omitempty"`
}

func (GeneralDetail) Kind() CategoryKind { return KindGeneral }

func (d GeneralDetail) resolve(amount decimal.Decimal) (decimal.Decimal, error) {
	return requireAmount(amount)
}

func requireAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return amount, &FieldError{Field: "amount", Message: "must be greater than zero"}
	}
	return amount, nil
}

// EncodeDetail serializes a detail for storage.
func EncodeDetail(d Detail) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// DecodeDetail restores a detail of the given kind.
func DecodeDetail(kind CategoryKind, data []byte) (Detail, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}
	switch kind {
	case KindMaterial:
		var d MaterialDetail
		err := json.Unmarshal(data, &d)
		return d, err
	case KindLabour:
		var d LabourDetail
		err := json.Unmarshal(data, &d)
		return d, err
	case KindGeneral:
		var d GeneralDetail
		err := json.Unmarshal(data, &d)
		return d, err
	}
	return nil, fmt.Errorf("unknown category kind %q", kind)
}
