package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func requireDate(field string, zero bool) error {
	if zero {
		return invalid(field, "is required")
	}
	return nil
}

func requireName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid(field, "is required")
	}
	return nil
}

func requirePositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

func requireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}

func validateItems(items []LineItem) error {
	if len(items) == 0 {
		return invalid("items", "at least one item is required")
	}
	for i, item := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if err := requireName(prefix+".name", item.Name); err != nil {
			return err
		}
		if err := requirePositive(prefix+".qty", item.Qty); err != nil {
			return err
		}
		if err := requireNonNegative(prefix+".price", item.Price); err != nil {
			return err
		}
	}
	return nil
}

func (s Sale) Validate() error {
	if err := requireDate("date", s.Date.IsZero()); err != nil {
		return err
	}
	return validateItems(s.Items)
}

func (p ProductionEntry) Validate() error {
	if err := requireDate("date", p.Date.IsZero()); err != nil {
		return err
	}
	if err := requireName("item", p.Item); err != nil {
		return err
	}
	if err := requirePositive("qty", p.Qty); err != nil {
		return err
	}
	return requireNonNegative("packedQty", p.PackedQty)
}

func (e Expense) Validate() error {
	if err := requireDate("date", e.Date.IsZero()); err != nil {
		return err
	}
	if err := requireName("category", e.Category); err != nil {
		return err
	}
	if err := requireNonNegative("amount", e.Amount); err != nil {
		return err
	}
	if e.IsRawMaterialPurchase() {
		if err := requireName("materialName", e.MaterialName); err != nil {
			return err
		}
		return requirePositive("quantity", e.Quantity)
	}
	return requireNonNegative("quantity", e.Quantity)
}

func (u UsageEntry) Validate() error {
	if err := requireDate("date", u.Date.IsZero()); err != nil {
		return err
	}
	if err := requireName("materialName", u.MaterialName); err != nil {
		return err
	}
	return requirePositive("quantityUsed", u.QuantityUsed)
}

func (o Order) Validate() error {
	if err := requireName("customer", o.Customer); err != nil {
		return err
	}
	if err := requireDate("orderDate", o.OrderDate.IsZero()); err != nil {
		return err
	}
	if !o.DeliveryDate.IsZero() && o.DeliveryDate.Before(o.OrderDate) {
		return invalid("deliveryDate", "must not be before orderDate")
	}
	if err := validateItems(o.Items); err != nil {
		return err
	}
	return requireNonNegative("advance", o.Advance)
}
