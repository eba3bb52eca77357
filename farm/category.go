/*
Package farm manages crop cultivation batches and their money.

KEY CONCEPTS:
  - Crop:     what is grown (name + variety)
  - Batch:    one cultivation cycle of a crop on an area of land
  - Expense:  money spent on a batch, typed by category kind
  - Income:   money earned from a batch (harvest sale, by-products)
  - Task:     a dated to-do on the batch timeline

CATEGORY KINDS:
  Every expense category resolves to exactly one kind, and the kind decides
  which detail an expense must carry:

    material  Seeds, Fertilizer, Pesticide      quantity > 0 and a unit
    labour    Labour, Harvest Labour            workers and a daily wage;
                                                amount defaults to workers*wage
    general   Irrigation, Transport, Equipment, notes only; amount required
              Other

  The detail is a closed variant (MaterialDetail, LabourDetail,
  GeneralDetail), so a labour expense cannot carry a fertilizer quantity.
*/
package farm

import (
	"fmt"
	"strings"
)

type CategoryKind string

const (
	KindMaterial CategoryKind = "material"
	KindLabour   CategoryKind = "labour"
	KindGeneral  CategoryKind = "general"
)

type Category struct {
	Name string
	Kind CategoryKind
}

var builtinCategories = []Category{
	{Name: "Seeds", Kind: KindMaterial},
	{Name: "Fertilizer", Kind: KindMaterial},
	{Name: "Pesticide", Kind: KindMaterial},
	{Name: "Labour", Kind: KindLabour},
	{Name: "Harvest Labour", Kind: KindLabour},
	{Name: "Irrigation", Kind: KindGeneral},
	{Name: "Transport", Kind: KindGeneral},
	{Name: "Equipment", Kind: KindGeneral},
	{Name: "Other", Kind: KindGeneral},
}

// Categories returns the expense categories in display order.
func Categories() []Category {
	out := make([]Category, len(builtinCategories))
	copy(out, builtinCategories)
	return out
}

// LookupCategory resolves a category name, ignoring case.
func LookupCategory(name string) (Category, error) {
	for _, c := range builtinCategories {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}
