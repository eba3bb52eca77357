/*
orders.go - Customer order lifecycle

STATE MACHINE:
  waiting --deliver--> delivered   (creates a Sale, stock decremented once)
  waiting --cancel---> cancelled   (no stock effect)

  delivered and cancelled are terminal. Only waiting orders can be edited;
  any order can be deleted. Deleting a delivered order leaves its Sale, and
  the stock it moved, in place; delete the Sale to give the stock back.
*/
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Service) CreateOrder(ctx context.Context, o Order) (Order, error) {
	o.ID = uuid.NewString()
	o.OrderDate = Day(o.OrderDate)
	if !o.DeliveryDate.IsZero() {
		o.DeliveryDate = Day(o.DeliveryDate)
	}
	o.Status = OrderWaiting
	o.SaleID = ""
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	if err := s.store.SaveOrder(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// UpdateOrder edits a waiting order. Status and sale link are not editable here.
func (s *Service) UpdateOrder(ctx context.Context, id string, o Order) (Order, error) {
	o.ID = id
	o.OrderDate = Day(o.OrderDate)
	if !o.DeliveryDate.IsZero() {
		o.DeliveryDate = Day(o.DeliveryDate)
	}
	o.Status = OrderWaiting
	o.SaleID = ""
	if err := o.Validate(); err != nil {
		return Order{}, err
	}

	err := s.ledger.WithTx(ctx, func(ctx context.Context) error {
		cur, err := s.store.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound("order", id)
		}
		if cur.Status != OrderWaiting {
			return fmt.Errorf("%w: %s is %s", ErrOrderClosed, id, cur.Status)
		}
		return s.store.SaveOrder(ctx, o)
	})
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// SetOrderStatus moves a waiting order to delivered or cancelled.
func (s *Service) SetOrderStatus(ctx context.Context, id string, status OrderStatus) (Order, error) {
	if !status.Valid() {
		return Order{}, invalid("status", fmt.Sprintf("unknown status %q", status))
	}

	var out Order
	err := s.ledger.WithTx(ctx, func(ctx context.Context) error {
		o, err := s.store.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return notFound("order", id)
		}
		if o.Status.Terminal() || status == OrderWaiting {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
		}

		if status == OrderDelivered {
			sale := s.saleFromOrder(*o)
			if err := s.create(ctx, func(ctx context.Context) error { return s.store.SaveSale(ctx, sale) }, sale); err != nil {
				return err
			}
			o.SaleID = sale.ID
		}
		o.Status = status
		if err := s.store.SaveOrder(ctx, *o); err != nil {
			return err
		}
		out = *o
		return nil
	})
	return out, err
}

func (s *Service) saleFromOrder(o Order) Sale {
	date := o.DeliveryDate
	if date.IsZero() {
		date = s.now()
	}
	items := make([]LineItem, len(o.Items))
	copy(items, o.Items)
	return normalizeSale(Sale{
		ID:       uuid.NewString(),
		Date:     date,
		Customer: o.Customer,
		Items:    items,
		Notes:    "order " + o.ID,
	})
}

// DeleteOrder removes the order only.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.ledger.WithTx(ctx, func(ctx context.Context) error {
		o, err := s.store.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return notFound("order", id)
		}
		return s.store.DeleteOrder(ctx, id)
	})
}

func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	return getRecord(ctx, "order", id, s.store.GetOrder)
}

// ListOrders filters by status; an empty status lists all.
func (s *Service) ListOrders(ctx context.Context, status OrderStatus) ([]Order, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	return s.store.ListOrders(ctx, status)
}
