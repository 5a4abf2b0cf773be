package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/tableside/internal/remote"
)

// orderResource mirrors an order document returned by the store.
type orderResource struct {
	ID         string              `json:"_id"`
	Table      tableRef            `json:"table"`
	Items      []orderItemResource `json:"items"`
	TotalQty   int                 `json:"totalQty"`
	TotalPrice float64             `json:"totalPrice"`
	Note       string              `json:"note"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// orderItemResource is one line inside an order document.
type orderItemResource struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

func (r orderResource) toOrder() Order {
	items := make([]OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, OrderItem{
			ItemID: item.ID,
			Name:   item.Name,
			Qty:    item.Qty,
			Price:  item.Price,
		})
	}
	return Order{
		ID:         r.ID,
		Table:      string(r.Table),
		Items:      items,
		TotalQty:   r.TotalQty,
		TotalPrice: r.TotalPrice,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
	}
}

// createOrderRequest is the payload accepted by the store on POST /orders.
type createOrderRequest struct {
	Table      string              `json:"table"`
	Items      []orderItemResource `json:"items"`
	TotalQty   int                 `json:"totalQty"`
	TotalPrice float64             `json:"totalPrice"`
	Note       string              `json:"note,omitempty"`
}

// Store is the remote order list as seen by the admin board.
type Store interface {
	ListOrders(ctx context.Context) ([]Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// Submitter places new orders.
type Submitter interface {
	CreateOrder(ctx context.Context, sub Submission) (*Order, error)
}

// DataAccess centralizes decoding of order store responses.
type DataAccess struct {
	client *aqm.ServiceClient
}

func NewDataAccess(client *aqm.ServiceClient) *DataAccess {
	return &DataAccess{client: client}
}

func (da *DataAccess) ListOrders(ctx context.Context) ([]Order, error) {
	if da == nil || da.client == nil {
		return nil, ErrStoreUnavailable
	}

	resp, err := da.client.List(ctx, "orders")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Orders []orderResource `json:"orders"`
	}
	if err := remote.DecodeSuccessResponse(resp, &payload); err != nil {
		return nil, err
	}

	result := make([]Order, 0, len(payload.Orders))
	for _, res := range payload.Orders {
		result = append(result, res.toOrder())
	}
	return result, nil
}

func (da *DataAccess) DeleteOrder(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return ErrStoreUnavailable
	}
	if id == "" {
		return errors.New("missing order id")
	}

	if err := da.client.Delete(ctx, "orders", id); err != nil {
		return fmt.Errorf("cannot delete order %s: %w", id, err)
	}
	return nil
}

func (da *DataAccess) CreateOrder(ctx context.Context, sub Submission) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, ErrStoreUnavailable
	}

	resp, err := da.client.Create(ctx, "orders", newCreateOrderRequest(sub))
	if err != nil {
		return nil, err
	}

	var res orderResource
	if err := remote.DecodeSuccessResponse(resp, &res); err != nil {
		return nil, err
	}

	created := res.toOrder()
	return &created, nil
}

func newCreateOrderRequest(sub Submission) createOrderRequest {
	items := make([]orderItemResource, 0, len(sub.Items))
	for _, item := range sub.Items {
		items = append(items, orderItemResource{
			ID:    item.ItemID,
			Name:  item.Name,
			Qty:   item.Qty,
			Price: item.Price,
		})
	}
	return createOrderRequest{
		Table:      sub.Table,
		Items:      items,
		TotalQty:   sub.TotalQty,
		TotalPrice: sub.TotalPrice,
		Note:       sub.Note,
	}
}
