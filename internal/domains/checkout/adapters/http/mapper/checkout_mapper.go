// Package mapper translates between checkout wire payloads and use-case types.
package mapper

import (
	"time"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
)

// CartLinePayload is the add-to-cart request body.
type CartLinePayload struct {
	BookID int64 `json:"bookId" binding:"required,gt=0"`
}

// PlaceOrderPayload is the order placement request body. OwnerID and
// RentalDays are optional and stored as given.
type PlaceOrderPayload struct {
	OwnerID    *int64 `json:"ownerId"`
	RentalDays *int32 `json:"rentalDays"`
}

// OrderStatusPayload carries a status transition. Empty fields keep the
// current value.
type OrderStatusPayload struct {
	PaymentStatus  string `json:"paymentStatus"`
	DeliveryStatus string `json:"deliveryStatus"`
}

// CartLineResponse is one cart entry joined with book display fields.
type CartLineResponse struct {
	LineID      int64     `json:"lineId"`
	BookID      int64     `json:"bookId"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	RentalPrice float64   `json:"rentalPrice"`
	ImagePath   string    `json:"imagePath,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
}

// OrderResponse is one order joined with book display fields.
type OrderResponse struct {
	OrderID        int64     `json:"orderId"`
	OwnerID        *int64    `json:"ownerId"`
	BookID         int64     `json:"bookId"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	RentalPrice    float64   `json:"rentalPrice"`
	ImagePath      string    `json:"imagePath,omitempty"`
	PlacedAt       time.Time `json:"placedAt"`
	RentalDays     *int32    `json:"rentalDays"`
	PaymentStatus  string    `json:"paymentStatus"`
	DeliveryStatus string    `json:"deliveryStatus"`
}

// PlacementResponse reports the outcome of a placement.
type PlacementResponse struct {
	OrdersCreated int32     `json:"ordersCreated"`
	OrderIDs      []int64   `json:"orderIds"`
	PlacedAt      time.Time `json:"placedAt"`
	Replayed      bool      `json:"replayed,omitempty"`
}

// ToPlaceOrderInput builds the use-case input from the payload and the
// Idempotency-Key header value.
func ToPlaceOrderInput(payload PlaceOrderPayload, idempotencyKey string) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		OwnerID:        payload.OwnerID,
		RentalDays:     payload.RentalDays,
		IdempotencyKey: idempotencyKey,
	}
}

// FromCartLine maps a cart line projection to its wire form.
func FromCartLine(projection *types.CartLineProjection) CartLineResponse {
	if projection == nil || projection.Line == nil {
		return CartLineResponse{}
	}
	return CartLineResponse{
		LineID:      projection.Line.ID,
		BookID:      projection.Line.BookID,
		Title:       projection.Book.Title,
		Author:      projection.Book.Author,
		RentalPrice: projection.Book.RentalPrice,
		ImagePath:   projection.Book.ImagePath,
		AddedAt:     projection.Line.AddedAt,
	}
}

// FromCartLineList maps cart line projections to wire form, never nil.
func FromCartLineList(projections []*types.CartLineProjection) []CartLineResponse {
	result := make([]CartLineResponse, 0, len(projections))
	for _, projection := range projections {
		result = append(result, FromCartLine(projection))
	}
	return result
}

// FromOrder maps an order projection to its wire form.
func FromOrder(projection *types.OrderProjection) OrderResponse {
	if projection == nil || projection.Order == nil {
		return OrderResponse{}
	}
	return OrderResponse{
		OrderID:        projection.Order.ID,
		OwnerID:        projection.Order.OwnerID,
		BookID:         projection.Order.BookID,
		Title:          projection.Book.Title,
		Author:         projection.Book.Author,
		RentalPrice:    projection.Book.RentalPrice,
		ImagePath:      projection.Book.ImagePath,
		PlacedAt:       projection.Order.PlacedAt,
		RentalDays:     projection.Order.RentalDays,
		PaymentStatus:  string(projection.Order.PaymentStatus),
		DeliveryStatus: string(projection.Order.DeliveryStatus),
	}
}

// FromOrderList maps order projections to wire form, never nil.
func FromOrderList(projections []*types.OrderProjection) []OrderResponse {
	result := make([]OrderResponse, 0, len(projections))
	for _, projection := range projections {
		result = append(result, FromOrder(projection))
	}
	return result
}

// FromPlacementResult maps a placement outcome to its wire form.
func FromPlacementResult(result *types.PlacementResult) PlacementResponse {
	if result == nil {
		return PlacementResponse{}
	}
	return PlacementResponse{
		OrdersCreated: result.OrdersCreated,
		OrderIDs:      result.OrderIDs,
		PlacedAt:      result.PlacedAt,
		Replayed:      result.Replayed,
	}
}
