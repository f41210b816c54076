package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wolfeidau/mihotel/internal/models"
	"github.com/wolfeidau/mihotel/internal/util"
)

const (
	// DefaultPageSize is the number of records requested by List.
	DefaultPageSize = 100

	// MaxPageSize bounds the number of records a single List may request.
	MaxPageSize = 200
)

// ListOptions narrows a collection request.
type ListOptions struct {
	Limit  int
	Page   int
	Search string
	Status string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}

	limit := o.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	q.Set("limit", strconv.Itoa(util.Clamp(limit, 1, MaxPageSize)))

	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	return q
}

// Resource exposes the collection endpoints of a single entity type.
//
// Responses may carry the payload directly in data or nested under the
// collection key (list) or item key (single record).
type Resource[T any] struct {
	c       *Client
	path    string
	listKey string
	itemKey string
}

// Kind returns the collection name, e.g. "rooms".
func (r Resource[T]) Kind() string {
	return r.listKey
}

// List fetches one page of the collection.
func (r Resource[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	var raw json.RawMessage
	if err := r.c.call(ctx, request{method: http.MethodGet, path: r.path, query: opts.values()}, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw, r.listKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.listKey, err)
	}
	return items, nil
}

// Get fetches a single record.
func (r Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	out, err := r.item(ctx, request{method: http.MethodGet, path: r.path + "/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%s %s: %w", r.itemKey, id, ErrNoData)
	}
	return out, nil
}

// Create posts a new record and returns it as stored by the API. Create,
// Update and UpdateStatus return a nil record and no error when the API
// accepts the change without echoing the record back.
func (r Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	return r.item(ctx, request{method: http.MethodPost, path: r.path, body: body})
}

// Update replaces the record identified by id.
func (r Resource[T]) Update(ctx context.Context, id string, body any) (*T, error) {
	return r.item(ctx, request{method: http.MethodPut, path: r.path + "/" + url.PathEscape(id), body: body})
}

// UpdateStatus changes only the status of a record.
func (r Resource[T]) UpdateStatus(ctx context.Context, id, status string) (*T, error) {
	return r.item(ctx, request{
		method: http.MethodPatch,
		path:   r.path + "/" + url.PathEscape(id) + "/status",
		body:   map[string]string{"status": status},
	})
}

// Delete removes the record identified by id.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.call(ctx, request{method: http.MethodDelete, path: r.path + "/" + url.PathEscape(id)}, nil)
}

func (r Resource[T]) item(ctx context.Context, req request) (*T, error) {
	var raw json.RawMessage
	if err := r.c.call(ctx, req, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	item, err := decodeItem[T](raw, r.itemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.itemKey, err)
	}
	return item, nil
}

func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	for _, k := range []string{key, "items", "results"} {
		if v, ok := wrapped[k]; ok {
			if err := json.Unmarshal(v, &items); err != nil {
				return nil, err
			}
			return nonNil(items), nil
		}
	}
	return nil, fmt.Errorf("no %q collection in response", key)
}

func decodeItem[T any](raw json.RawMessage, key string) (*T, error) {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if v, ok := wrapped[key]; ok {
			raw = v
		}
	}

	item := new(T)
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, err
	}
	return item, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Properties returns the property endpoints.
func (c *Client) Properties() Resource[models.Property] {
	return Resource[models.Property]{c: c, path: "/properties", listKey: "properties", itemKey: "property"}
}

// Rooms returns the room endpoints.
func (c *Client) Rooms() Resource[models.Room] {
	return Resource[models.Room]{c: c, path: "/rooms", listKey: "rooms", itemKey: "room"}
}

// Reservations returns the reservation endpoints.
func (c *Client) Reservations() Resource[models.Reservation] {
	return Resource[models.Reservation]{c: c, path: "/reservations", listKey: "reservations", itemKey: "reservation"}
}

// Guests returns the guest endpoints.
func (c *Client) Guests() Resource[models.Guest] {
	return Resource[models.Guest]{c: c, path: "/guests", listKey: "guests", itemKey: "guest"}
}

// Payments returns the payment endpoints.
func (c *Client) Payments() Resource[models.Payment] {
	return Resource[models.Payment]{c: c, path: "/payments", listKey: "payments", itemKey: "payment"}
}

// Users returns the tenant user endpoints.
func (c *Client) Users() Resource[models.User] {
	return Resource[models.User]{c: c, path: "/users", listKey: "users", itemKey: "user"}
}

// RefundRequest returns part or all of a payment.
type RefundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason,omitempty"`
}

// Refund refunds a payment. The API rejects amounts above what remains
// refundable; that rejection is returned as an *APIError. The payment is
// nil when the API does not return it.
func (c *Client) Refund(ctx context.Context, paymentID string, req RefundRequest) (*models.Payment, error) {
	payments := c.Payments()
	return payments.item(ctx, request{
		method: http.MethodPost,
		path:   payments.path + "/" + url.PathEscape(paymentID) + "/refund",
		body:   req,
	})
}
