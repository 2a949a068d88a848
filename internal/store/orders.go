package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/micahvs/sentimental-gifts/internal/models"
)

// CreateOrder inserts one order row. The store generates the id and the
// created_at timestamp; status defaults to processing. The caller's Order is
// updated in place with the generated values.
func (s *Store) CreateOrder(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = models.StatusProcessing
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	inputJSON, err := json.Marshal(order.InputData)
	if err != nil {
		return fmt.Errorf("encode input data: %w", err)
	}

	var shipping sql.NullString
	if order.ShippingAddress != nil {
		addrJSON, err := json.Marshal(order.ShippingAddress)
		if err != nil {
			return fmt.Errorf("encode shipping address: %w", err)
		}
		shipping = sql.NullString{String: string(addrJSON), Valid: true}
	}

	query := `
		INSERT INTO orders (id, user_id, product_type, input_data, shipping_address, phone_number, status, output_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.DB.Exec(query, order.ID, order.UserID, string(order.ProductType), string(inputJSON),
		shipping, nullString(order.PhoneNumber), string(order.Status), nullString(order.OutputURL), order.CreatedAt)
	return err
}

// GetOrderByID returns (nil, nil) when no order with that id exists.
// Ownership is not checked here; that is the caller's responsibility.
func (s *Store) GetOrderByID(id string) (*models.Order, error) {
	query := `
		SELECT id, user_id, product_type, input_data, shipping_address, phone_number, status, COALESCE(output_url, ''), created_at
		FROM orders WHERE id = ?
	`
	order, err := scanOrder(s.DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrdersByOwner returns the owner's orders newest first.
func (s *Store) ListOrdersByOwner(userID string) ([]models.Order, error) {
	query := `
		SELECT id, user_id, product_type, input_data, shipping_address, phone_number, status, COALESCE(output_url, ''), created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// GetAllOrders returns a page of all orders across owners, newest first.
// Admin surface only.
func (s *Store) GetAllOrders(limit, offset int) ([]models.Order, error) {
	query := `
		SELECT id, user_id, product_type, input_data, shipping_address, phone_number, status, COALESCE(output_url, ''), created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.DB.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) GetTotalOrdersCount() (int, error) {
	var count int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateOrderStatus is the fulfillment transition: the operator marks an
// order complete and attaches the finished artifact URL. An empty outputURL
// leaves the stored one untouched.
func (s *Store) UpdateOrderStatus(id string, status models.OrderStatus, outputURL string) error {
	query := `UPDATE orders SET status = ?, output_url = COALESCE(NULLIF(?, ''), output_url) WHERE id = ?`
	_, err := s.DB.Exec(query, string(status), outputURL, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*models.Order, error) {
	var (
		o           models.Order
		productType string
		status      string
		inputJSON   string
		shipping    sql.NullString
		phone       sql.NullString
	)
	if err := row.Scan(&o.ID, &o.UserID, &productType, &inputJSON, &shipping, &phone, &status, &o.OutputURL, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ProductType = models.ProductType(productType)
	o.Status = models.OrderStatus(status)
	o.PhoneNumber = phone.String

	input, err := decodeInputData(o.ProductType, []byte(inputJSON))
	if err != nil {
		// Tolerate malformed or legacy payloads; the row itself is still
		// useful for listing and status display.
		slog.Warn("Undecodable order input data", "order_id", o.ID, "error", err)
	} else {
		o.InputData = input
	}

	if shipping.Valid && shipping.String != "" {
		var addr models.Address
		if err := json.Unmarshal(canonicalJSON([]byte(shipping.String)), &addr); err != nil {
			slog.Warn("Undecodable shipping address", "order_id", o.ID, "error", err)
		} else {
			o.ShippingAddress = &addr
		}
	}
	return &o, nil
}

// decodeInputData is the single normalization point between persisted and
// in-memory order payloads. Older rows were written with camelCase keys;
// canonicalJSON folds those into the snake_case spelling before decoding, so
// only the typed payload ever leaves the store.
func decodeInputData(pt models.ProductType, raw []byte) (models.OrderInput, error) {
	input := models.NewOrderInput(pt)
	if input == nil {
		return nil, fmt.Errorf("unknown product type %q", pt)
	}
	if err := json.Unmarshal(canonicalJSON(raw), input); err != nil {
		return nil, err
	}
	return input, nil
}

// keyAliases maps legacy camelCase payload keys to their canonical
// snake_case spelling.
var keyAliases = map[string]string{
	"recipientName": "recipient_name",
	"funFacts":      "fun_facts",
	"musicStyle":    "music_style",
	"photoUrl":      "photo_url",
	"photoUrls":     "photo_urls",
	"postalCode":    "postal_code",
}

func canonicalJSON(raw []byte) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return raw
	}
	changed := false
	for alias, canonical := range keyAliases {
		v, ok := fields[alias]
		if !ok {
			continue
		}
		if _, exists := fields[canonical]; !exists {
			fields[canonical] = v
		}
		delete(fields, alias)
		changed = true
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
