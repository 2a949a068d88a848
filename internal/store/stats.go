package store

import "database/sql"

type DashboardStats struct {
	TotalOrders     int
	OrdersByStatus  map[string]int
	OrdersByProduct []ProductOrderCount
}

type ProductOrderCount struct {
	ProductType string
	OrderCount  int
}

// GetDashboardStats aggregates order counts for the admin dashboard.
func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int),
	}

	err := s.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.Query("SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}

	productRows, err := s.DB.Query(`
		SELECT product_type, COUNT(*) as order_count
		FROM orders
		GROUP BY product_type
		ORDER BY order_count DESC
	`)
	if err != nil {
		return nil, err
	}
	defer productRows.Close()
	for productRows.Next() {
		var poc ProductOrderCount
		if err := productRows.Scan(&poc.ProductType, &poc.OrderCount); err != nil {
			return nil, err
		}
		stats.OrdersByProduct = append(stats.OrdersByProduct, poc)
	}

	return stats, nil
}
