package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateUser("Sarah@Example.com", "Sarah Doe", "hash")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	byID, err := s.GetUserByID(id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "sarah@example.com", byID.Email, "emails are stored lowercased")
	assert.Equal(t, "Sarah Doe", byID.FullName)

	// Lookup is case-insensitive.
	byEmail, err := s.GetUserByEmail("SARAH@example.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)
}

func TestGetUserAbsent(t *testing.T) {
	s := newTestStore(t)

	user, err := s.GetUserByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.GetUserByID("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateUserProfile(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateUser("a@example.com", "", "")
	require.NoError(t, err)

	require.NoError(t, s.UpdateUserProfile(id, "New Name"))

	user, err := s.GetUserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.FullName)
}

func TestLoginTokenLifecycle(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateLoginToken("a@example.com", "tok-1"))

	email, err := s.GetEmailByLoginToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)

	// Unknown tokens are an expected absence, not an error.
	email, err = s.GetEmailByLoginToken("tok-unknown")
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, s.DeleteLoginToken("tok-1"))
	email, err = s.GetEmailByLoginToken("tok-1")
	require.NoError(t, err)
	assert.Empty(t, email, "a consumed token no longer signs in")
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DB.Exec(`INSERT INTO orders (id, user_id, product_type, input_data, status) VALUES
		('o1', 'u1', 'song', '{}', 'processing'),
		('o2', 'u1', 'song', '{}', 'complete'),
		('o3', 'u2', 'book', '{}', 'processing')`)
	require.NoError(t, err)

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 2, stats.OrdersByStatus["processing"])
	assert.Equal(t, 1, stats.OrdersByStatus["complete"])
	require.Len(t, stats.OrdersByProduct, 2)
	assert.Equal(t, "song", stats.OrdersByProduct[0].ProductType)
	assert.Equal(t, 2, stats.OrdersByProduct[0].OrderCount)
}
