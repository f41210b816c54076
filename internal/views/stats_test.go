package views

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mihotel/internal/models"
)

func TestPropertyStatsOf(t *testing.T) {
	props := []models.Property{
		{RoomsCount: 10, AvailableRoomsCount: 4},
		{RoomsCount: 10, AvailableRoomsCount: 10},
	}
	for i := range props {
		props[i].DeriveRoomCounts()
	}

	s := PropertyStatsOf(props)
	require.Equal(t, 2, s.Total)
	require.Equal(t, 20, s.TotalRooms)
	require.Equal(t, 14, s.AvailableRooms)
	require.Equal(t, 6, s.OccupiedRooms)
	require.InDelta(t, 30.0, s.OccupancyRate, 0.001)

	require.Zero(t, PropertyStatsOf(nil).OccupancyRate)
}

func TestRoomStatsOf(t *testing.T) {
	rooms := []models.Room{
		{Status: models.RoomStatusAvailable},
		{Status: models.RoomStatusOccupied},
		{Status: models.RoomStatusOccupied},
		{Status: models.RoomStatusCleaning},
	}

	s := RoomStatsOf(rooms)
	require.Equal(t, 4, s.Total)
	require.Equal(t, 2, s.ByStatus[models.RoomStatusOccupied])
	require.Equal(t, 0, s.ByStatus[models.RoomStatusMaintenance])
	require.Contains(t, s.ByStatus, models.RoomStatusMaintenance)
	require.InDelta(t, 50.0, s.OccupancyRate, 0.001)
}

func TestReservationStatsOf(t *testing.T) {
	res := []models.Reservation{
		{Status: models.ReservationStatusConfirmed, TotalAmount: 300, PaidAmount: 100},
		{Status: models.ReservationStatusCheckedOut, TotalAmount: 200, PaidAmount: 200},
		{Status: models.ReservationStatusCancelled, TotalAmount: 500, PaidAmount: 0},
	}

	s := ReservationStatsOf(res)
	require.Equal(t, 3, s.Total)
	require.Equal(t, 1, s.ByStatus[models.ReservationStatusCancelled])
	require.InDelta(t, 500.0, s.Revenue, 0.001)
	require.InDelta(t, 300.0, s.Paid, 0.001)
	require.InDelta(t, 200.0, s.PendingBalance, 0.001)
}

func TestGuestStatsOf(t *testing.T) {
	s := GuestStatsOf([]models.Guest{
		{IsVIP: true, TotalSpent: 1200, TotalStays: 4},
		{TotalSpent: 300, TotalStays: 1},
	})

	require.Equal(t, GuestStats{Total: 2, VIP: 1, TotalSpent: 1500, TotalStays: 5}, s)
}

func TestPaymentStatsOf(t *testing.T) {
	s := PaymentStatsOf([]models.Payment{
		{Status: models.PaymentStatusCompleted, Amount: 100},
		{Status: models.PaymentStatusPartiallyRefunded, Amount: 100, RefundedAmount: 40},
		{Status: models.PaymentStatusRefunded, Amount: 50, RefundedAmount: 50},
		{Status: models.PaymentStatusPending, Amount: 80},
	})

	require.Equal(t, 4, s.Total)
	require.InDelta(t, 160.0, s.Collected, 0.001)
	require.InDelta(t, 90.0, s.Refunded, 0.001)
	require.InDelta(t, 80.0, s.Pending, 0.001)
	require.Equal(t, 1, s.ByStatus[models.PaymentStatusRefunded])
}

func TestUserStatsOf(t *testing.T) {
	s := UserStatsOf([]models.User{
		{Role: models.RoleAdmin, IsActive: true},
		{Role: models.RoleStaff, IsActive: true},
		{Role: models.RoleStaff},
	})

	require.Equal(t, 3, s.Total)
	require.Equal(t, 2, s.Active)
	require.Equal(t, 2, s.ByRole[models.RoleStaff])
	require.Equal(t, 0, s.ByRole[models.RoleCleaning])
}
