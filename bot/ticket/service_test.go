package ticket

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/transitbot/bot/catalog"
	"github.com/m3rciful/transitbot/bot/qr"
)

func newTestService(now time.Time) *Service {
	svc := NewService(NewMemoryStore(), qr.NewGenerator(), Pacing{})
	svc.SetClock(func() time.Time { return now })
	return svc
}

func testBus() catalog.Departure {
	return catalog.Departure{
		ID:            "bus1",
		BusNumber:     "CTU-101",
		DepartureTime: "10:00 AM",
		ArrivalTime:   "10:45 AM",
		Fare:          30,
	}
}

func TestBookComputesFarePerPassenger(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	for passengers := 1; passengers <= 6; passengers++ {
		svc := newTestService(now)
		res, err := svc.Book(context.Background(), BookingRequest{
			Identity:      "100",
			Source:        "Sector 17 ISBT",
			Destination:   "PGI",
			Passengers:    passengers,
			Bus:           testBus(),
			PaymentMethod: "upi",
		})
		require.NoError(t, err, "passengers %d", passengers)
		assert.Equal(t, 30*passengers, res.Ticket.Fare, "passengers %d", passengers)
	}
}

func TestBookSetsValidityAndStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	svc := newTestService(now)

	res, err := svc.Book(context.Background(), BookingRequest{
		Identity:      "100",
		Source:        "Sector 17 ISBT",
		Destination:   "Sector 22",
		Passengers:    3,
		Bus:           testBus(),
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	tk := res.Ticket
	assert.Equal(t, now, tk.IssuedAt)
	assert.Equal(t, now.Add(24*time.Hour), tk.ValidUntil)
	assert.Equal(t, PaymentCompleted, tk.PaymentStatus)
	assert.Equal(t, StatusActive, tk.Status)
	assert.Equal(t, "R1722", tk.RouteNumber)
	assert.True(t, strings.HasPrefix(tk.PaymentID, "PAY"), "payment id %s", tk.PaymentID)
	assert.Len(t, tk.PaymentID, len("PAY")+9)
	assert.Len(t, tk.ID, 12)
	assert.NotEmpty(t, tk.QRRef)
	assert.NotEmpty(t, res.QR.PNG)
}

func TestBookKeepsProvidedPaymentID(t *testing.T) {
	svc := newTestService(time.Now())
	res, err := svc.Book(context.Background(), BookingRequest{
		Identity:    "100",
		Source:      "PGI",
		Destination: "Sector 22",
		Passengers:  1,
		Bus:         testBus(),
		PaymentID:   "PAYFIXED1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAYFIXED1234", res.Ticket.PaymentID)
}

func TestBookRejectsPassengerCountOutOfRange(t *testing.T) {
	svc := newTestService(time.Now())
	for _, n := range []int{0, -1, 7} {
		_, err := svc.Book(context.Background(), BookingRequest{
			Identity:    "100",
			Source:      "PGI",
			Destination: "Sector 22",
			Passengers:  n,
			Bus:         testBus(),
		})
		assert.Error(t, err, "passengers %d", n)
	}
}

func TestBookRejectsEmptyIdentity(t *testing.T) {
	svc := newTestService(time.Now())
	_, err := svc.Book(context.Background(), BookingRequest{
		Source: "PGI", Destination: "Sector 22", Passengers: 1, Bus: testBus(),
	})
	assert.Error(t, err)
}

func TestRouteNumberFallback(t *testing.T) {
	assert.Equal(t, "R1722", routeNumber("Sector 17 ISBT", "Sector 22"))
	assert.Equal(t, "R22", routeNumber("PGI", "Sector 22"))
	assert.Equal(t, "CTU-R1", routeNumber("PGI", "Sukhna Lake"))
}

func TestListIssuedTodayFiltersByLocalDay(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, qr.NewGenerator(), Pacing{})

	now := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	insert := func(id string, issuedAt time.Time) {
		require.NoError(t, store.Insert(context.Background(), &Ticket{
			ID: id, Identity: "100", IssuedAt: issuedAt,
			ValidUntil: issuedAt.Add(24 * time.Hour), Status: StatusActive,
		}))
	}
	insert("yesterday", now.Add(-20*time.Hour))
	insert("early", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	insert("late", time.Date(2025, 3, 2, 23, 59, 0, 0, time.UTC))

	tickets, err := svc.ListIssuedToday(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	// Newest first.
	assert.Equal(t, "late", tickets[0].ID)
	assert.Equal(t, "early", tickets[1].ID)
}

func TestListIssuedTodayOtherIdentity(t *testing.T) {
	svc := newTestService(time.Now())
	_, err := svc.Book(context.Background(), BookingRequest{
		Identity: "100", Source: "PGI", Destination: "Sector 22",
		Passengers: 1, Bus: testBus(),
	})
	require.NoError(t, err)

	tickets, err := svc.ListIssuedToday(context.Background(), "200")
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestCount(t *testing.T) {
	svc := newTestService(time.Now())
	for i := 0; i < 3; i++ {
		_, err := svc.Book(context.Background(), BookingRequest{
			Identity: fmt.Sprintf("user-%d", i), Source: "PGI",
			Destination: "Sector 22", Passengers: 1, Bus: testBus(),
		})
		require.NoError(t, err)
	}
	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
