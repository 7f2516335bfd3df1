package pass

import (
	"context"
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

func TestIssueDailyPassIsActive(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(now)

	res, err := svc.Issue(context.Background(), IssueRequest{
		Identity:      "100",
		Category:      catalog.PassDailyAC,
		BusType:       catalog.BusAC,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	p := res.Pass
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, PaymentCompleted, p.PaymentStatus)
	assert.Equal(t, 60, p.Fare)
	assert.Equal(t, now, p.ValidFrom)
	assert.Equal(t, now.AddDate(0, 0, 1), p.ValidUntil)
	assert.True(t, strings.HasPrefix(p.PaymentID, "PAY"))
	assert.NotEmpty(t, p.QRRef)
	assert.NotEmpty(t, res.QR.PNG)
}

func TestIssueMonthlyValidity(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(now)

	res, err := svc.Issue(context.Background(), IssueRequest{
		Identity: "100",
		Category: catalog.PassMonthlyNonAC,
		BusType:  catalog.BusNonAC,
	})
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 30), res.Pass.ValidUntil)
	assert.Equal(t, 600, res.Pass.Fare)
}

func TestIssueStudentPassPendingWithDocuments(t *testing.T) {
	svc := newTestService(time.Now())

	res, err := svc.Issue(context.Background(), IssueRequest{
		Identity:  "100",
		Category:  catalog.PassStudent,
		BusType:   catalog.BusAC,
		Documents: []string{"file-id-card", "file-aadhar"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Pass.Status)
	assert.Equal(t, []string{"file-id-card", "file-aadhar"}, []string(res.Pass.Documents))
}

func TestIssueSeniorPassSingleDocument(t *testing.T) {
	svc := newTestService(time.Now())

	res, err := svc.Issue(context.Background(), IssueRequest{
		Identity:  "100",
		Category:  catalog.PassSenior,
		BusType:   catalog.BusNonAC,
		Documents: []string{"file-aadhar"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Pass.Status)
	assert.Equal(t, 300, res.Pass.Fare)
}

func TestIssueRejectsMissingDocuments(t *testing.T) {
	svc := newTestService(time.Now())

	_, err := svc.Issue(context.Background(), IssueRequest{
		Identity:  "100",
		Category:  catalog.PassStudent,
		BusType:   catalog.BusAC,
		Documents: []string{"only-one"},
	})
	assert.Error(t, err)
}

func TestIssueRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(time.Now())
	_, err := svc.Issue(context.Background(), IssueRequest{
		Identity: "100",
		Category: catalog.PassCategory("weekly"),
	})
	assert.Error(t, err)
}

func TestListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, qr.NewGenerator(), Pacing{})

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, store.Insert(context.Background(), &Pass{
			ID: id, Identity: "100", Category: catalog.PassDailyAC,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	passes, err := svc.List(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, passes, 3)
	assert.Equal(t, "third", passes[0].ID)
	assert.Equal(t, "first", passes[2].ID)
}
