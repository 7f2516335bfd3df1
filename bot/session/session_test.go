package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/transitbot/bot/catalog"
	"github.com/m3rciful/transitbot/bot/i18n"
)

func TestCreateInitializesSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Create(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "100", sess.Identity)
	assert.Equal(t, StateStart, sess.State)
	assert.Equal(t, i18n.Default(), sess.Language)
	assert.Equal(t, Data{}, sess.Data)
}

func TestCreatePreservesLanguageAndResetsData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, "100")
	require.NoError(t, err)
	require.NoError(t, store.SetLanguage(ctx, "100", i18n.LangPunjabi))
	_, err = store.MergeData(ctx, "100", Patch{Ticket: &TicketBooking{Source: "PGI"}})
	require.NoError(t, err)
	require.NoError(t, store.SetState(ctx, "100", StateTicketSelectingSource))

	sess, err := store.Create(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, i18n.LangPunjabi, sess.Language)
	assert.Equal(t, StateStart, sess.State)
	assert.Nil(t, sess.Data.Ticket)
}

func TestCreateIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, "100")
	require.NoError(t, err)
	second, err := store.Create(ctx, "100")
	require.NoError(t, err)

	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Language, second.Language)
	assert.Equal(t, first.Data, second.Data)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetUnknownIdentity(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeDataReplacesWholeSubObject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "100")
	require.NoError(t, err)

	_, err = store.MergeData(ctx, "100", Patch{Ticket: &TicketBooking{
		SourceRegion: catalog.RegionLandmarks,
		Source:       "PGI",
	}})
	require.NoError(t, err)

	// A later patch carries the whole sub-object; fields the caller did not
	// copy forward are gone.
	sess, err := store.MergeData(ctx, "100", Patch{Ticket: &TicketBooking{
		Destination: "Sector 22",
	}})
	require.NoError(t, err)
	assert.Empty(t, sess.Data.Ticket.Source)
	assert.Equal(t, "Sector 22", sess.Data.Ticket.Destination)
}

func TestMergeDataLeavesSiblingsAlone(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "100")
	require.NoError(t, err)

	_, err = store.MergeData(ctx, "100", Patch{Pass: &PassPurchase{
		BusType:      catalog.BusAC,
		Category:     catalog.PassStudent,
		DocumentStep: 2,
	}})
	require.NoError(t, err)

	sess, err := store.MergeData(ctx, "100", Patch{Ticket: &TicketBooking{Source: "PGI"}})
	require.NoError(t, err)
	require.NotNil(t, sess.Data.Pass)
	assert.Equal(t, 2, sess.Data.Pass.DocumentStep)
	assert.Equal(t, catalog.PassStudent, sess.Data.Pass.Category)
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "100")
	require.NoError(t, err)

	sess, err := store.Get(ctx, "100")
	require.NoError(t, err)
	sess.State = StateMainMenu

	again, err := store.Get(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, StateStart, again.State)
}

func TestMemoryStoreClock(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return fixed })

	sess, err := store.Create(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, fixed, sess.CreatedAt)
	assert.Equal(t, fixed, sess.UpdatedAt)
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()
	const workers = 16
	const rounds = 50

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				unlock := km.Lock("100")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, workers*rounds, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	unlockA := km.Lock("a")

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on independent key blocked")
	}
	unlockA()
}
