package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/records"
	"fintrack/internal/records/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	*memory.Backend
	mu       sync.Mutex
	released []string
}

func (b *recordingBackend) Release(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = append(b.released, id)
	return nil
}

func (b *recordingBackend) Released() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.released...)
}

var _ records.Backend = (*recordingBackend)(nil)

func TestResolve_CreatesAndReuses(t *testing.T) {
	m := NewManager(memory.NewBackend(), Config{}, nil)

	s, created := m.Resolve("")
	require.True(t, created)

	again, created := m.Resolve(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	_, created = m.Resolve("not-a-uuid")
	assert.True(t, created)
	assert.Equal(t, 2, m.Stats().Active)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager(memory.NewBackend(), Config{}, nil)
	ctx := context.Background()
	a, b := m.Create(), m.Create()

	_, err := a.Store.AppendExpense(ctx, core.ExpenseEntry{Date: core.NewDate(2024, 1, 1), Category: core.Food, Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)

	got, err := b.Store.Expenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnd_ReleasesStore(t *testing.T) {
	backend := &recordingBackend{Backend: memory.NewBackend()}
	m := NewManager(backend, Config{}, nil)
	s := m.Create()

	m.End(s.ID)

	assert.Equal(t, []string{s.ID}, backend.Released())
	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	assert.EqualValues(t, 1, m.Stats().Ended)
}

func TestCapacityEvictionReleasesOldest(t *testing.T) {
	backend := &recordingBackend{Backend: memory.NewBackend()}
	m := NewManager(backend, Config{MaxSessions: 1}, nil)
	first := m.Create()
	m.Create()

	assert.Equal(t, []string{first.ID}, backend.Released())
}

func TestExpiryReleasesStore(t *testing.T) {
	backend := &recordingBackend{Backend: memory.NewBackend()}
	m := NewManager(backend, Config{TTL: 10 * time.Millisecond}, nil)
	s := m.Create()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, m.Cleaner().CleanExpired())
	assert.Equal(t, []string{s.ID}, backend.Released())

	fresh, created := m.Resolve(s.ID)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, fresh.ID)
}

func TestMiddleware_SetsCookieOnce(t *testing.T) {
	m := NewManager(memory.NewBackend(), Config{}, nil)
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = s.ID
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, cookies[0].Value, seen)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

func TestEndedSessionRejectsAppends(t *testing.T) {
	backend := &recordingBackend{Backend: memory.NewBackend()}
	m := NewManager(backend, Config{}, nil)
	s := m.Create()
	ctx := context.Background()

	_, err := s.Store.AppendExpense(ctx, core.ExpenseEntry{Date: core.NewDate(2024, 1, 1), Category: core.Food, Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)

	m.End(s.ID)

	_, err = s.Store.AppendExpense(ctx, core.ExpenseEntry{Date: core.NewDate(2024, 1, 2), Category: core.Rent, Amount: decimal.NewFromInt(7)})
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Store.AppendInvestment(ctx, core.InvestmentEntry{Asset: "Gold", Invested: decimal.NewFromInt(1), Current: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrSessionClosed)

	got, err := s.Store.Expenses(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1, "reads still see what was written before the session ended")
}

func TestReleaseWaitsForInFlightAppend(t *testing.T) {
	backend := &recordingBackend{Backend: memory.NewBackend()}
	m := NewManager(backend, Config{}, nil)
	s := m.Create()

	var wg sync.WaitGroup
	results := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Store.AppendExpense(context.Background(), core.ExpenseEntry{Date: core.NewDate(2024, 1, 1), Category: core.Food, Amount: decimal.NewFromInt(1)})
			results <- err
		}()
	}
	m.End(s.ID)
	wg.Wait()
	close(results)

	accepted := 0
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, ErrSessionClosed)
	}
	got, err := s.Store.Expenses(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, accepted, "every accepted append landed before the release")
}
