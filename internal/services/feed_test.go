package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"
	"dompet/internal/store/memory"
)

var feedOwner = uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000001")

func seedHistory(t *testing.T, st *memory.Store, n int) {
	t.Helper()
	base := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		st.SeedTransaction(core.Transaction{
			OwnerID:   feedOwner,
			Amount:    core.Money{Cents: int64(100 + i)},
			Kind:      core.Expense,
			Category:  "General",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestHistoryFeedPaging(t *testing.T) {
	st := memory.New()
	seedHistory(t, st, 27)

	feed := NewHistoryFeed(st, feedOwner, 20)
	ctx := context.Background()

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := len(feed.Transactions()); got != 20 {
		t.Fatalf("after refresh: %d transactions, want 20", got)
	}
	if !feed.HasMore() {
		t.Fatal("a full first page must leave hasMore true")
	}

	if err := feed.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	txs := feed.Transactions()
	if len(txs) != 27 {
		t.Fatalf("after load more: %d transactions, want 27", len(txs))
	}
	if feed.HasMore() {
		t.Fatal("a short page must flip hasMore to false")
	}

	// Newest first across the page seam.
	for i := 1; i < len(txs); i++ {
		if txs[i].CreatedAt.After(txs[i-1].CreatedAt) {
			t.Fatalf("transaction %d is newer than transaction %d", i, i-1)
		}
	}

	// End of history reached: further loads are no-ops.
	if err := feed.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore after end: %v", err)
	}
	if got := len(feed.Transactions()); got != 27 {
		t.Errorf("load past end grew the feed to %d transactions", got)
	}
}

func TestHistoryFeedExactMultipleCostsOneExtraFetch(t *testing.T) {
	st := memory.New()
	seedHistory(t, st, 40)

	feed := NewHistoryFeed(st, feedOwner, 20)
	ctx := context.Background()

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := feed.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if !feed.HasMore() {
		t.Fatal("a full second page must keep hasMore true")
	}

	// The extra fetch comes back empty and ends the feed.
	if err := feed.LoadMore(ctx); err != nil {
		t.Fatalf("final LoadMore: %v", err)
	}
	if feed.HasMore() {
		t.Error("empty page must flip hasMore to false")
	}
	if got := len(feed.Transactions()); got != 40 {
		t.Errorf("feed holds %d transactions, want 40", got)
	}
}

func TestHistoryFeedRefreshResets(t *testing.T) {
	st := memory.New()
	seedHistory(t, st, 27)

	feed := NewHistoryFeed(st, feedOwner, 20)
	ctx := context.Background()

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := feed.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if got := len(feed.Transactions()); got != 20 {
		t.Errorf("after second refresh: %d transactions, want 20", got)
	}
	if !feed.HasMore() {
		t.Error("refresh must reset hasMore when a full page comes back")
	}
}

// gateStore wraps the memory store and blocks a chosen number of ListPage
// calls until released, so tests can interleave a slow fetch with a
// refresh.
type gateStore struct {
	*memory.Store

	mu      sync.Mutex
	toBlock int
	gate    chan struct{}
	entered chan struct{}
}

func newGateStore(st *memory.Store) *gateStore {
	return &gateStore{
		Store:   st,
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
}

// blockNext makes the next ListPage call park until release().
func (g *gateStore) blockNext() {
	g.mu.Lock()
	g.toBlock++
	g.mu.Unlock()
}

func (g *gateStore) release() {
	close(g.gate)
}

func (g *gateStore) ListPage(ctx context.Context, owner uuid.UUID, page, pageSize int) ([]core.Transaction, error) {
	g.mu.Lock()
	blocked := g.toBlock > 0
	if blocked {
		g.toBlock--
	}
	g.mu.Unlock()

	if blocked {
		g.entered <- struct{}{}
		<-g.gate
	}
	return g.Store.ListPage(ctx, owner, page, pageSize)
}

func TestHistoryFeedDiscardsStaleResponse(t *testing.T) {
	mem := memory.New()
	seedHistory(t, mem, 27)
	st := newGateStore(mem)

	feed := NewHistoryFeed(st, feedOwner, 20)
	ctx := context.Background()

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Start a LoadMore that parks inside the store.
	st.blockNext()
	done := make(chan error, 1)
	go func() { done <- feed.LoadMore(ctx) }()
	<-st.entered

	// A refresh lands while the fetch is still in flight.
	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh during fetch: %v", err)
	}

	// Release the parked fetch; its response must be dropped.
	st.release()
	if err := <-done; err != nil {
		t.Fatalf("superseded LoadMore: %v", err)
	}

	if got := len(feed.Transactions()); got != 20 {
		t.Fatalf("stale page applied: feed holds %d transactions, want 20", got)
	}
	if feed.Loading() {
		t.Error("feed stuck in loading state after stale response")
	}

	// The feed still works: the next LoadMore fetches page one again.
	if err := feed.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore after stale drop: %v", err)
	}
	if got := len(feed.Transactions()); got != 27 {
		t.Errorf("feed holds %d transactions, want 27", got)
	}
}

func TestHistoryFeedLoadMoreWhileLoading(t *testing.T) {
	mem := memory.New()
	seedHistory(t, mem, 27)
	st := newGateStore(mem)

	feed := NewHistoryFeed(st, feedOwner, 20)
	ctx := context.Background()

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	st.blockNext()
	done := make(chan error, 1)
	go func() { done <- feed.LoadMore(ctx) }()
	<-st.entered

	if !feed.Loading() {
		t.Fatal("feed must report loading while a fetch is in flight")
	}
	// A second LoadMore during the fetch is a no-op.
	if err := feed.LoadMore(ctx); err != nil {
		t.Fatalf("concurrent LoadMore: %v", err)
	}

	st.release()
	if err := <-done; err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if got := len(feed.Transactions()); got != 27 {
		t.Errorf("feed holds %d transactions, want 27", got)
	}
}
