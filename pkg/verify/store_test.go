package verify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestPendingStore_PutOverwrites(t *testing.T) {
	s := NewPendingStore(time.Minute)

	first := common.HexToAddress("0x8ba1f109551bD432803012645Ac136ddd64DBA72")
	second := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	s.Put("u1", first)
	s.Put("u1", second)

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	rec, ok := s.Get("u1")
	if !ok {
		t.Fatal("record missing")
	}
	if rec.Wallet != second {
		t.Errorf("Wallet = %s, want %s", rec.Wallet.Hex(), second.Hex())
	}
}

func TestPendingStore_DeleteIsIdempotent(t *testing.T) {
	s := NewPendingStore(time.Minute)
	s.Put("u1", common.Address{})

	s.Delete("u1")
	s.Delete("u1")

	if _, ok := s.Get("u1"); ok {
		t.Error("record still present after delete")
	}
}

func TestPendingStore_Expired(t *testing.T) {
	s := NewPendingStore(time.Minute)
	rec := s.Put("u1", common.Address{})

	if s.Expired(rec) {
		t.Error("fresh record reported expired")
	}

	s.now = func() time.Time { return rec.CreatedAt.Add(61 * time.Second) }
	if !s.Expired(rec) {
		t.Error("stale record not reported expired")
	}
}

func TestPendingStore_SweepEvictsOnlyExpired(t *testing.T) {
	s := NewPendingStore(time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.Put("old", common.Address{})

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	s.Put("fresh", common.Address{})

	if evicted := s.sweep(); evicted != 1 {
		t.Fatalf("sweep evicted %d, want 1", evicted)
	}
	if _, ok := s.Get("old"); ok {
		t.Error("expired record survived sweep")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("fresh record evicted by sweep")
	}
}

func TestPendingStore_SweeperEvictsInBackground(t *testing.T) {
	s := NewPendingStore(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.StartSweeper(ctx, time.Millisecond)

	s.Put("u1", common.Address{})
	time.Sleep(20 * time.Millisecond)

	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 after sweep", s.Len())
	}
	cancel()
}

func TestPendingStore_ConcurrentAccess(t *testing.T) {
	s := NewPendingStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", n)
			s.Put(user, common.Address{})
			s.Get(user)
			s.Delete(user)
		}(i)
	}
	wg.Wait()

	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}
