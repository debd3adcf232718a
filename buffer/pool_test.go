package buffer

import (
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestPoolReusesExactSize(t *testing.T) {
	t.Parallel()
	p := NewRecyclePool()
	first := p.GetBuffer(1024)
	if len(first) != 1024 {
		t.Fatalf("len = %d, want 1024", len(first))
	}
	first[0] = 0xFF
	p.RecycleBuffer(first, 1024)

	second := p.GetBuffer(1024)
	if &second[0] != &first[0] {
		t.Error("same-size request should reuse the recycled allocation")
	}
	if second[0] != 0 {
		t.Error("recycled buffer should be zeroed")
	}

	third := p.GetBuffer(2048)
	if len(third) != 2048 {
		t.Fatalf("len = %d, want 2048", len(third))
	}
}

func TestPoolRecycleUnderAllocatedSize(t *testing.T) {
	t.Parallel()
	p := NewRecyclePool()
	buf := p.GetBuffer(4096)
	// The consumer only used 100 bytes, but recycling happens under the
	// allocated length so a future 4096 request can be served.
	p.RecycleBuffer(buf[:100], 4096)
	got := p.GetBuffer(4096)
	if len(got) != 4096 {
		t.Fatalf("len = %d, want 4096", len(got))
	}
	if &got[0] != &buf[0] {
		t.Error("recycle under allocated length should restore the full buffer")
	}
}

func TestPoolRejectsBadRequests(t *testing.T) {
	t.Parallel()
	p := NewRecyclePool()
	if p.GetBuffer(0) != nil {
		t.Error("zero-length request should return nil")
	}
	if p.GetBuffer(-1) != nil {
		t.Error("negative request should return nil")
	}
	if p.GetBuffer(maxPooledSize+1) != nil {
		t.Error("oversized request should return nil")
	}
	// Recycling junk must not poison the pool.
	p.RecycleBuffer(nil, 128)
	p.RecycleBuffer(make([]byte, 10), 128)
	got := p.GetBuffer(128)
	if len(got) != 128 {
		t.Fatalf("len = %d, want 128", len(got))
	}
}

func TestPoolBoundsRetention(t *testing.T) {
	t.Parallel()
	p := NewRecyclePool()
	for i := 0; i < buffersPerSize*3; i++ {
		p.RecycleBuffer(make([]byte, 64), 64)
	}
	p.mu.Lock()
	retained := len(p.free[64])
	p.mu.Unlock()
	if retained != buffersPerSize {
		t.Errorf("retained = %d, want %d", retained, buffersPerSize)
	}
}

func TestPoolConcurrentUse(t *testing.T) {
	t.Parallel()
	p := NewRecyclePool()
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		size := 256 << (i % 3)
		g.Go(func() error {
			for j := 0; j < 500; j++ {
				buf := p.GetBuffer(size)
				if len(buf) != size {
					t.Errorf("len = %d, want %d", len(buf), size)
					return nil
				}
				buf[0] = byte(j)
				p.RecycleBuffer(buf, size)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
