package snowflake

import (
	"sync"
	"testing"
)

func TestGenID(t *testing.T) {
	id := GenID()
	if id <= 0 {
		t.Fatalf("expected id > 0, got %d", id)
	}
}

// 并发生成不能重复
func TestGenID_Concurrent(t *testing.T) {
	const (
		goroutines = 16
		perRoutine = 2000
	)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{}, goroutines*perRoutine)
	)

	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perRoutine; i++ {
				id := GenID()
				mu.Lock()
				if _, exists := ids[id]; exists {
					mu.Unlock()
					t.Errorf("duplicate id found: %d", id)
					return
				}
				ids[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestInit_RejectsOutOfRangeNode(t *testing.T) {
	if err := Init(1 << 20); err == nil {
		t.Fatal("expected error for node id out of range")
	}
	if err := Init(3); err != nil {
		t.Fatalf("init node 3: %v", err)
	}
	prev := GenID()
	for i := 0; i < 100; i++ {
		curr := GenID()
		if curr <= prev {
			t.Fatalf("ids not increasing: prev=%d curr=%d", prev, curr)
		}
		prev = curr
	}
}
