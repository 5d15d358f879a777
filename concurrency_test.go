// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
)

// TestConcurrentLazyLogin verifies that concurrent first requests share one login
func TestConcurrentLazyLogin(t *testing.T) {
	var logins, gets atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			logins.Add(1)
			loginOK(t, w, r, "/api")
		default:
			if _, err := r.Cookie("session_cookie"); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			gets.Add(1)
			w.Write([]byte(`[{"name":"leaf1"}]`)) //nolint:errcheck // test server
		}
	})
	client, _ := newLoginClient(t, handler)

	const numGoroutines = 20
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			node := client.Root().Attr("core").Attr("switch").Attr(fmt.Sprintf("n%d", id))
			if _, err := node.Get(context.Background()); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Get failed: %v", err)
	}
	if logins.Load() != 1 {
		t.Errorf("login count = %d, want 1", logins.Load())
	}
	if gets.Load() != numGoroutines {
		t.Errorf("authenticated requests = %d, want %d", gets.Load(), numGoroutines)
	}
}

// TestConcurrentMixedOperations exercises reads, writes and accessors together
func TestConcurrentMixedOperations(t *testing.T) {
	f := &fakeController{body: `{}`}
	client := newDataClient(t, f)
	ctx := context.Background()
	node := client.Root().Attr("core").Attr("switch_config")

	const iterations = 10
	var wg sync.WaitGroup
	errs := make(chan error, iterations*4)

	for i := 0; i < iterations; i++ {
		wg.Add(4)
		go func() {
			defer wg.Done()
			if _, err := node.Get(ctx); err != nil {
				errs <- err
			}
		}()
		go func(i int) {
			defer wg.Done()
			if _, err := node.Post(ctx, NewAttrMap().Set("name", fmt.Sprintf("leaf%d", i))); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = client.URL()
			_ = client.HasCredentials()
		}()
		go func() {
			defer wg.Done()
			if err := client.Close(); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent operation failed: %v", err)
	}
	if f.count() != iterations*2 {
		t.Errorf("requests = %d, want %d", f.count(), iterations*2)
	}
}

// BenchmarkConcurrentGet measures parallel reads through one client
func BenchmarkConcurrentGet(b *testing.B) {
	f := &fakeController{body: `[]`}
	client := newDataClient(b, f)
	node := client.Root().Attr("core").Attr("switch")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := node.Get(context.Background()); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
