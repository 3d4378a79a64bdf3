package window

import (
	"sync"
	"testing"
)

func TestRequestsKeepLatestVisibility(t *testing.T) {
	var r requests
	if _, ok := r.take(); ok {
		t.Fatal("empty requests reported a change")
	}

	r.setVisible(false)
	r.setVisible(true)
	v, ok := r.take()
	if !ok || !v {
		t.Errorf("take() = %v, %v; want true, true", v, ok)
	}
	if _, ok := r.take(); ok {
		t.Error("take did not clear the request")
	}
}

func TestRequestsConcurrentProducer(t *testing.T) {
	var r requests
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			r.setVisible(i%2 == 0)
		}
	}()
	for range 1000 {
		r.take()
	}
	wg.Wait()
	r.setVisible(false)
	if v, ok := r.take(); !ok || v {
		t.Errorf("take() = %v, %v; want false, true", v, ok)
	}
}
