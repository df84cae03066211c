package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/outfit/pkg/engine"
	"github.com/arthur-debert/outfit/pkg/errors"
)

func newStore() Registry[engine.Source] {
	return New[engine.Source](errors.ErrTemplateNotFound)
}

func TestSet(t *testing.T) {
	reg := newStore()

	t.Run("set valid item", func(t *testing.T) {
		if err := reg.Set("hello", engine.Inline("hello", "hi")); err != nil {
			t.Fatalf("Set() error = %v, want nil", err)
		}
		if len(reg.List()) != 1 {
			t.Errorf("List() = %v, want one name", reg.List())
		}
	})

	t.Run("set with empty name", func(t *testing.T) {
		err := reg.Set("", engine.Inline("", "x"))
		if !errors.IsErrorCode(err, errors.ErrInvalidInput) {
			t.Errorf("Set() with empty name should return ErrInvalidInput, got %v", err)
		}
	})

	t.Run("set replaces", func(t *testing.T) {
		if err := reg.Set("hello", engine.Inline("hello", "again")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, _ := reg.Get("hello")
		if string(got.Content) != "again" {
			t.Errorf("Get() after Set() = %q, want %q", got.Content, "again")
		}
	})
}

func TestGetAndRemove(t *testing.T) {
	reg := newStore()
	_ = reg.Set("a", engine.Inline("a", "x"))

	if _, err := reg.Get("missing"); !errors.IsErrorCode(err, errors.ErrTemplateNotFound) {
		t.Errorf("Get() missing should return the registry's not-found code, got %v", err)
	}
	if err := reg.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := reg.Get("a"); err == nil {
		t.Error("item should not exist after removal")
	}
	if err := reg.Remove("a"); !errors.IsErrorCode(err, errors.ErrTemplateNotFound) {
		t.Errorf("Remove() missing should fail, got %v", err)
	}
}

func TestList(t *testing.T) {
	reg := newStore()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		_ = reg.Set(name, engine.Inline(name, name))
	}

	list := reg.List()
	expected := []string{"alpha", "bravo", "charlie"}
	if fmt.Sprint(list) != fmt.Sprint(expected) {
		t.Errorf("List() = %v, want %v", list, expected)
	}
}

func TestConcurrency(t *testing.T) {
	reg := newStore()
	const goroutines = 10
	const itemsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < itemsPerGoroutine; i++ {
				name := fmt.Sprintf("g%d/t%d", id, i)
				if err := reg.Set(name, engine.Inline(name, "x")); err != nil {
					t.Errorf("concurrent Set() failed: %v", err)
				}
			}
		}(g)
	}
	wg.Wait()

	if got := len(reg.List()); got != goroutines*itemsPerGoroutine {
		t.Errorf("List() has %d names, want %d", got, goroutines*itemsPerGoroutine)
	}
}
