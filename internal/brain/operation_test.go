package brain

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestOperationChain(t *testing.T) {
	a := NewOperation("A", nil)
	b := NewOperation("B", nil)
	c := NewOperation("C", nil)

	a.SetNext(b).SetNext(c)

	if a.Next() != b || b.Next() != c {
		t.Fatal("chain links wrong")
	}
	if b.Parent() != a || c.Parent() != b {
		t.Fatal("parent links wrong")
	}
	if a.Last() != c {
		t.Error("Last did not reach the tail")
	}
	if a.Parent() != nil {
		t.Error("head has no parent")
	}
}

func TestOperationExecuteSuccess(t *testing.T) {
	ran := false
	op := NewOperation("ok", func(context.Context, *Operation) error {
		ran = true
		return nil
	})
	op.Execute(context.Background())

	if !ran {
		t.Fatal("body never ran")
	}
	if !op.Completed() || op.CompletedWithErrors() {
		t.Error("clean run should complete without errors")
	}
}

func TestOperationExecuteError(t *testing.T) {
	boom := errors.New("boom")
	op := NewOperation("fail", func(context.Context, *Operation) error {
		return boom
	})
	op.Execute(context.Background())

	if !op.Completed() {
		t.Fatal("a failed operation is still finished")
	}
	if !op.CompletedWithErrors() {
		t.Fatal("error was not recorded")
	}
	if errs := op.Errors(); len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Errorf("errors = %v", errs)
	}
}

func TestOperationExecuteNotReady(t *testing.T) {
	calls := 0
	op := NewOperation("waiting", func(context.Context, *Operation) error {
		calls++
		if calls < 3 {
			return ErrNotReady
		}
		return nil
	})

	op.Execute(context.Background())
	if op.Completed() {
		t.Fatal("not-ready must leave the operation pending")
	}
	if len(op.Errors()) != 0 {
		t.Fatal("not-ready is not an error")
	}

	op.Execute(context.Background())
	op.Execute(context.Background())
	if !op.Completed() || op.CompletedWithErrors() {
		t.Errorf("operation should complete cleanly on call 3 (calls=%d)", calls)
	}
}

func TestOperationExecutePanic(t *testing.T) {
	op := NewOperation("explode", func(context.Context, *Operation) error {
		panic("kaboom")
	})
	op.Execute(context.Background())

	if !op.CompletedWithErrors() {
		t.Fatal("panic must finish the operation with errors")
	}
	errs := op.Errors()
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "explode") {
		t.Errorf("panic error should name the tag: %v", errs)
	}
}

func TestOperationNilBody(t *testing.T) {
	op := NewOperation("empty", nil)
	op.Execute(context.Background())
	if !op.Completed() || op.CompletedWithErrors() {
		t.Error("a nil body completes cleanly")
	}
}
