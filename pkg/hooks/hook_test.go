package hooks

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// createOnly implements CreateHook and nothing else.
type createOnly struct{ calls *[]string }

func (c createOnly) Create(v *vdom.VNode) error {
	*c.calls = append(*c.calls, "createOnly")
	return nil
}

func TestNewRegistersByCapability(t *testing.T) {
	var calls []string
	d := New(createOnly{&calls}, &Recorder{}, nil)

	tests := []struct {
		hook Name
		want int
	}{
		{Create, 2},
		{Insert, 1},
		{Move, 1},
		{Update, 1},
		{Remove, 1},
		{Name("bogus"), 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.hook), func(t *testing.T) {
			if got := d.Len(tt.hook); got != tt.want {
				t.Errorf("Len(%s) = %d, want %d", tt.hook, got, tt.want)
			}
		})
	}
}

func TestDispatchOrder(t *testing.T) {
	var calls []string
	first := Funcs{OnCreate: func(*vdom.VNode) error { calls = append(calls, "first"); return nil }}
	last := Funcs{OnCreate: func(*vdom.VNode) error { calls = append(calls, "last"); return nil }}
	d := New(first, createOnly{&calls}, last)

	if err := d.Create(vdom.Text("x")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"first", "createOnly", "last"}, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchStopsOnError(t *testing.T) {
	boom := stderrors.New("boom")
	var reached bool
	d := New(
		Funcs{OnRemove: func(*vdom.VNode, vdom.Handle) error { return boom }},
		Funcs{OnRemove: func(*vdom.VNode, vdom.Handle) error { reached = true; return nil }},
	)

	err := d.Remove(vdom.H("div", vdom.K("a")), 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	if reached {
		t.Error("dispatch should stop at the first failing subscriber")
	}
	if !stderrors.Is(err, errors.ErrHookFailure) {
		t.Errorf("err = %v, want HookFailure", err)
	}
	if !stderrors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped cause", err)
	}
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	v := vdom.Text("x")
	if d.Create(v) != nil || d.Insert(v, 1, 0) != nil || d.Move(v, 1, 0) != nil ||
		d.Update(v, v) != nil || d.Remove(v, 1) != nil {
		t.Error("nil dispatcher should be a no-op")
	}
	if d.Len(Create) != 0 {
		t.Error("nil dispatcher has no subscribers")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	d := New(r)
	v := vdom.H("li", vdom.K(1))
	v.Elm = 4

	_ = d.Create(v)
	_ = d.Insert(v, 1, 0)
	_ = d.Move(v, 1, 3)
	_ = d.Update(v, v)
	_ = d.Remove(v, 1)

	want := []Name{Create, Insert, Move, Update, Remove}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if r.Count(Move) != 1 {
		t.Errorf("Count(Move) = %d", r.Count(Move))
	}
	if got := r.Events[2].String(); got != "move <li key=1> #4 in #1 before #3" {
		t.Errorf("String = %q", got)
	}

	r.Reset()
	if len(r.Events) != 0 {
		t.Error("Reset should clear events")
	}
}
