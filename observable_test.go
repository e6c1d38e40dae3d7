package treemovie

import "testing"

func TestObservableNotifiesOnChange(t *testing.T) {
	var o Observable[int]
	var got []int
	o.Subscribe(func(v int) { got = append(got, v) })

	o.set(1)
	o.set(1)
	o.set(2)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("notifications = %v, want [1 2]", got)
	}
	if o.Get() != 2 {
		t.Errorf("Get = %d, want 2", o.Get())
	}
}

func TestObservableRemoveStopsNotifications(t *testing.T) {
	var o Observable[string]
	calls := 0
	h := o.Subscribe(func(string) { calls++ })
	o.set("a")
	h.Remove()
	h.Remove()
	o.set("b")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestObservableMultipleSubscribers(t *testing.T) {
	var o Observable[bool]
	a, b := 0, 0
	o.Subscribe(func(bool) { a++ })
	h := o.Subscribe(func(bool) { b++ })
	o.set(true)
	h.Remove()
	o.set(false)
	if a != 2 || b != 1 {
		t.Errorf("a = %d b = %d, want 2 and 1", a, b)
	}
}
