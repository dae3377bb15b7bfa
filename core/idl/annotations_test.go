package idl

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAnnotationsKeysSorted(t *testing.T) {
	a := Annotations{}
	a.Set("zeta", "1")
	a.Set("alpha", "2")
	a.Set("mu", "3")

	want := []string{"alpha", "mu", "zeta"}
	if got := a.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestAnnotationsEachOrder(t *testing.T) {
	a := Annotations{"b": "2", "a": "1", "c": "3"}

	var order []string
	a.Each(func(k, v string) {
		order = append(order, k+"="+v)
	})

	want := []string{"a=1", "b=2", "c=3"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Each() order = %v, want %v", order, want)
	}
}

func TestAnnotationsLastWriteWins(t *testing.T) {
	a := Annotations{}
	a.Set("key", "first")
	a.Set("key", "second")

	if v, ok := a.Get("key"); !ok || v != "second" {
		t.Errorf("Get(key) = %q, %v, want %q, true", v, ok, "second")
	}
	if len(a) != 1 {
		t.Errorf("len = %d, want 1", len(a))
	}
}

func TestAnnotationsJSONSorted(t *testing.T) {
	a := Annotations{"z": "1", "a": "2"}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"a":"2","z":"1"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestAnnotationsClone(t *testing.T) {
	a := Annotations{"k": "v"}
	c := a.Clone()
	c.Set("k", "changed")
	if v, _ := a.Get("k"); v != "v" {
		t.Error("Clone should not share storage with the original")
	}

	if Annotations(nil).Clone() != nil {
		t.Error("Clone of empty annotations should be nil")
	}
}
