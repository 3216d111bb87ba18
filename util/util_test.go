// util/util_test.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestSelect(t *testing.T) {
	if Select(true, 1, 2) != 1 || Select(false, 1, 2) != 2 {
		t.Errorf("Select returned the wrong value")
	}
}

func TestFilterSlice(t *testing.T) {
	a := []int{1, 2, 3, 4, 5, 6}
	even := func(i int) bool { return i%2 == 0 }
	if f := FilterSlice(a, even); !slices.Equal(f, []int{2, 4, 6}) {
		t.Errorf("FilterSlice: got %v", f)
	}
	if f := FilterSliceInPlace(slices.Clone(a), even); !slices.Equal(f, []int{2, 4, 6}) {
		t.Errorf("FilterSliceInPlace: got %v", f)
	}
}

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{"ridge": 1, "cloud": 2, "tail": 3}
	if k := SortedMapKeys(m); !slices.Equal(k, []string{"cloud", "ridge", "tail"}) {
		t.Errorf("got %v", k)
	}
}

func TestRingBuffer(t *testing.T) {
	r := NewRingBuffer[int](3)
	for i := range 5 {
		r.Add(i)
	}
	if r.Size() != 3 {
		t.Fatalf("got size %d, expected 3", r.Size())
	}
	for i, expected := range []int{2, 3, 4} {
		if v := r.Get(i); v != expected {
			t.Errorf("Get(%d): got %d, expected %d", i, v, expected)
		}
	}
	r.Clear()
	if r.Size() != 0 {
		t.Errorf("Clear didn't empty the buffer")
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.Err(errors.New("base")) != nil {
		t.Errorf("expected no error")
	}

	e.Push("glider paraglider")
	e.Push("polar")
	e.ErrorString("speed %d must be positive", -3)
	e.Pop()
	e.Pop()

	base := errors.New("bad definition")
	err := e.Err(base)
	if !errors.Is(err, base) {
		t.Errorf("error doesn't wrap base: %v", err)
	}
	if !strings.Contains(err.Error(), "glider paraglider / polar: speed -3 must be positive") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

type cacheTest struct {
	Name   string
	Points [][3]float32
	Count  int
}

func TestEncodeDecodeObject(t *testing.T) {
	obj := cacheTest{Name: "ridge", Points: [][3]float32{{1, 2, 3}, {-4, 5, 6}}, Count: 12}

	var buf bytes.Buffer
	if err := EncodeObject(&buf, obj); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var back cacheTest
	if err := DecodeObject(&buf, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Name != obj.Name || back.Count != obj.Count || !slices.Equal(back.Points, obj.Points) {
		t.Errorf("got %+v, expected %+v", back, obj)
	}

	path := filepath.Join(t.TempDir(), "sub", "snap.msgpack.zst")
	if err := StoreObject(path, obj); err != nil {
		t.Fatalf("store: %v", err)
	}
	back = cacheTest{}
	if err := RetrieveObject(path, &back); err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if back.Name != obj.Name {
		t.Errorf("retrieved %+v", back)
	}
}
