package auditmap

import (
	"testing"
	"unsafe"
)

func TestSetGetDelete(t *testing.T) {
	var m Map
	var a, b int

	m.Set(uintptr(unsafe.Pointer(&a)), unsafe.Pointer(&a))
	m.Set(uintptr(unsafe.Pointer(&b)), unsafe.Pointer(&b))

	if got := m.Get(uintptr(unsafe.Pointer(&a))); got != unsafe.Pointer(&a) {
		t.Errorf("Get(a) = %v, want %v", got, unsafe.Pointer(&a))
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	m.Delete(uintptr(unsafe.Pointer(&a)))
	if got := m.Get(uintptr(unsafe.Pointer(&a))); got != nil {
		t.Errorf("Get(a) after delete = %v, want nil", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len() after delete = %d, want 1", m.Len())
	}
}

func TestGetMissingKey(t *testing.T) {
	var m Map
	if got := m.Get(123); got != nil {
		t.Errorf("Get on empty map = %v, want nil", got)
	}
}

func TestGrowPreservesEntries(t *testing.T) {
	var m Map
	values := make([]int, 100)
	for i := range values {
		values[i] = i
		m.Set(uintptr(i+1), unsafe.Pointer(&values[i]))
	}

	if m.Len() != len(values) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(values))
	}
	for i := range values {
		got := (*int)(m.Get(uintptr(i + 1)))
		if got == nil || *got != i {
			t.Errorf("Get(%d) = %v, want pointer to %d", i+1, got, i)
		}
	}
}

func TestDeleteReinsertsProbeChain(t *testing.T) {
	var m Map
	var vals [8]int
	for i := range vals {
		vals[i] = i
		m.Set(uintptr(i), unsafe.Pointer(&vals[i]))
	}

	m.Delete(2)

	for i := range vals {
		if i == 2 {
			continue
		}
		got := (*int)(m.Get(uintptr(i)))
		if got == nil || *got != i {
			t.Errorf("Get(%d) after deleting key 2 = %v, want pointer to %d", i, got, i)
		}
	}
}

func TestForEachVisitsEveryEntry(t *testing.T) {
	var m Map
	var vals [5]int
	want := make(map[uintptr]bool)
	for i := range vals {
		vals[i] = i
		m.Set(uintptr(i), unsafe.Pointer(&vals[i]))
		want[uintptr(i)] = true
	}

	seen := make(map[uintptr]bool)
	m.ForEach(func(k uintptr, v unsafe.Pointer) {
		seen[k] = true
	})

	if len(seen) != len(want) {
		t.Fatalf("ForEach visited %d entries, want %d", len(seen), len(want))
	}
	for k := range want {
		if !seen[k] {
			t.Errorf("ForEach did not visit key %d", k)
		}
	}
}
