package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	h.Append(d1, "replaced")
	if h.Len() != 2 {
		t.Errorf("Append(d1, replaced).Len() = %v want 2", h.Len())
	}
	if v, _ := h.Get(d1); v != "replaced" {
		t.Errorf("Get(d1) = %q want %q", v, "replaced")
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 31), 10)
	h.Append(New(2024, 3, 31), 30)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOk bool
	}{
		{"before first", New(2024, 1, 1), 0, false},
		{"exact", New(2024, 1, 31), 10, true},
		{"between", New(2024, 2, 29), 10, true},
		{"after last", New(2024, 12, 31), 30, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if got != tc.want || ok != tc.wantOk {
				t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOk)
			}
		})
	}
}

func TestBetween(t *testing.T) {
	h := new(History[int])
	for i, d := range MonthEnds(New(2023, 12, 31), New(2024, 6, 30)) {
		h.Append(d, i)
	}
	got := h.Between(New(2024, 1, 1), New(2024, 3, 31))
	if got.Len() != 3 {
		t.Fatalf("Between().Len() = %v want 3", got.Len())
	}
	if d, v := got.Latest(); d != New(2024, 3, 31) || v != 3 {
		t.Errorf("Between().Latest() = %v, %v want 2024-03-31, 3", d, v)
	}
}
