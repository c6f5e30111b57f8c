package date

import "testing"

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-01-02", New(2024, 1, 2), false},
		{"2024-1-2", New(2024, 1, 2), false},
		{"2024-01-02T00:00:00.000Z", New(2024, 1, 2), false},
		{"2024-01-02 16:00:00", New(2024, 1, 2), false},
		{"01/02/2024", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestEndOfMonth(t *testing.T) {
	testCases := []struct{ in, want string }{
		{"2024-02-01", "2024-02-29"},
		{"2023-02-28", "2023-02-28"},
		{"2024-12-15", "2024-12-31"},
		{"2024-04-30", "2024-04-30"},
	}
	for _, tc := range testCases {
		if got := MustParse(tc.in).EndOf(Monthly).String(); got != tc.want {
			t.Errorf("EndOf(Monthly) of %s = %s want %s", tc.in, got, tc.want)
		}
	}
}
