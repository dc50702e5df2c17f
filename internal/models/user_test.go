package models

import "testing"

func TestSplitName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Ann Lee", "Ann", "Lee"},
		{"Ann Mary Lee", "Ann", "Mary Lee"},
		{"Ann", "Ann", ""},
		{"", "", ""},
		{"  Ann   Lee  ", "Ann", "Lee"},
	}
	for _, c := range cases {
		first, last := SplitName(c.in)
		if first != c.first || last != c.last {
			t.Fatalf("SplitName(%q) = %q, %q; want %q, %q", c.in, first, last, c.first, c.last)
		}
	}
}

func TestFullName(t *testing.T) {
	u := &User{FirstName: "Ann", LastName: "Lee"}
	if got := u.FullName(); got != "Ann Lee" {
		t.Fatalf("FullName() = %q", got)
	}
	u = &User{FirstName: "Ann"}
	if got := u.FullName(); got != "Ann" {
		t.Fatalf("FullName() = %q", got)
	}
	u = &User{}
	if got := u.FullName(); got != "" {
		t.Fatalf("FullName() = %q", got)
	}
}
