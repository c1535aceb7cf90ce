package schema

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want Version
	}{
		{"1.0.0", Version{1, 0, 0}},
		{"1.2.3", Version{1, 2, 3}},
		{"10.20.30", Version{10, 20, 30}},
		{"1.0.0-beta", Version{1, 0, 0}},
		{"1.0.0+build.17", Version{1, 0, 0}},
		{"1.0.0-rc1+sha.deadbeef", Version{1, 0, 0}},
		{" 1 . 2 . 3 ", Version{1, 2, 3}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.raw)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, raw := range []string{"", "1", "1.0", "1.0.0.0", "a.b.c", "1.x.0", "-1.0.0+meta"} {
		_, err := Parse(raw)
		var vfe *VersionFormatError
		if !errors.As(err, &vfe) {
			t.Errorf("Parse(%q) err = %v, want VersionFormatError", raw, err)
		}
	}
}

func TestCheckCompatible(t *testing.T) {
	supported := Version{1, 1, 0}

	for _, declared := range []Version{{1, 0, 0}, {1, 1, 0}, {1, 1, 5}} {
		if err := Check(supported, declared); err != nil {
			t.Errorf("Check(%v, %v): %v", supported, declared, err)
		}
	}
}

func TestCheckMinorTooNew(t *testing.T) {
	err := Check(Version{1, 1, 0}, Version{1, 2, 0})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
	if se.Declared != (Version{1, 2, 0}) {
		t.Errorf("declared = %v", se.Declared)
	}
}

func TestCheckMajorMismatch(t *testing.T) {
	err := Check(Version{1, 1, 0}, Version{2, 0, 0})
	var mme *MajorMismatchError
	if !errors.As(err, &mme) {
		t.Fatalf("err = %v, want MajorMismatchError", err)
	}
}
