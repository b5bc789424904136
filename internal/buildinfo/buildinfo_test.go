package buildinfo

import "testing"

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = version, commit, date
}

func TestShort(t *testing.T) {
	cases := []struct {
		version, commit, want string
	}{
		{"dev", "unknown", "dev"},
		{"dev", "abc1234", "abc1234"},
		{"v0.4.0", "abc1234", "v0.4.0"},
	}
	for _, tc := range cases {
		stamp(t, tc.version, tc.commit, "unknown")
		if got := Short(); got != tc.want {
			t.Fatalf("Short() with %q/%q = %q, want %q", tc.version, tc.commit, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	stamp(t, "v0.4.0", "abc1234", "2026-10-01")
	if got, want := String(), "v0.4.0 (abc1234) built 2026-10-01"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	stamp(t, "dev", "abc1234", "unknown")
	if got := String(); got != "abc1234" {
		t.Fatalf("String() = %q, want abc1234", got)
	}
}
