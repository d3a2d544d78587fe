package utils

import "testing"

func TestTitleCase(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"alice", "Alice"},
		{"ALICE", "Alice"},
		{"aLiCe", "Alice"},
		{"  bob  ", "Bob"},
		{"x", "X"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := TitleCase(tc.in); got != tc.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
