package s3

import "testing"

func TestJoinPrefix(t *testing.T) {
	tests := []struct {
		parentID string
		name     string
		want     string
	}{
		{"", "Migrated Photos", "Migrated Photos/"},
		{"Migrated Photos/", "Vacation", "Migrated Photos/Vacation/"},
		{"Migrated Photos/Vacation/", "2019", "Migrated Photos/Vacation/2019/"},
		// a name with stray slashes must not produce empty path segments
		{"root/", "/Family/", "root/Family/"},
	}
	for _, tc := range tests {
		if got := joinPrefix(tc.parentID, tc.name); got != tc.want {
			t.Errorf("joinPrefix(%q, %q) = %q, want %q", tc.parentID, tc.name, got, tc.want)
		}
	}
}
