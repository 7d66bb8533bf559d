package dropbox

import (
	"reflect"
	"testing"
)

func TestItemPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/Camera Uploads/2019/beach.jpg", []string{"Camera Uploads", "2019"}},
		{"/Camera Uploads/beach.jpg", []string{"Camera Uploads"}},
		{"/beach.jpg", nil},
		{"", nil},
	}
	for _, tc := range tests {
		if got := itemPath(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("itemPath(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
