package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeLabel(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 0, want: "0B"},
		{in: -1, want: "0B"},
		{in: 900, want: "900B"},
		{in: 1536, want: "1KB"},
		{in: 5 << 20, want: "5MB"},
		{in: 5<<20 + 1, want: "5MB"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sizeLabel(tt.in))
	}
}
