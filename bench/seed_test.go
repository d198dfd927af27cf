package bench

import "testing"

func TestSeedEmail(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{i: 0, want: "alex0@skynet.res"},
		{i: 7, want: "alex7@skynet.res"},
		{i: 9999, want: "alex9999@skynet.res"},
	}

	for _, tt := range tests {
		if got := seedEmail(tt.i); got != tt.want {
			t.Fatalf("seedEmail(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}
}
