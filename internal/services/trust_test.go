package services

import "testing"

func TestTrustScore(t *testing.T) {
	cases := []struct {
		name              string
		verified          bool
		weightSum         int
		helpful           int
		notHelpful        int
		want              int
	}{
		{name: "nothing at all", want: 0},
		{name: "verified only", verified: true, want: 90},
		{name: "verified with small weight rounds up", verified: true, weightSum: 1, want: 91},
		{name: "weight bonus caps at ten", verified: true, weightSum: 200, want: 100},
		{name: "unverified weight counts half", weightSum: 6, want: 3},
		{name: "unverified weight still caps at ten", weightSum: 500, want: 10},
		{name: "split ratings halve the score", verified: true, weightSum: 20, helpful: 1, notHelpful: 1, want: 50},
		{name: "unanimous helpful keeps full score", verified: true, weightSum: 20, helpful: 7, want: 100},
		{name: "unanimous not helpful zeroes it", verified: true, weightSum: 200, notHelpful: 3, want: 0},
		{name: "ratio on unverified answer", weightSum: 20, helpful: 3, notHelpful: 1, want: 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TrustScore(tc.verified, tc.weightSum, tc.helpful, tc.notHelpful)
			if got != tc.want {
				t.Fatalf("TrustScore(%v, %d, %d, %d) = %d, want %d",
					tc.verified, tc.weightSum, tc.helpful, tc.notHelpful, got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("score %d out of [0,100]", got)
			}
		})
	}
}
