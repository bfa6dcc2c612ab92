package services

import "math"

// TrustScore blends institutional authority with crowd feedback: a
// verified answer starts at 90, summed approval weights add at most 10,
// and the whole score is scaled by the helpfulness ratio when any ratings
// exist. An answer can be verified and heavily approved yet still score
// low if the community finds it unhelpful.
func TrustScore(verified bool, approvalWeightSum, helpful, notHelpful int) int {
	score := 0.0
	if verified {
		score = 90
	}

	bonus := float64(approvalWeightSum) / 2
	if bonus > 10 {
		bonus = 10
	}
	score += bonus

	if total := helpful + notHelpful; total > 0 {
		score *= float64(helpful) / float64(total)
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
