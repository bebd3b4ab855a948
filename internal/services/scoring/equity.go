package scoring

// growth momentum thresholds, in percent
const (
	monthlyGrowthStrong = 10
	monthlyGrowthSolid  = 5
	weeklyGrowthStrong  = 3
)

// innovationCredits biases the innovation score towards research-heavy
// sectors.
var innovationCredits = map[string]float64{
	"Semiconductors":       35,
	"Cloud Computing":      30,
	"Software":             25,
	"Consumer Electronics": 15,
	"Luxury":               5,
}

// GrowthScore rates an equity's expected growth from its recent price
// momentum. Same base-and-fixed-weights policy as the other sub-scores.
func GrowthScore(weeklyChangePct, monthlyChangePct float64) float64 {
	score := 50.0

	switch {
	case monthlyChangePct > monthlyGrowthStrong:
		score += 20
	case monthlyChangePct > monthlyGrowthSolid:
		score += 10
	case monthlyChangePct < -monthlyGrowthStrong:
		score -= 20
	case monthlyChangePct < -monthlyGrowthSolid:
		score -= 10
	}

	switch {
	case weeklyChangePct > weeklyGrowthStrong:
		score += 10
	case weeklyChangePct < -weeklyGrowthStrong:
		score -= 10
	}

	return clamp(score)
}

// InnovationScore rates a sector's innovation intensity. Sectors outside
// the credit table score neutral.
func InnovationScore(sector string) float64 {
	return clamp(50 + innovationCredits[sector])
}

// EquityReasons explains an equity/tech opportunity from its sub-scores.
func EquityReasons(technical, growth, innovation float64) []string {
	var reasons []string

	if technical > 75 {
		reasons = append(reasons, "excellent short-term technical momentum")
	}
	if growth > 70 {
		reasons = append(reasons, "strong expected revenue growth")
	}
	if innovation > 80 {
		reasons = append(reasons, "leading position in technological innovation")
	}

	return reasons
}

// EquityRisks lists the risk factors of an equity opportunity by sector.
func EquityRisks(sector string) []string {
	risks := []string{"equity market volatility"}

	switch sector {
	case "Software":
		risks = append(risks, "intense competition in software development")
	case "Semiconductors":
		risks = append(risks, "dependency on semiconductor cycles")
	case "Cloud Computing":
		risks = append(risks, "data security and privacy challenges")
	case "Luxury":
		risks = append(risks, "sensitivity to economic cycles")
	case "Food":
		risks = append(risks, "commodity price exposure")
	default:
		risks = append(risks, "sector-specific risks")
	}

	return risks
}
