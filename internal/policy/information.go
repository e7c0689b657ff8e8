package policy

// DefaultInfoCashBuffer is the minimum cash kept aside when pricing a
// premium signal purchase.
const DefaultInfoCashBuffer = 0.30

// ShouldBuyPremium decides whether the premium forecast is worth its price
// this epoch. Affordability is checked first and unconditionally: the
// portfolio never spends its last cash on information.
//
// The safety margin shrinks as risk tolerance grows: a conservative caller
// demands the signal be worth well above its cost, an aggressive one buys
// close to break-even.
func ShouldBuyPremium(cash, premiumCost, evpi, riskTolerance, minCashBuffer float64) bool {
	if cash < premiumCost+minCashBuffer {
		return false
	}
	safetyMargin := 1.25 - 0.35*riskTolerance
	return evpi > premiumCost*safetyMargin
}
