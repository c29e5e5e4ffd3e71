package interfaces

// IPaymentMetrics records business outcomes of the payment flow.
type IPaymentMetrics interface {
	ObserveOrder(planID, outcome string)
	ObserveSettlement(planID, outcome string)
	ObserveSettlementConflict()
}
