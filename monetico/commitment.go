package monetico

import "time"

// Commitment is one scheduled partial payment of a multi-installment
// request. Order matters: serialization assigns 1-based indexes in input
// order. The sum of commitment amounts is deliberately not checked against
// the request total; the processor owns that policy.
type Commitment struct {
	Date   time.Time
	Amount Money
}
