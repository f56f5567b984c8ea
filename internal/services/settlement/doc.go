// Package settlement turns order lifecycle notifications into provider
// earnings. A paid order puts its amount on hold in the provider's pending
// balance; a completed paid order releases the hold into available funds.
// Each phase is applied at most once per order, so the order subsystem may
// notify as often as it likes.
package settlement
