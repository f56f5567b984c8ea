// Package charge bills platform fees to users and collects them from their
// wallets. A charge is created against an owning record (an order, booking
// or listing) in status init, advances through pending, and is collected
// exactly once when it reaches completed. Completed charges are immutable
// and a transition to the status a charge already holds is rejected.
package charge
