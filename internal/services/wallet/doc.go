/*
Package wallet owns the per-user balance aggregate. It is the only
component allowed to mutate balance fields.

Operations:
  - GetOrCreate: lazy, idempotent wallet creation (one wallet per user)
  - Credit / Debit: move money into or out of the available or pending
    balance, all-or-nothing, inside a row-locked database transaction
  - MovePendingToAvailable: release held funds after order completion
  - GetAvailableBalance / GetPendingBalance: read-only queries

Every mutation validates first (amount positivity, balance sufficiency)
and commits the wallet row in a single write, so no call can leave either
balance negative. The Tx variants run against caller-supplied
transaction-bound repositories so processors can flip a ledger record's
status and move balance in one unit of work.
*/
package wallet
