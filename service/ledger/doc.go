// Package ledger tracks a fixed memory budget.  Reservations and releases
// are serialised so that used capacity never exceeds the total, whatever
// the number of concurrent callers.
package ledger
