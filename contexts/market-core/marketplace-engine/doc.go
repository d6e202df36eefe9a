// Package marketplaceengine orchestrates the two-phase marketplace: the
// administrator-priced primary sale (mint) and the owner-initiated resale
// protocol (list/delist/buy), including the payment split at each transfer.
//
// Every mutating command runs under a single-writer guard; mint and buy also
// reject re-entry issued from within a payment callback. Payments precede
// state mutation, so a failed transfer aborts an operation with no state to
// unwind.
package marketplaceengine
