// Package treasury accumulates the platform's custodied value (fee shares,
// rounding remainders, and donated mint overpayment) and releases it only
// through the administrator's full withdrawal.
package treasury
