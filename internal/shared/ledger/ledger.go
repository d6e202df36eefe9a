package ledger

// Payment is one outgoing monetary transfer in the system's single atomic
// native-value unit. Batches submitted together settle all-or-nothing.
type Payment struct {
	Recipient string
	Amount    int64
}
