package types

// ContractViolation is the panic value used when a type is built or
// passed around in a shape that its consumer does not accept. It signals a
// bug in whoever constructed the type, not a type error in user code.
type ContractViolation struct {
	Reason string
}

func (c ContractViolation) Error() string {
	return "internal contract violation: " + c.Reason
}
