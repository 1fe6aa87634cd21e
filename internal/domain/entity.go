package domain

// AddressEntity is a reference-directory row mapping an address to a
// human-readable identity. Read-only from the engine's perspective.
type AddressEntity struct {
	Address     string
	AddressType string // CEX | DEX | WHALE | CONTRACT | ...
	EntityName  string
	Label       string
	Category    string
	IsFamous    bool
}

// Address type constants for the reference directory.
const (
	AddressTypeCEX      = "CEX"
	AddressTypeDEX      = "DEX"
	AddressTypeWhale    = "WHALE"
	AddressTypeContract = "CONTRACT"
)

// IsExchange reports whether the entity is a known exchange wallet. Exchange
// addresses must never appear as whales in aggregate output.
func (e *AddressEntity) IsExchange() bool {
	return e.AddressType == AddressTypeCEX || e.AddressType == AddressTypeDEX
}
