package token

// Metadata describes the reward currency.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// DefaultMetadata is used when genesis does not configure the token.
func DefaultMetadata() Metadata {
	return Metadata{Name: "MovieReward", Symbol: "MRT", Decimals: 18}
}
