package models

// RichListEntry is one bucket of a wealth distribution chart
type RichListEntry struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RichList is a ranked or bucketed view of balances for a chain.
// Available is false when the chain has no richlist source.
type RichList struct {
	Blockchain ChainID
	Available  bool
	Entries    []RichListEntry
	Note       string
}
