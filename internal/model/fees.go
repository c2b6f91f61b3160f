package model

// FeeMode selects how brokerage fees are charged.
type FeeMode string

const (
	// FeeFlat charges a fixed fee per trade leg.
	FeeFlat FeeMode = "flat"
	// FeePct charges a fraction of the trade notional per leg.
	FeePct FeeMode = "pct"
)

// FeeConfig describes the brokerage fee structure. Fees apply to both
// legs; in pct mode the sell leg is charged on the post-gain notional.
type FeeConfig struct {
	Mode    FeeMode `yaml:"mode" json:"mode"`
	FlatFee float64 `yaml:"flat_fee" json:"flat_fee"`
	PctFee  float64 `yaml:"pct_fee" json:"pct_fee"`
}

// BuyFee returns the fee charged on the buy leg for the given investment.
func (f FeeConfig) BuyFee(investment float64) float64 {
	if f.Mode == FeePct {
		return investment * f.PctFee
	}
	return f.FlatFee
}

// SellFee returns the fee charged on the sell leg, computed against the
// post-gain notional in pct mode.
func (f FeeConfig) SellFee(investment, grossTargetPct float64) float64 {
	if f.Mode == FeePct {
		return investment * (1 + grossTargetPct) * f.PctFee
	}
	return f.FlatFee
}
