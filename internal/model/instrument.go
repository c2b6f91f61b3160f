package model

// Instrument is one entry of the investable universe.
// Static reference data; the engine never mutates it.
type Instrument struct {
	Ticker string `yaml:"ticker" json:"ticker"`
	Name   string `yaml:"name" json:"name"`
	Sector string `yaml:"sector" json:"sector"`
}
