// Package universe supplies the fixed list of investable instruments.
// The engine treats the catalog as read-only reference data.
package universe

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"PEAScout/internal/model"
)

// ErrEmptyUniverse is returned when a catalog resolves to zero instruments.
var ErrEmptyUniverse = errors.New("universe: no instruments in catalog")

// Catalog is an ordered, read-only instrument universe.
type Catalog struct {
	instruments []model.Instrument
	byTicker    map[string]model.Instrument
}

// Default is the built-in CAC 40 subset used when no catalog file is
// configured. Tickers carry Yahoo Finance suffixes (.PA = Euronext Paris).
var Default = []model.Instrument{
	{Ticker: "AI.PA", Name: "Air Liquide", Sector: "Matériaux"},
	{Ticker: "AIR.PA", Name: "Airbus", Sector: "Industrie"},
	{Ticker: "BN.PA", Name: "Danone", Sector: "Consommation courante"},
	{Ticker: "BNP.PA", Name: "BNP Paribas", Sector: "Financier"},
	{Ticker: "CA.PA", Name: "Carrefour", Sector: "Consommation courante"},
	{Ticker: "CAP.PA", Name: "Capgemini", Sector: "Technologie"},
	{Ticker: "CS.PA", Name: "AXA", Sector: "Financier"},
	{Ticker: "DG.PA", Name: "Vinci", Sector: "Industrie"},
	{Ticker: "DSY.PA", Name: "Dassault Systèmes", Sector: "Technologie"},
	{Ticker: "EL.PA", Name: "EssilorLuxottica", Sector: "Santé"},
	{Ticker: "ENGI.PA", Name: "Engie", Sector: "Énergie"},
	{Ticker: "KER.PA", Name: "Kering", Sector: "Consommation discrétionnaire"},
	{Ticker: "MC.PA", Name: "LVMH", Sector: "Consommation discrétionnaire"},
	{Ticker: "OR.PA", Name: "L'Oréal", Sector: "Consommation courante"},
	{Ticker: "RI.PA", Name: "Pernod Ricard", Sector: "Consommation courante"},
	{Ticker: "SAN.PA", Name: "Sanofi", Sector: "Santé"},
	{Ticker: "SGO.PA", Name: "Saint-Gobain", Sector: "Industrie"},
	{Ticker: "SU.PA", Name: "Schneider Electric", Sector: "Industrie"},
	{Ticker: "TTE.PA", Name: "TotalEnergies", Sector: "Énergie"},
	{Ticker: "VIE.PA", Name: "Veolia", Sector: "Services publics"},
}

// Load reads a YAML catalog file. An empty path returns the built-in
// default universe.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(Default)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	var file struct {
		Instruments []model.Instrument `yaml:"instruments"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	return New(file.Instruments)
}

// New builds a catalog from an instrument slice.
func New(instruments []model.Instrument) (*Catalog, error) {
	if len(instruments) == 0 {
		return nil, ErrEmptyUniverse
	}
	byTicker := make(map[string]model.Instrument, len(instruments))
	kept := make([]model.Instrument, 0, len(instruments))
	for _, ins := range instruments {
		if ins.Ticker == "" {
			continue
		}
		if _, dup := byTicker[ins.Ticker]; dup {
			continue
		}
		byTicker[ins.Ticker] = ins
		kept = append(kept, ins)
	}
	if len(kept) == 0 {
		return nil, ErrEmptyUniverse
	}
	return &Catalog{instruments: kept, byTicker: byTicker}, nil
}

// Instruments returns the catalog in file order.
func (c *Catalog) Instruments() []model.Instrument { return c.instruments }

// Tickers returns all ticker symbols in file order.
func (c *Catalog) Tickers() []string {
	out := make([]string, len(c.instruments))
	for i, ins := range c.instruments {
		out[i] = ins.Ticker
	}
	return out
}

// Get looks an instrument up by ticker.
func (c *Catalog) Get(ticker string) (model.Instrument, bool) {
	ins, ok := c.byTicker[ticker]
	return ins, ok
}

// Len returns the number of instruments.
func (c *Catalog) Len() int { return len(c.instruments) }
