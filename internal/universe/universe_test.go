package universe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PEAScout/internal/model"
)

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, len(Default), cat.Len())

	ins, ok := cat.Get("OR.PA")
	require.True(t, ok)
	assert.Equal(t, "L'Oréal", ins.Name)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.yaml")
	content := `instruments:
  - ticker: AI.PA
    name: Air Liquide
    sector: Matériaux
  - ticker: MC.PA
    name: LVMH
    sector: Luxe
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AI.PA", "MC.PA"}, cat.Tickers())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNew_RejectsEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyUniverse)

	// Blank tickers are dropped; all-blank is still empty.
	_, err = New([]model.Instrument{{Name: "nameless"}})
	assert.ErrorIs(t, err, ErrEmptyUniverse)
}

func TestNew_DeduplicatesTickers(t *testing.T) {
	cat, err := New([]model.Instrument{
		{Ticker: "AI.PA", Name: "Air Liquide"},
		{Ticker: "AI.PA", Name: "duplicate"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	ins, _ := cat.Get("AI.PA")
	assert.Equal(t, "Air Liquide", ins.Name, "first entry wins")
}
