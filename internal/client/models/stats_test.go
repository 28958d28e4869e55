package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcStats_NilRows(t *testing.T) {
	stats := CalcStats(nil)
	assert.Equal(t, Stats{}, stats)
}

func TestCalcStats_TotalEqualsRowCount(t *testing.T) {
	rows := []Row{
		{ID: "1", Symbol: SymbolNotHome},
		{ID: "2", Symbol: SymbolNone},
		{ID: "3", Symbol: "XX"}, // unrecognized, Total only
		{ID: "4", Symbol: SymbolWoman},
	}
	stats := CalcStats(rows)
	assert.Equal(t, 4, stats.Total)

	recognized := stats.NotHome + stats.CallAgain + stats.Busy + stats.Child + stats.Man + stats.Woman
	assert.LessOrEqual(t, recognized, stats.Total)
	assert.Equal(t, 2, recognized)
}

func TestCalcStats_MapleAveScenario(t *testing.T) {
	rows := []Row{
		{ID: "1", HouseNo: "12", Symbol: SymbolNotHome},
		{ID: "2", HouseNo: "14", Symbol: SymbolCallAgain},
	}
	stats := CalcStats(rows)
	assert.Equal(t, 1, stats.NotHome)
	assert.Equal(t, 1, stats.CallAgain)
	assert.Equal(t, 0, stats.Busy)
	assert.Equal(t, 2, stats.Total)
}

func TestParseSymbol(t *testing.T) {
	assert.Equal(t, SymbolNotHome, ParseSymbol("NH"))
	assert.Equal(t, SymbolNone, ParseSymbol(""))
	assert.Equal(t, SymbolNone, ParseSymbol("nope"))
}

func TestSymbol_Recognized(t *testing.T) {
	for _, sym := range Symbols {
		assert.True(t, sym.Recognized(), "symbol %q", sym)
	}
	assert.False(t, SymbolNone.Recognized())
	assert.False(t, Symbol("ZZ").Recognized())
}

func TestRecord_Clone_IsIndependent(t *testing.T) {
	r := &Record{ID: "r1", Street: "Maple Ave", Rows: []Row{{ID: "a", HouseNo: "1"}}}
	c := r.Clone()

	r.Street = "Oak St"
	r.Rows[0].HouseNo = "99"
	r.Rows = append(r.Rows, Row{ID: "b"})

	assert.Equal(t, "Maple Ave", c.Street)
	assert.Equal(t, "1", c.Rows[0].HouseNo)
	assert.Len(t, c.Rows, 1)
}
