package models

// Stats aggregates per-outcome counts over a record's rows. Total always
// equals the number of rows; rows with an empty or unrecognized symbol
// contribute to Total only.
type Stats struct {
	NotHome   int
	CallAgain int
	Busy      int
	Child     int
	Man       int
	Woman     int
	Total     int
}

// Count returns the counter for a recognized code, zero otherwise.
func (s Stats) Count(sym Symbol) int {
	switch sym {
	case SymbolNotHome:
		return s.NotHome
	case SymbolCallAgain:
		return s.CallAgain
	case SymbolBusy:
		return s.Busy
	case SymbolChild:
		return s.Child
	case SymbolMan:
		return s.Man
	case SymbolWoman:
		return s.Woman
	default:
		return 0
	}
}

// CalcStats computes Stats over rows. A nil slice yields zero stats.
func CalcStats(rows []Row) Stats {
	stats := Stats{Total: len(rows)}
	for _, row := range rows {
		switch row.Symbol {
		case SymbolNotHome:
			stats.NotHome++
		case SymbolCallAgain:
			stats.CallAgain++
		case SymbolBusy:
			stats.Busy++
		case SymbolChild:
			stats.Child++
		case SymbolMan:
			stats.Man++
		case SymbolWoman:
			stats.Woman++
		case SymbolNone:
			// counted in Total only
		}
	}
	return stats
}
