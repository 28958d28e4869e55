package models

// Symbol is the closed enumeration of visit outcome codes. The empty
// string means "no outcome recorded yet".
type Symbol string

const (
	SymbolNone      Symbol = ""
	SymbolNotHome   Symbol = "NH"
	SymbolCallAgain Symbol = "CA"
	SymbolBusy      Symbol = "B"
	SymbolChild     Symbol = "C"
	SymbolMan       Symbol = "M"
	SymbolWoman     Symbol = "W"
)

// Symbols lists every recognized outcome code in display order,
// excluding SymbolNone.
var Symbols = []Symbol{
	SymbolNotHome,
	SymbolCallAgain,
	SymbolBusy,
	SymbolChild,
	SymbolMan,
	SymbolWoman,
}

// Desc returns the human-readable meaning of the code.
func (s Symbol) Desc() string {
	switch s {
	case SymbolNone:
		return "None"
	case SymbolNotHome:
		return "Not Home"
	case SymbolCallAgain:
		return "Call Again"
	case SymbolBusy:
		return "Busy"
	case SymbolChild:
		return "Child"
	case SymbolMan:
		return "Man"
	case SymbolWoman:
		return "Woman"
	default:
		return "Unknown"
	}
}

// Recognized reports whether s is a member of the enumeration.
// SymbolNone is valid on a row but is not a recognized outcome.
func (s Symbol) Recognized() bool {
	switch s {
	case SymbolNotHome, SymbolCallAgain, SymbolBusy, SymbolChild, SymbolMan, SymbolWoman:
		return true
	default:
		return false
	}
}

// ParseSymbol maps user input to a Symbol. Unrecognized input maps to
// SymbolNone so records stay well-formed regardless of what was typed.
func ParseSymbol(s string) Symbol {
	sym := Symbol(s)
	if sym.Recognized() {
		return sym
	}
	return SymbolNone
}
