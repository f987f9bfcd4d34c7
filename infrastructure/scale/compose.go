package scale

import "fmt"

// Mode selects how tare inputs are sourced. It only governs which
// inputs take part in composition: ModeNone forces both unit tares to
// zero, ModeAuto and ModeManual compose with whatever is currently set
// (auto means the learning store pre-filled the fields).
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
	ModeNone   Mode = "none"
)

// ParseMode validates a tare mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeManual, ModeNone:
		return Mode(s), nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("invalid tare mode: %q", s)
}

// Composition is the transient result of combining tare sources with a
// gross reading. It is recomputed on every input change and never stored.
type Composition struct {
	ProductTareKg   float64 `json:"productTareKg"`
	PackagingTareKg float64 `json:"packagingTareKg"`
	TotalTareKg     float64 `json:"totalTareKg"`
	NetKg           float64 `json:"netKg"`
}

// Compose combines product tare and packaging tare into a total and
// derives the net weight. Quantities are clamped to non-negative
// values. Net may go negative when the gross reading is smaller than
// the total tare; that is a displayable operator-error state, not a
// failure.
func Compose(unitTareKg float64, boxQty int, pkgUnitTareKg float64, pkgQty int, grossKg float64, mode Mode) Composition {
	if boxQty < 0 {
		boxQty = 0
	}
	if pkgQty < 0 {
		pkgQty = 0
	}
	if mode == ModeNone {
		unitTareKg = 0
		pkgUnitTareKg = 0
	}

	productTare := unitTareKg * float64(boxQty)
	packagingTare := pkgUnitTareKg * float64(pkgQty)
	total := productTare + packagingTare
	return Composition{
		ProductTareKg:   productTare,
		PackagingTareKg: packagingTare,
		TotalTareKg:     total,
		NetKg:           grossKg - total,
	}
}
