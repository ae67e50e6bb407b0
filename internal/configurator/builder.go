// Package configurator implements the guided hose assembly builder: a
// four-step wizard selecting a hose type, an inner diameter and length,
// and two end fittings, with a derived assembly price.
package configurator

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Wizard step boundaries.
const (
	StepHoseType = 1
	StepDiameter = 2
	StepFittings = 3
	StepReview   = 4

	TotalSteps = 4
)

// Length bounds in feet.
const (
	MinLength     = 1
	MaxLength     = 100
	DefaultLength = 6
)

// Unknown-selection errors. The builder validates that selections refer to
// real reference entries; everything else is free-form.
var (
	ErrUnknownHoseType = errors.New("unknown hose type")
	ErrUnknownDiameter = errors.New("unknown diameter")
	ErrUnknownFitting  = errors.New("unknown fitting")
	ErrStepOutOfRange  = errors.New("step out of range")
)

// Attribute is an ordered key/value pair describing a completed
// configuration on a cart line.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Builder holds the in-progress hose configuration and the current wizard
// step. The zero value is not usable; call New.
//
// Builder is not safe for concurrent use; the owning session serializes
// access.
type Builder struct {
	hoseType *HoseType
	diameter *Diameter
	length   int
	fittingA *Fitting
	fittingB *Fitting

	step int
}

// New returns an empty Builder at step 1 with the default length.
func New() *Builder {
	return &Builder{length: DefaultLength, step: StepHoseType}
}

// Reset returns the builder to its initial empty state.
func (b *Builder) Reset() {
	*b = Builder{length: DefaultLength, step: StepHoseType}
}

// SelectHoseType sets the hose type by reference id.
func (b *Builder) SelectHoseType(id string) error {
	ht := HoseTypeByID(id)
	if ht == nil {
		return errors.Wrap(ErrUnknownHoseType, id)
	}
	b.hoseType = ht
	return nil
}

// SelectDiameter sets the diameter by reference id. Fittings already chosen
// are re-validated against the new diameter's compatibility list; any
// fitting no longer compatible is cleared.
func (b *Builder) SelectDiameter(id string) error {
	dia := DiameterByID(id)
	if dia == nil {
		return errors.Wrap(ErrUnknownDiameter, id)
	}
	b.diameter = dia
	if b.fittingA != nil && !b.fittingA.CompatibleWith(dia.ID) {
		b.fittingA = nil
	}
	if b.fittingB != nil && !b.fittingB.CompatibleWith(dia.ID) {
		b.fittingB = nil
	}
	return nil
}

// SetLength sets the hose length in feet, clamped to [MinLength, MaxLength].
func (b *Builder) SetLength(feet int) {
	if feet < MinLength {
		feet = MinLength
	}
	if feet > MaxLength {
		feet = MaxLength
	}
	b.length = feet
}

// SelectFittingA sets the first end fitting by reference id.
func (b *Builder) SelectFittingA(id string) error {
	f := FittingByID(id)
	if f == nil {
		return errors.Wrap(ErrUnknownFitting, id)
	}
	b.fittingA = f
	return nil
}

// SelectFittingB sets the second end fitting by reference id.
func (b *Builder) SelectFittingB(id string) error {
	f := FittingByID(id)
	if f == nil {
		return errors.Wrap(ErrUnknownFitting, id)
	}
	b.fittingB = f
	return nil
}

// Accessors for the current selection. Nil means unselected.

func (b *Builder) HoseType() *HoseType { return b.hoseType }
func (b *Builder) Diameter() *Diameter { return b.diameter }
func (b *Builder) Length() int         { return b.length }
func (b *Builder) FittingA() *Fitting  { return b.fittingA }
func (b *Builder) FittingB() *Fitting  { return b.fittingB }
func (b *Builder) Step() int           { return b.step }

// CompatibleFittings returns the fittings usable with the selected
// diameter, or the full fitting catalog when no diameter is chosen yet.
func (b *Builder) CompatibleFittings() []Fitting {
	if b.diameter == nil {
		return Fittings()
	}
	var out []Fitting
	for _, f := range Fittings() {
		if f.CompatibleWith(b.diameter.ID) {
			out = append(out, f)
		}
	}
	return out
}

// Price returns the derived assembly price:
//
//	pricePerFoot * diameter multiplier * length + fitting prices
//
// rounded to two decimal places. It is zero while the hose type or
// diameter is unset.
func (b *Builder) Price() decimal.Decimal {
	if b.hoseType == nil || b.diameter == nil {
		return decimal.Zero
	}
	price := b.hoseType.PricePerFoot.
		Mul(b.diameter.Multiplier).
		Mul(decimal.NewFromInt(int64(b.length)))
	if b.fittingA != nil {
		price = price.Add(b.fittingA.Price)
	}
	if b.fittingB != nil {
		price = price.Add(b.fittingB.Price)
	}
	return price.Round(2)
}

// CanAdvance reports whether the guard for the current step passes:
// step 1 needs a hose type, step 2 a diameter and positive length, step 3
// both fittings; the review step is always passable.
func (b *Builder) CanAdvance() bool {
	switch b.step {
	case StepHoseType:
		return b.hoseType != nil
	case StepDiameter:
		return b.diameter != nil && b.length > 0
	case StepFittings:
		return b.fittingA != nil && b.fittingB != nil
	case StepReview:
		return true
	default:
		return false
	}
}

// Next advances to the following step when the current step's guard
// passes. It reports whether the step changed.
func (b *Builder) Next() bool {
	if b.step >= TotalSteps || !b.CanAdvance() {
		return false
	}
	b.step++
	return true
}

// Prev moves back one step; always permitted down to step 1.
func (b *Builder) Prev() bool {
	if b.step <= StepHoseType {
		return false
	}
	b.step--
	return true
}

// GoTo jumps directly to the given step. Direct navigation bypasses the
// step guards; only the range is checked.
func (b *Builder) GoTo(step int) error {
	if step < StepHoseType || step > TotalSteps {
		return errors.Wrapf(ErrStepOutOfRange, "step %d", step)
	}
	b.step = step
	return nil
}

// IsComplete reports whether every field of the configuration is populated
// with a positive length.
func (b *Builder) IsComplete() bool {
	return b.hoseType != nil &&
		b.diameter != nil &&
		b.length > 0 &&
		b.fittingA != nil &&
		b.fittingB != nil
}

// CartAttributes returns the ordered key/value pairs describing a completed
// configuration for a cart line. Incomplete configurations yield nil.
func (b *Builder) CartAttributes() []Attribute {
	if !b.IsComplete() {
		return nil
	}
	return []Attribute{
		{Key: "Hose Type", Value: b.hoseType.Name},
		{Key: "Inner Diameter", Value: b.diameter.Name},
		{Key: "Length", Value: fmt.Sprintf("%d ft", b.length)},
		{Key: "Fitting A", Value: b.fittingA.Name},
		{Key: "Fitting B", Value: b.fittingB.Name},
		{Key: "Calculated Price", Value: b.Price().StringFixed(2)},
	}
}

// Description returns a short human-readable summary of a completed
// configuration, used as the display name of generated cart lines.
func (b *Builder) Description() string {
	if !b.IsComplete() {
		return ""
	}
	return fmt.Sprintf("Custom Hose Assembly: %s, %s x %d ft, %s / %s",
		b.hoseType.Name, b.diameter.Name, b.length, b.fittingA.Name, b.fittingB.Name)
}
