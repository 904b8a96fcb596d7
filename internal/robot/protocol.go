// Package robot simulates a single-channel liquid-handling robot running the
// PCR aliquot protocol: 50 µL from well A1 into wells A2 through A9 with one
// tip. The simulation is native; no external simulator process is invoked.
package robot

import (
	"errors"
	"fmt"
)

// Labware and instrument definitions used by the aliquot protocol.
const (
	PlateName   = "Corning 96 Well Plate 360 µL Flat"
	TipRackName = "Opentrons 96 Tip Rack 300 µL"
	PipetteName = "P300 Single"

	WellCapacity   = 360.0 // µL per plate well
	PipetteMax     = 300.0 // µL per aspiration
	TransferVolume = 50.0  // µL per aliquot
)

var (
	ErrNoTip    = errors.New("pipette has no tip attached")
	ErrTipInUse = errors.New("pipette already carries a tip")
)

// VolumeError reports a liquid-handling step that would overfill the pipette
// or a destination well, or dispense liquid the pipette does not hold.
type VolumeError struct {
	Well    string
	Message string
}

func (e *VolumeError) Error() string {
	return fmt.Sprintf("volume error at well %s: %s", e.Well, e.Message)
}

// Pipette models a single-channel pipette with one attached tip at a time.
type Pipette struct {
	hasTip bool
	held   float64
}

// Protocol is a deck setup plus the sequence of steps Run will execute.
// Source well contents are not volume-tracked (the deck does not know how
// much liquid a well starts with); dispensed volumes are.
type Protocol struct {
	dispensed map[string]float64
	pipette   *Pipette
	log       []string
}

// NewProtocol builds the aliquot deck: the plate on slot 1, the tip rack on
// slot 2, and the pipette on the right mount.
func NewProtocol() *Protocol {
	p := &Protocol{
		dispensed: make(map[string]float64),
		pipette:   &Pipette{},
	}

	p.logf("Loading %s on slot 1", PlateName)
	p.logf("Loading %s on slot 2", TipRackName)
	p.logf("Loading %s on right mount", PipetteName)

	return p
}

// Run executes the aliquot protocol and returns the full ordered log.
func (p *Protocol) Run() ([]string, error) {
	if err := p.pickUpTip(); err != nil {
		return p.log, err
	}

	dests := []string{"A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9"}
	for _, dest := range dests {
		if err := p.aspirate(TransferVolume, "A1"); err != nil {
			return p.log, err
		}
		if err := p.dispense(TransferVolume, dest); err != nil {
			return p.log, err
		}
	}

	if err := p.dropTip(); err != nil {
		return p.log, err
	}

	return p.log, nil
}

// Dispensed returns the volume dispensed into a well so far.
func (p *Protocol) Dispensed(well string) float64 {
	return p.dispensed[well]
}

func (p *Protocol) pickUpTip() error {
	if p.pipette.hasTip {
		return ErrTipInUse
	}
	p.pipette.hasTip = true
	p.logf("Picking up tip from A1 of %s on slot 2", TipRackName)
	return nil
}

func (p *Protocol) dropTip() error {
	if !p.pipette.hasTip {
		return ErrNoTip
	}
	p.pipette.hasTip = false
	p.logf("Dropping tip into trash")
	return nil
}

func (p *Protocol) aspirate(volume float64, from string) error {
	if !p.pipette.hasTip {
		return ErrNoTip
	}
	if p.pipette.held+volume > PipetteMax {
		return &VolumeError{Well: from,
			Message: fmt.Sprintf("pipette capacity %.1f µL exceeded", PipetteMax)}
	}

	p.pipette.held += volume
	p.logf("Aspirating %.1f uL from %s of %s on slot 1", volume, from, PlateName)
	return nil
}

func (p *Protocol) dispense(volume float64, into string) error {
	if !p.pipette.hasTip {
		return ErrNoTip
	}
	if p.pipette.held < volume {
		return &VolumeError{Well: into,
			Message: fmt.Sprintf("pipette holds %.1f µL, cannot dispense %.1f µL", p.pipette.held, volume)}
	}
	if p.dispensed[into]+volume > WellCapacity {
		return &VolumeError{Well: into,
			Message: fmt.Sprintf("well capacity %.1f µL exceeded", WellCapacity)}
	}

	p.dispensed[into] += volume
	p.pipette.held -= volume
	p.logf("Dispensing %.1f uL into %s of %s on slot 1", volume, into, PlateName)
	return nil
}

func (p *Protocol) logf(format string, args ...any) {
	p.log = append(p.log, fmt.Sprintf(format, args...))
}
