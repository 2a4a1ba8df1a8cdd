package domain

import "errors"

// PlacementStage tracks the cart-to-order workflow. A placement attempt moves
// Validating -> Inserting -> Clearing -> Completed; any failure lands in
// Failed. Completed and Failed are terminal.
type PlacementStage string

const (
	StageValidating PlacementStage = "validating"
	StageInserting  PlacementStage = "inserting"
	StageClearing   PlacementStage = "clearing"
	StageCompleted  PlacementStage = "completed"
	StageFailed     PlacementStage = "failed"
)

var ErrPlacementTerminal = errors.New("placement attempt already terminal")

// Placement is the in-flight state of one placement attempt. It holds no
// persisted state; each attempt works from a fresh cart read.
type Placement struct {
	stage PlacementStage
}

// NewPlacement starts an attempt in the validating stage.
func NewPlacement() *Placement {
	return &Placement{stage: StageValidating}
}

// Stage returns the current stage.
func (p *Placement) Stage() PlacementStage {
	return p.stage
}

// Advance moves to the next stage in the happy path.
func (p *Placement) Advance() error {
	switch p.stage {
	case StageValidating:
		p.stage = StageInserting
	case StageInserting:
		p.stage = StageClearing
	case StageClearing:
		p.stage = StageCompleted
	default:
		return ErrPlacementTerminal
	}
	return nil
}

// Fail moves a non-terminal attempt to the failed stage.
func (p *Placement) Fail() error {
	if p.Terminal() {
		return ErrPlacementTerminal
	}
	p.stage = StageFailed
	return nil
}

// Terminal reports whether the attempt has finished, successfully or not.
func (p *Placement) Terminal() bool {
	return p.stage == StageCompleted || p.stage == StageFailed
}
