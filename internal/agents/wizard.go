// Package agents implements agent creation, lifecycle and funding detection.
package agents

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/wallet"
)

// ErrValidation is returned when draft input fails validation.
var ErrValidation = errors.New("validation failed")

const (
	MinNameLength = 3
	MaxNameLength = 40
)

// minimumFunding is the smallest accepted funding target per chain,
// in native units.
var minimumFunding = map[domain.Chain]decimal.Decimal{
	domain.ChainSolana:   decimal.RequireFromString("0.1"),
	domain.ChainEthereum: decimal.RequireFromString("0.01"),
	domain.ChainBase:     decimal.RequireFromString("0.01"),
}

// MinimumFunding returns the smallest funding target for chain.
func MinimumFunding(chain domain.Chain) (decimal.Decimal, bool) {
	d, ok := minimumFunding[chain]
	return d, ok
}

// Step is a page of the creation wizard.
type Step int

const (
	StepBasics Step = iota
	StepWallet
	StepFunding
	StepReview
)

var stepNames = [...]string{"BASICS", "WALLET", "FUNDING", "REVIEW"}

func (s Step) String() string {
	if s < StepBasics || s > StepReview {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Draft is the user input collected by the wizard.
type Draft struct {
	Name          string          `json:"name"`
	Strategy      domain.Strategy `json:"strategy"`
	Chain         domain.Chain    `json:"chain"`
	WalletAddress string          `json:"walletAddress"`
	FundingTarget string          `json:"fundingTarget"`
}

// Normalize trims input and upper-cases enum fields.
func (d Draft) Normalize() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Strategy = domain.Strategy(strings.ToUpper(strings.TrimSpace(string(d.Strategy))))
	d.Chain = domain.ParseChain(string(d.Chain))
	d.WalletAddress = strings.TrimSpace(d.WalletAddress)
	d.FundingTarget = strings.TrimSpace(d.FundingTarget)
	return d
}

// ValidateStep checks the fields owned by step.
func (d Draft) ValidateStep(step Step) error {
	switch step {
	case StepBasics:
		n := utf8.RuneCountInString(d.Name)
		if n < MinNameLength || n > MaxNameLength {
			return fmt.Errorf("%w: name must be %d-%d characters", ErrValidation, MinNameLength, MaxNameLength)
		}
		if !d.Strategy.IsValid() {
			return fmt.Errorf("%w: unknown strategy %q", ErrValidation, string(d.Strategy))
		}
	case StepWallet:
		if !d.Chain.IsValid() {
			return fmt.Errorf("%w: unknown chain %q", ErrValidation, string(d.Chain))
		}
		if err := wallet.ValidateAddress(d.Chain, d.WalletAddress); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	case StepFunding:
		target, err := d.Target()
		if err != nil {
			return err
		}
		minimum, ok := MinimumFunding(d.Chain)
		if !ok {
			return fmt.Errorf("%w: unknown chain %q", ErrValidation, string(d.Chain))
		}
		if target.LessThan(minimum) {
			return fmt.Errorf("%w: funding target must be at least %s %s", ErrValidation, minimum, d.Chain.NativeSymbol())
		}
	case StepReview:
	default:
		return fmt.Errorf("%w: unknown step %d", ErrValidation, int(step))
	}
	return nil
}

// Validate checks every step.
func (d Draft) Validate() error {
	for s := StepBasics; s <= StepReview; s++ {
		if err := d.ValidateStep(s); err != nil {
			return err
		}
	}
	return nil
}

// Target parses the funding target.
func (d Draft) Target() (decimal.Decimal, error) {
	target, err := decimal.NewFromString(d.FundingTarget)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: funding target %q is not a number", ErrValidation, d.FundingTarget)
	}
	return target, nil
}

// Wizard walks a Draft through the creation steps.
type Wizard struct {
	step  Step
	draft Draft
}

// NewWizard starts at StepBasics with an empty draft.
func NewWizard() *Wizard {
	return &Wizard{step: StepBasics}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// Draft returns the normalized draft.
func (w *Wizard) Draft() Draft {
	return w.draft.Normalize()
}

// Update edits the draft in place.
func (w *Wizard) Update(fn func(*Draft)) {
	fn(&w.draft)
}

// Next validates the current step and advances. It is a no-op on REVIEW.
func (w *Wizard) Next() error {
	if err := w.Draft().ValidateStep(w.step); err != nil {
		return err
	}
	if w.step < StepReview {
		w.step++
	}
	return nil
}

// Back returns to the previous step without validating.
func (w *Wizard) Back() {
	if w.step > StepBasics {
		w.step--
	}
}

// Submit validates every step and returns the draft to create.
func (w *Wizard) Submit() (Draft, error) {
	d := w.Draft()
	if err := d.Validate(); err != nil {
		return Draft{}, err
	}
	return d, nil
}
