package domain

import "errors"

var (
	ErrInfeasibleAllocation = errors.New("infeasible allocation: not enough slots")
	ErrOptimizerInfeasible  = errors.New("optimizer found no valid assignment")
	ErrInvalidConfiguration = errors.New("invalid allocation configuration")
	ErrInvalidInstance      = errors.New("invalid allocation instance")
	ErrFlightNotAssigned    = errors.New("flight not assigned")
)
