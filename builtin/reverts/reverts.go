// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert for callers that map failures to responses.
type Kind uint8

const (
	Validation Kind = iota
	Authorization
	InsufficientFunds
	Paused
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case InsufficientFunds:
		return "insufficient-funds"
	case Paused:
		return "paused"
	default:
		return "validation"
	}
}

// ErrRevert is a business rule failure. Every state change of the failing call is discarded.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of a revert error, false if err is not one.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}

var (
	ErrInvalidAmount         = New(Validation, "invalid amount")
	ErrLengthMismatch        = New(Validation, "thresholds and discounts length mismatch")
	ErrUnsortedThresholds    = New(Validation, "thresholds must be strictly ascending")
	ErrInvalidDiscount       = New(Validation, "discount exceeds 100")
	ErrInvalidFee            = New(Validation, "fee exceeds 10000 basis points")
	ErrUnknownPool           = New(Validation, "unknown pool")
	ErrPoolExists            = New(Validation, "pool already exists for asset")
	ErrUnknownToken          = New(Validation, "unknown token")
	ErrZeroAddress           = New(Validation, "zero address")
	ErrZeroPendingGovernor   = New(Validation, "pending governance address cannot be 0x0")
	ErrInsufficientBalance   = New(InsufficientFunds, "insufficient staked balance")
	ErrInsufficientAvailable = New(InsufficientFunds, "amount exceeds available earnings")
	ErrInsufficientFunds     = New(InsufficientFunds, "insufficient token balance")
	ErrInsufficientAllowance = New(InsufficientFunds, "insufficient allowance")
	ErrOnlyGovernance        = New(Authorization, "only governance")
	ErrUnknownSource         = New(Authorization, "caller is not a registered earning source")
	ErrNotMinter             = New(Authorization, "caller is not a minter")
	ErrPaused                = New(Paused, "paused")
	ErrNotPaused             = New(Paused, "not paused")
)
