// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token ledger used for staked assets, the reward token
// and the boost token.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/solidity"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	logger = log.WithContext("pkg", "token")

	slotMetadata   = solidity.Slot("metadata")
	slotBalances   = solidity.Slot("balances")
	slotAllowances = solidity.Slot("allowances")
	slotSupply     = solidity.Slot("total-supply")
	slotMinters    = solidity.Slot("minters")

	TransferEvent = solidity.NewEvent("Transfer(address,address,uint256)")
	ApprovalEvent = solidity.NewEvent("Approval(address,address,uint256)")

	MinterUpdatedEvent = solidity.NewEvent("MinterUpdated(address,bool)")
)

// Metadata describes a token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
	Owner    yum.Address
}

type allowanceKey struct {
	owner   yum.Address
	spender yum.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token is the ledger of a single token at its own address.
type Token struct {
	sctx       *solidity.Context
	metadata   *solidity.Raw[*Metadata]
	balances   *solidity.Mapping[yum.Address, *big.Int]
	allowances *solidity.Mapping[allowanceKey, *big.Int]
	supply     *solidity.Uint256
	minters    *solidity.Mapping[yum.Address, bool]
}

// New create a new instance.
func New(addr yum.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		sctx:       sctx,
		metadata:   solidity.NewRaw[*Metadata](sctx, slotMetadata),
		balances:   solidity.NewMapping[yum.Address, *big.Int](sctx, slotBalances),
		allowances: solidity.NewMapping[allowanceKey, *big.Int](sctx, slotAllowances),
		supply:     solidity.NewUint256(sctx, slotSupply),
		minters:    solidity.NewMapping[yum.Address, bool](sctx, slotMinters),
	}
}

func (t *Token) Address() yum.Address {
	return t.sctx.Address()
}

// Initialize stores the token metadata. It fails if the token already exists.
func (t *Token) Initialize(meta *Metadata) error {
	exists, err := t.Exists()
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("token %v already initialized", t.Address())
	}
	return t.metadata.Upsert(meta)
}

// Exists returns whether the token has been initialized.
func (t *Token) Exists() (bool, error) {
	meta, err := t.metadata.Get()
	if err != nil {
		return false, err
	}
	return meta != nil, nil
}

func (t *Token) Metadata() (*Metadata, error) {
	meta, err := t.metadata.Get()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, reverts.ErrUnknownToken
	}
	return meta, nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

func (t *Token) BalanceOf(addr yum.Address) (*big.Int, error) {
	return orZero(t.balances.Get(addr))
}

func (t *Token) Allowance(owner, spender yum.Address) (*big.Int, error) {
	return orZero(t.allowances.Get(allowanceKey{owner, spender}))
}

func (t *Token) IsMinter(addr yum.Address) (bool, error) {
	return t.minters.Get(addr)
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to yum.Address, amount *big.Int) error {
	return t.sctx.Atomic(func() error {
		return t.transfer(from, to, amount)
	})
}

// Approve sets the amount spender may move on behalf of owner.
func (t *Token) Approve(owner, spender yum.Address, amount *big.Int) error {
	if spender.IsZero() {
		return reverts.ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	return t.sctx.Atomic(func() error {
		if err := t.allowances.Upsert(allowanceKey{owner, spender}, new(big.Int).Set(amount)); err != nil {
			return err
		}
		return ApprovalEvent.Emit(t.sctx, []yum.Bytes32{solidity.AddressTopic(owner), solidity.AddressTopic(spender)}, amount)
	})
}

// TransferFrom moves amount from one account to another, spending the allowance of spender.
// A maximum allowance is never decremented.
func (t *Token) TransferFrom(spender, from, to yum.Address, amount *big.Int) error {
	return t.sctx.Atomic(func() error {
		allowance, err := t.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return reverts.ErrInsufficientAllowance
		}
		if allowance.Cmp(yum.MaxUint256) != 0 {
			if err := t.allowances.Upsert(allowanceKey{from, spender}, new(big.Int).Sub(allowance, amount)); err != nil {
				return err
			}
		}
		return t.transfer(from, to, amount)
	})
}

// Mint creates amount new tokens for to. The caller must be the owner or a minter.
func (t *Token) Mint(caller, to yum.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	return t.sctx.Atomic(func() error {
		if err := t.requireMinter(caller); err != nil {
			return err
		}
		if err := t.supply.Add(amount); err != nil {
			return err
		}
		if err := t.addBalance(to, amount); err != nil {
			return err
		}
		logger.Debug("minted", "token", t.Address(), "to", to, "amount", amount)
		return TransferEvent.Emit(t.sctx, []yum.Bytes32{solidity.AddressTopic(yum.Address{}), solidity.AddressTopic(to)}, amount)
	})
}

// Burn destroys amount tokens held by from.
func (t *Token) Burn(from yum.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	return t.sctx.Atomic(func() error {
		if err := t.subBalance(from, amount); err != nil {
			return err
		}
		if err := t.supply.Sub(amount); err != nil {
			return err
		}
		return TransferEvent.Emit(t.sctx, []yum.Bytes32{solidity.AddressTopic(from), solidity.AddressTopic(yum.Address{})}, amount)
	})
}

// SetMinter grants or revokes the minting right. Owner only.
func (t *Token) SetMinter(caller, minter yum.Address, allowed bool) error {
	meta, err := t.Metadata()
	if err != nil {
		return err
	}
	if caller != meta.Owner {
		return reverts.ErrNotMinter
	}
	return t.sctx.Atomic(func() error {
		if !allowed {
			t.minters.Delete(minter)
		} else if err := t.minters.Upsert(minter, true); err != nil {
			return err
		}
		return MinterUpdatedEvent.Emit(t.sctx, []yum.Bytes32{solidity.AddressTopic(minter)}, allowed)
	})
}

func (t *Token) requireMinter(caller yum.Address) error {
	meta, err := t.Metadata()
	if err != nil {
		return err
	}
	if caller == meta.Owner {
		return nil
	}
	ok, err := t.minters.Get(caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrNotMinter
	}
	return nil
}

func (t *Token) transfer(from, to yum.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	return TransferEvent.Emit(t.sctx, []yum.Bytes32{solidity.AddressTopic(from), solidity.AddressTopic(to)}, amount)
}

func (t *Token) addBalance(addr yum.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	sum, err := solidity.CheckedAdd(bal, amount)
	if err != nil {
		return err
	}
	return t.balances.Upsert(addr, sum)
}

func (t *Token) subBalance(addr yum.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientFunds
	}
	rest := new(big.Int).Sub(bal, amount)
	if rest.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Upsert(addr, rest)
}

func orZero(v *big.Int, err error) (*big.Int, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}
