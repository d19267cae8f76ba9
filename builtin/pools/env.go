// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Ledger is the fungible token interface the registry moves funds through.
type Ledger interface {
	BalanceOf(addr yum.Address) (*big.Int, error)
	TotalSupply() (*big.Int, error)
	Transfer(from, to yum.Address, amount *big.Int) error
	TransferFrom(spender, from, to yum.Address, amount *big.Int) error
	Approve(owner, spender yum.Address, amount *big.Int) error
	Mint(caller, to yum.Address, amount *big.Int) error
}

// Sink receives rewards of vesting enabled pools.
type Sink interface {
	AddEarning(caller, user yum.Address, amount *big.Int, now uint64) error
}

// Env resolves the contracts the registry calls into. They must share the registry's state.
type Env interface {
	Token(addr yum.Address) Ledger
	Sink(addr yum.Address) Sink
}
