// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import "github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/solidity"

var (
	PoolCreatedEvent             = solidity.NewEvent("PoolCreated(uint256,address,uint256)")
	PoolWeightUpdatedEvent       = solidity.NewEvent("PoolWeightUpdated(uint256,uint256)")
	PoolParamsUpdatedEvent       = solidity.NewEvent("PoolParamsUpdated(uint256,bool,uint256,uint256)")
	DepositedEvent               = solidity.NewEvent("Deposited(uint256,address,uint256)")
	WithdrawnEvent               = solidity.NewEvent("Withdrawn(uint256,address,uint256,uint256)")
	RewardPaidEvent              = solidity.NewEvent("RewardPaid(uint256,address,uint256,bool)")
	RewardRateUpdatedEvent       = solidity.NewEvent("RewardRateUpdated(uint256)")
	WithdrawFeeUpdatedEvent      = solidity.NewEvent("WithdrawFeeUpdated(uint256)")
	FeeCollectorUpdatedEvent     = solidity.NewEvent("FeeCollectorUpdated(address)")
	FeeDiscountTableUpdatedEvent = solidity.NewEvent("FeeDiscountTableUpdated(uint256[],uint256[])")
	RewardVestingUpdatedEvent    = solidity.NewEvent("RewardVestingUpdated(address)")
)
