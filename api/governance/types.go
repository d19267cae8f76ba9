// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/governance"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type Governance struct {
	Governor        yum.Address `json:"governor"`
	PendingGovernor yum.Address `json:"pendingGovernor"`
	Sentinel        yum.Address `json:"sentinel"`
	Paused          bool        `json:"paused"`
}

// Convert reads the governance state of a contract.
func Convert(g *governance.Governance) (*Governance, error) {
	var (
		out Governance
		err error
	)
	if out.Governor, err = g.Governor(); err != nil {
		return nil, err
	}
	if out.PendingGovernor, err = g.PendingGovernor(); err != nil {
		return nil, err
	}
	if out.Sentinel, err = g.Sentinel(); err != nil {
		return nil, err
	}
	if out.Paused, err = g.IsPaused(); err != nil {
		return nil, err
	}
	return &out, nil
}

type AddressRequest struct {
	utils.CallRequest
	Address yum.Address `json:"address"`
}

type PauseRequest struct {
	utils.CallRequest
	Paused bool `json:"paused"`
}
