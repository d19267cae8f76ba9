// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package scenario replays recorded call sequences and checks their outcome.
package scenario

import (
	"bytes"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Scenario is a genesis plus the calls to replay on top of it.
type Scenario struct {
	Name string `yaml:"name"`
	// Genesis defaults to the devnet.
	Genesis  *genesis.Config        `yaml:"genesis,omitempty"`
	Accounts map[string]yum.Address `yaml:"accounts,omitempty"`
	Steps    []Step                 `yaml:"steps"`
}

// Step is one call, or a pure check when Call is empty.
type Step struct {
	// Time sets the clock before the call, Advance moves it forward.
	Time    uint64 `yaml:"time,omitempty"`
	Advance uint64 `yaml:"advance,omitempty"`

	Call   string `yaml:"call,omitempty"`
	Caller Ref    `yaml:"caller,omitempty"`
	Args   Args   `yaml:"args,omitempty"`
	// Revert is the expected rejection kind, the call must succeed when empty.
	Revert string `yaml:"revert,omitempty"`

	Expect []Expect `yaml:"expect,omitempty"`
}

// Args are the call arguments, each call reads the ones it needs.
type Args struct {
	Pool           uint64   `yaml:"pool,omitempty"`
	Amount         Amount   `yaml:"amount,omitempty"`
	Token          Ref      `yaml:"token,omitempty"`
	Account        Ref      `yaml:"account,omitempty"`
	To             Ref      `yaml:"to,omitempty"`
	Weight         uint64   `yaml:"weight,omitempty"`
	VestingEnabled bool     `yaml:"vestingEnabled,omitempty"`
	LockDuration   uint64   `yaml:"lockDuration,omitempty"`
	FeeBps         uint64   `yaml:"feeBps,omitempty"`
	Paused         bool     `yaml:"paused,omitempty"`
	Allowed        bool     `yaml:"allowed,omitempty"`
	Contract       string   `yaml:"contract,omitempty"`
	Thresholds     []Amount `yaml:"thresholds,omitempty"`
	Discounts      []uint64 `yaml:"discounts,omitempty"`
}

// Expect checks one value after the step.
type Expect struct {
	Check   string `yaml:"check"`
	Pool    uint64 `yaml:"pool,omitempty"`
	Account Ref    `yaml:"account,omitempty"`
	Token   Ref    `yaml:"token,omitempty"`
	// Contract selects pools or vesting for governance checks.
	Contract string `yaml:"contract,omitempty"`
	Value    string `yaml:"value"`
}

// Ref is an account name declared in Accounts, a builtin contract name or a hex address.
type Ref string

func (r Ref) resolve(accounts map[string]yum.Address) (yum.Address, error) {
	if addr, ok := accounts[string(r)]; ok {
		return addr, nil
	}
	switch r {
	case "":
		return yum.Address{}, nil
	case "pools":
		return builtin.Pools.Address, nil
	case "vesting":
		return builtin.Vesting.Address, nil
	}
	addr, err := yum.ParseAddress(string(r))
	if err != nil {
		return yum.Address{}, errors.Errorf("unknown account %q", string(r))
	}
	return addr, nil
}

// Amount is a decimal or hex integer, or "max" for 2^256-1.
type Amount string

func (a Amount) value() (*big.Int, error) {
	if strings.EqualFold(string(a), "max") {
		return new(big.Int).Set(yum.MaxUint256), nil
	}
	if a == "" {
		return new(big.Int), nil
	}
	v, ok := math.ParseBig256(string(a))
	if !ok {
		return nil, errors.Errorf("invalid amount %q", string(a))
	}
	return v, nil
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	for i, step := range sc.Steps {
		if step.Call != "" {
			if _, ok := calls[step.Call]; !ok {
				return nil, errors.Errorf("step %d: unknown call %q", i, step.Call)
			}
		}
		for _, exp := range step.Expect {
			if _, ok := checks[exp.Check]; !ok {
				return nil, errors.Errorf("step %d: unknown check %q", i, exp.Check)
			}
		}
	}
	return &sc, nil
}

// Load reads a scenario from file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return Parse(data)
}
