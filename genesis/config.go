// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools/feediscount"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/token"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/vesting"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Config is the genesis document.
type Config struct {
	LaunchTime uint64      `yaml:"launchTime"`
	Governor   yum.Address `yaml:"governor"`
	Sentinel   yum.Address `yaml:"sentinel,omitempty"`
	Tokens     []Token     `yaml:"tokens"`
	Pools      Pools       `yaml:"pools"`
	Vesting    Vesting     `yaml:"vesting"`
}

// Token is a token ledger created at genesis.
type Token struct {
	Address  yum.Address `yaml:"address"`
	Name     string      `yaml:"name"`
	Symbol   string      `yaml:"symbol"`
	Decimals uint8       `yaml:"decimals"`
	// Owner defaults to the governor.
	Owner    *yum.Address  `yaml:"owner,omitempty"`
	Minters  []yum.Address `yaml:"minters,omitempty"`
	Balances []Balance     `yaml:"balances,omitempty"`
}

// Balance is an initial token balance.
type Balance struct {
	Address yum.Address           `yaml:"address"`
	Amount  *math.HexOrDecimal256 `yaml:"amount"`
}

// Pools configures the staking pool registry.
type Pools struct {
	RewardToken    yum.Address           `yaml:"rewardToken"`
	BoostToken     yum.Address           `yaml:"boostToken,omitempty"`
	FeeCollector   yum.Address           `yaml:"feeCollector"`
	RewardRate     *math.HexOrDecimal256 `yaml:"rewardRate"`
	WithdrawFeeBps *uint64               `yaml:"withdrawFeeBps,omitempty"`
	DiscountTable  *DiscountTable        `yaml:"discountTable,omitempty"`
	Pools          []Pool                `yaml:"pools,omitempty"`
}

// DiscountTable configures the withdraw fee discounts.
type DiscountTable struct {
	Thresholds []*math.HexOrDecimal256 `yaml:"thresholds"`
	Discounts  []uint64                `yaml:"discounts"`
}

// Pool is a pool created at genesis.
type Pool struct {
	Asset          yum.Address `yaml:"asset"`
	Weight         uint64      `yaml:"weight"`
	VestingEnabled bool        `yaml:"vestingEnabled"`
	LockDuration   uint64      `yaml:"lockDuration,omitempty"`
	EarlyFeeBps    uint64      `yaml:"earlyFeeBps,omitempty"`
}

// Vesting configures the reward vesting sink.
type Vesting struct {
	Duration uint64 `yaml:"duration,omitempty"`
	Window   uint64 `yaml:"window,omitempty"`
}

// Parse decodes a genesis document. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var config Config
	if err := dec.Decode(&config); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Load reads a genesis document from file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Marshal encodes the document as yaml.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks the document before any state is built.
func (c *Config) Validate() error {
	if c.Governor.IsZero() {
		return errors.New("governor must be set")
	}
	tokens := make(map[yum.Address]bool, len(c.Tokens))
	for _, t := range c.Tokens {
		if t.Address.IsZero() {
			return errors.Errorf("token %q: address must be set", t.Symbol)
		}
		if tokens[t.Address] {
			return errors.Errorf("token %v: duplicated", t.Address)
		}
		tokens[t.Address] = true
		for _, b := range t.Balances {
			if b.Amount == nil || (*big.Int)(b.Amount).Sign() < 0 {
				return errors.Errorf("token %v: balance of %v must be a non-negative integer", t.Address, b.Address)
			}
		}
	}
	if !tokens[c.Pools.RewardToken] {
		return errors.Errorf("reward token %v is not declared", c.Pools.RewardToken)
	}
	if !c.Pools.BoostToken.IsZero() && !tokens[c.Pools.BoostToken] {
		return errors.Errorf("boost token %v is not declared", c.Pools.BoostToken)
	}
	if c.Pools.RewardRate != nil && (*big.Int)(c.Pools.RewardRate).Sign() < 0 {
		return errors.New("reward rate must be a non-negative integer")
	}
	for _, p := range c.Pools.Pools {
		if !tokens[p.Asset] {
			return errors.Errorf("pool asset %v is not declared", p.Asset)
		}
	}
	if dt := c.Pools.DiscountTable; dt != nil {
		for _, th := range dt.Thresholds {
			if th == nil {
				return errors.New("discount threshold must be set")
			}
		}
	}
	return nil
}

func (dt *DiscountTable) table() (*feediscount.Table, error) {
	if dt == nil {
		return nil, nil
	}
	thresholds := make([]*big.Int, 0, len(dt.Thresholds))
	for _, th := range dt.Thresholds {
		thresholds = append(thresholds, (*big.Int)(th))
	}
	return feediscount.New(thresholds, dt.Discounts)
}

func (c *Config) builder() (*Builder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	table, err := c.Pools.DiscountTable.table()
	if err != nil {
		return nil, err
	}

	b := new(Builder).Timestamp(c.LaunchTime)
	for _, t := range c.Tokens {
		b.Call("token "+t.Symbol, func(contracts *builtin.Contracts, _ uint64) error {
			owner := c.Governor
			if t.Owner != nil {
				owner = *t.Owner
			}
			tok := contracts.Token(t.Address)
			if err := tok.Initialize(&token.Metadata{
				Name:     t.Name,
				Symbol:   t.Symbol,
				Decimals: t.Decimals,
				Owner:    owner,
			}); err != nil {
				return err
			}
			minters := t.Minters
			// pools mint the rewards
			if t.Address == c.Pools.RewardToken {
				minters = append([]yum.Address{builtin.Pools.Address}, minters...)
			}
			for _, m := range minters {
				if err := tok.SetMinter(owner, m, true); err != nil {
					return err
				}
			}
			for _, bal := range t.Balances {
				if err := tok.Mint(owner, bal.Address, (*big.Int)(bal.Amount)); err != nil {
					return errors.WithMessagef(err, "balance of %v", bal.Address)
				}
			}
			return nil
		})
	}

	b.Call("vesting", func(contracts *builtin.Contracts, _ uint64) error {
		return contracts.Vesting.Initialize(&vesting.Params{
			Governor: c.Governor,
			Sentinel: c.Sentinel,
			Token:    c.Pools.RewardToken,
			Duration: c.Vesting.Duration,
			Window:   c.Vesting.Window,
			Sources:  []yum.Address{builtin.Pools.Address},
		})
	})

	b.Call("pools", func(contracts *builtin.Contracts, now uint64) error {
		feeCollector := c.Pools.FeeCollector
		if feeCollector.IsZero() {
			feeCollector = c.Governor
		}
		if err := contracts.Pools.Initialize(&pools.Params{
			Governor:       c.Governor,
			Sentinel:       c.Sentinel,
			RewardToken:    c.Pools.RewardToken,
			BoostToken:     c.Pools.BoostToken,
			RewardVesting:  builtin.Vesting.Address,
			FeeCollector:   feeCollector,
			RewardRate:     (*big.Int)(c.Pools.RewardRate),
			WithdrawFeeBps: c.Pools.WithdrawFeeBps,
			DiscountTable:  table,
		}); err != nil {
			return err
		}
		for _, p := range c.Pools.Pools {
			if _, err := contracts.Pools.CreatePool(c.Governor, p.Asset, p.Weight, p.VestingEnabled, p.LockDuration, p.EarlyFeeBps, now); err != nil {
				return errors.WithMessagef(err, "pool of %v", p.Asset)
			}
		}
		return nil
	})
	return b, nil
}
