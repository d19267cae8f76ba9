// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// DevAccount account for development.
type DevAccount struct {
	Address    yum.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the devnet.
// The first account governs both contracts.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{yum.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// Devnet token addresses.
var (
	DevRewardToken = yum.BytesToAddress([]byte("WASABI"))
	DevBoostToken  = yum.BytesToAddress([]byte("veWASABI"))
	DevStakeToken  = yum.BytesToAddress([]byte("WASABI-LP"))
)

func ether(n int64) *math.HexOrDecimal256 {
	v := new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
	return (*math.HexOrDecimal256)(v)
}

// DevnetConfig returns the genesis document of the devnet.
func DevnetConfig() *Config {
	accs := DevAccounts()
	governor := accs[0].Address

	var lpBalances, boostBalances []Balance
	for _, acc := range accs[1:] {
		lpBalances = append(lpBalances, Balance{acc.Address, ether(1_000_000)})
		boostBalances = append(boostBalances, Balance{acc.Address, ether(100_000)})
	}

	return &Config{
		LaunchTime: 1526400000,
		Governor:   governor,
		Sentinel:   accs[1].Address,
		Tokens: []Token{
			{Address: DevRewardToken, Name: "Wasabi", Symbol: "WASABI", Decimals: 18},
			{Address: DevBoostToken, Name: "Vote-escrowed Wasabi", Symbol: "veWASABI", Decimals: 18, Balances: boostBalances},
			{Address: DevStakeToken, Name: "Wasabi LP", Symbol: "WASABI-LP", Decimals: 18, Balances: lpBalances},
		},
		Pools: Pools{
			RewardToken:  DevRewardToken,
			BoostToken:   DevBoostToken,
			FeeCollector: governor,
			RewardRate:   ether(1),
			Pools: []Pool{
				{Asset: DevRewardToken, Weight: 100, VestingEnabled: false},
				{Asset: DevStakeToken, Weight: 400, VestingEnabled: true},
			},
		},
	}
}

// NewDevnet create genesis for the devnet.
func NewDevnet() *Genesis {
	gene, err := New("devnet", DevnetConfig())
	if err != nil {
		panic(err)
	}
	return gene
}
