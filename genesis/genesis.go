// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Genesis to build the initial state.
type Genesis struct {
	builder *Builder
	id      yum.Bytes32
	name    string
	config  *Config
}

// New creates a genesis from config.
func New(name string, config *Config) (*Genesis, error) {
	builder, err := config.builder()
	if err != nil {
		return nil, err
	}
	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name, config}, nil
}

// Build builds the initial state as the first call of rt.
func (g *Genesis) Build(rt *runtime.Runtime) (*runtime.Receipt, error) {
	return g.builder.Build(rt)
}

// ID returns the digest of the initial state.
func (g *Genesis) ID() yum.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Config returns the configuration the genesis was made from.
func (g *Genesis) Config() *Config {
	return g.config
}
