// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("string"))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(ErrInvalidAmount))
	assert.True(t, IsRevertErr(pkgerrors.Wrap(ErrPaused, "deposit")))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(pkgerrors.Wrap(ErrOnlyGovernance, "set rate"))
	assert.True(t, ok)
	assert.Equal(t, Authorization, kind)
	assert.Equal(t, "authorization", kind.String())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	kind, _ = KindOf(ErrInsufficientAvailable)
	assert.Equal(t, InsufficientFunds, kind)
	assert.True(t, errors.Is(pkgerrors.Wrap(ErrInsufficientAvailable, "x"), ErrInsufficientAvailable))
}
