// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

func RandBytes32() (b yum.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr yum.Address) {
	rand.Read(addr[:])
	return
}
