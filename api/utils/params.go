// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// AddressVar parses the path variable name as an address.
func AddressVar(r *http.Request, name string) (yum.Address, error) {
	addr, err := yum.ParseAddress(mux.Vars(r)[name])
	if err != nil {
		return yum.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Uint64Var parses the path variable name as an unsigned integer.
func Uint64Var(r *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Uint64Query parses the query parameter name, def if absent.
func Uint64Query(r *http.Request, name string, def uint64) (uint64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Amount converts a request amount, nil is rejected.
func Amount(v *math.HexOrDecimal256, name string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.Errorf("%s: required", name))
	}
	return (*big.Int)(v), nil
}

// BigHex converts an amount for responses.
func BigHex(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
