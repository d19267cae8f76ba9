// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Info is the static description of the service.
type Info struct {
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	GenesisID yum.Bytes32 `json:"genesisId"`
}

type Status struct {
	Info
	CallSeq  uint64 `json:"callSeq"`
	CallTime uint64 `json:"callTime"`
	Now      uint64 `json:"now"`
}

type Node struct {
	rt   *runtime.Runtime
	info Info
}

func New(rt *runtime.Runtime, info Info) *Node {
	return &Node{
		rt,
		info,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Status{
		Info:     n.info,
		CallSeq:  n.rt.CallSeq(),
		CallTime: n.rt.CallTime(),
		Now:      n.rt.Now(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
