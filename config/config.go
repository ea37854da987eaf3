// Package config holds the plain configuration struct spec.md §6 describes:
// no file or flag parsing (explicitly out of scope), just a value passed by
// the composition root into the solver/manager/broker/workerpool
// constructors.
package config

import (
	"time"

	"github.com/gamesolver/core/board"
)

// Config collects every recognised option from spec.md §6 across all
// layers. Individual layers narrow it to the fields they need (see
// solver.Config, manager.Config) rather than depending on this type
// directly.
type Config struct {
	SolvedPlayer board.Player

	UseRZone    bool
	UseBlockTT  bool
	UseGridTT   bool
	BlockTTBits int
	GridTTBits  int
	UseGHICheck bool

	ManagerTopKSelection        int
	ManagerPCNValueThreshold    float32
	UseVirtualSolved            bool
	ManagerSendAndPlayerJob     bool
	ManagerCriticalPositionsN   int
	ManagerCriticalPositionsM   int

	EnvBoardSize int

	VMax float32

	// BrokerAddr is the TCP address of the broker process; empty disables
	// the broker layer entirely (spec.md §8 scenario 6 "Broker-less
	// fallback").
	BrokerAddr    string
	BrokerName    string
	HandshakeWait time.Duration
}

// Default returns sensible defaults per spec.md's stated default values
// (§4.7 "50-ms sleep loop", §4.8 "N default 1000").
func Default() Config {
	return Config{
		SolvedPlayer:              board.Player1,
		UseRZone:                  true,
		UseBlockTT:                true,
		BlockTTBits:                20,
		GridTTBits:                 20,
		UseGHICheck:                true,
		ManagerTopKSelection:       4,
		ManagerPCNValueThreshold:   10.0,
		UseVirtualSolved:           true,
		ManagerSendAndPlayerJob:    true,
		ManagerCriticalPositionsN:  1000,
		ManagerCriticalPositionsM:  50,
		EnvBoardSize:               7,
		VMax:                       1.0,
		BrokerName:                 "manager",
		HandshakeWait:              5 * time.Second,
	}
}
