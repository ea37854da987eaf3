// Command solve is the composition root wiring config, broker, and a
// manager or worker pool around a registered concrete game into a running
// solver process (spec.md §1, §2 "processes", §6's recognised flags). A
// concrete game registers itself with the registry package from its own
// init() (spec.md §1 "game rules are external to this module"); this binary
// only imports packages of this module, so no game is registered unless the
// caller builds a variant that blank-imports one. Uses a flat package-var
// flag table (flag.String/flag.Int) and a single main() dispatching to the
// chosen mode.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/broker"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/jobhandler"
	"github.com/gamesolver/core/manager"
	"github.com/gamesolver/core/mctscore"
	"github.com/gamesolver/core/registry"
	"github.com/gamesolver/core/solver"
	"github.com/gamesolver/core/workerpool"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	gameName      = flag.String("game", "", "registered game name (see -list_games)")
	listGames     = flag.Bool("list_games", false, "print every registered game name and exit")
	mode          = flag.String("mode", "manager", "\"manager\" or \"worker\"")
	boardSize     = flag.Int("board_size", 7, "board size passed to the registered game")
	solvedPlayer  = flag.Int("solved_player", int(board.Player1), "player the search is trying to prove a result for (1 or 2)")
	brokerAddr    = flag.String("broker_addr", "", "broker TCP address; empty runs the manager without a broker, evaluating every leaf locally (spec.md §8 scenario 6); worker mode requires it")
	brokerName    = flag.String("broker_name", "broker", "the broker's own adapter name")
	selfName      = flag.String("name", "", "this process's adapter name; defaults to mode-board_size-pid")
	handshakeWait = flag.Duration("handshake_wait", 5*time.Second, "broker connect/handshake timeout")
	workers       = flag.Int("workers", 4, "worker pool size (worker mode only)")
	maxIterations = flag.Int("max_iterations", 1_000_000, "per-job iteration cap (worker mode only)")
	topK          = flag.Int("top_k", 4, "manager broadened-selection top-K (manager mode only)")
	pcnThreshold  = flag.Float64("pcn_threshold", 10.0, "manager virtual-solved dispatch threshold: leaves with a raw proof-cost value below this are handed to a worker (manager mode only)")
	metricsAddr   = flag.String("metrics_addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
)

func main() {
	flag.Parse()

	if *listGames {
		for _, n := range registry.Names() {
			fmt.Println(n)
		}
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, log)
	}

	game, ok := registry.Lookup(*gameName)
	if !ok {
		log.Fatalw("unregistered game", "game", *gameName, "known", registry.Names())
	}

	name := *selfName
	if name == "" {
		name = fmt.Sprintf("%s-%d-%d", *mode, *boardSize, os.Getpid())
	}

	sc := solverConfig()
	switch *mode {
	case "manager":
		runManager(game, sc, name, log)
	case "worker":
		runWorker(game, sc, name, log)
	default:
		log.Fatalw("unknown mode", "mode", *mode)
	}
}

func serveMetrics(addr string, log *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorw("metrics server exited", "error", err)
	}
}

func solverConfig() solver.Config {
	c := solver.DefaultConfig()
	c.SolvedPlayer = board.Player(*solvedPlayer)
	return c
}

func runManager(game registry.Game, sc solver.Config, name string, log *zap.SugaredLogger) {
	conf := manager.Default()
	conf.Solver = sc
	conf.BoardSize = *boardSize
	conf.TopKSelection = *topK
	conf.PCNValueThreshold = float32(*pcnThreshold)
	if *brokerAddr == "" {
		conf.UseVirtualSolved = false
	}

	rootEnv := game.NewRoot(*boardSize)
	infer := nopInferencer{}

	handler := jobhandler.New[mctscore.Naughty](nil, *boardSize, log)
	if *brokerAddr != "" {
		adapter := broker.New(name, *brokerName, handler, log)
		handler.SetAdapter(adapter)
		if err := adapter.Connect(*brokerAddr, *handshakeWait); err != nil {
			log.Fatalw("broker connect failed", "error", err)
		}
		defer func() {
			if err := adapter.Disconnect(); err != nil {
				log.Warnw("broker disconnect", "error", err)
			}
		}()
	}

	mgr := manager.New(conf, rootEnv, game.RZoneHandler, game.KnowledgeHandler, infer, handler, log)

	for mgr.Solver().RootStatus() == gsgame.Unknown {
		mgr.RunIteration()
		mgr.DrainJobResults()
		mgr.DrainCommands(func(cmd string) {
			log.Infow("manager command", "command", cmd)
		})
	}
	log.Infow("search resolved", "status", mgr.Solver().RootStatus().String(), "nodes", mgr.Solver().NodeCount())
}

func runWorker(game registry.Game, sc solver.Config, name string, log *zap.SugaredLogger) {
	if *brokerAddr == "" {
		log.Fatalw("worker mode requires -broker_addr")
	}
	infer := nopInferencer{}
	pool := workerpool.New(*workers, sc, game.RZoneHandler, game.KnowledgeHandler, infer, *maxIterations, log)
	makeEnv := func(sgf string) (gsgame.Environment, error) { return game.ParseSGF(sgf, *boardSize) }

	delegate := workerpool.NewDelegate(pool, makeEnv, *boardSize, nil, log)
	adapter := broker.New(name, *brokerName, delegate, log)
	delegate.SetAdapter(adapter)

	if err := adapter.Connect(*brokerAddr, *handshakeWait); err != nil {
		log.Fatalw("broker connect failed", "error", err)
	}

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, syscall.SIGINT, syscall.SIGTERM)
	<-sigC

	var errs error
	if err := adapter.Disconnect(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := pool.Shutdown(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if errs != nil {
		log.Fatalw("worker shutdown", "error", errs)
	}
}

// nopInferencer is a placeholder mctscore.Inferencer returning a zero value
// and no policy; a real neural network implementation is outside this
// module's scope (spec.md §1) and is expected to be supplied the same way a
// concrete game is, by a build that wires its own Inferencer into
// runManager/runWorker.
type nopInferencer struct{}

func (nopInferencer) Infer(features []float32) (policy []float32, value float32) {
	return nil, 0
}
