// Command chessdipd sets up one Chess Dip game and resolves a single
// Spring move phase from a fixed demo order set, logging every Executor
// event. It exists to exercise the full Manager -> Adjudicator -> Executor
// -> Console pipeline end to end; a real server would replace the demo
// order set with orders submitted over the network.
package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/th-rtyf-re/chessdip/internal/config"
	"github.com/th-rtyf-re/chessdip/internal/console"
	"github.com/th-rtyf-re/chessdip/internal/logger"
	"github.com/th-rtyf-re/chessdip/internal/session"
	"github.com/th-rtyf-re/chessdip/pkg/chessdip"
)

const demoGameID = "demo"

func main() {
	logger.Init()
	cfg := config.Load()

	sessions := session.NewManager(cfg.JWTSecret)
	token, err := sessions.IssueToken("White")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to issue demo session token")
	}
	log.Info().Str("listenAddr", cfg.ListenAddr).Str("demoToken", token).Msg("chessdipd starting")

	hub := console.NewHub()
	mux := http.NewServeMux()
	mux.Handle("/ws", console.NewWSServer(hub, sessions))
	go func() {
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Error().Err(err).Msg("demo WebSocket server stopped")
		}
	}()

	white := &chessdip.Power{ID: "White", Side: chessdip.White}
	black := &chessdip.Power{ID: "Black", Side: chessdip.Black}

	board := chessdip.NewBoard()
	whiteKing := board.AddPiece(chessdip.King, white, white.KingSquare())
	blackKing := board.AddPiece(chessdip.King, black, black.KingSquare())

	mgr := chessdip.NewManager()
	mgr.GetMove(whiteKing, chessdip.NewSquare(3, 1), chessdip.PlainMove, chessdip.NoException, false)
	mgr.GetHold(blackKing, false)

	adj := chessdip.NewAdjudicator(mgr)
	adj.Run()

	rec := console.NewRecordingConsole()
	multi := console.MultiConsole{rec, console.NewBroadcastConsole(hub, demoGameID)}
	exec := chessdip.NewExecutor(mgr, board, multi)
	exec.Execute()

	for _, e := range rec.Events() {
		log.Info().Str("kind", e.Kind).Str("square", e.Square.String()).Msg(e.Message)
	}

	phase := chessdip.Spring
	log.Info().Str("nextPhase", phase.Next().String()).Msg("phase resolved")
}
