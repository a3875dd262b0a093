package chessdip

import "fmt"

// Event is a single narrated consequence of executing a resolved order,
// handed to a Console for display or broadcast.
type Event struct {
	Kind    string // "move", "build", "disband", "capture"
	Square  Square
	Piece   *Piece
	Message string
}

// Console receives Events as the Executor applies the adjudicated order set.
// A no-op implementation is valid; see internal/console for the recording
// and WebSocket-broadcasting variants.
type Console interface {
	Report(Event)
}

// PromotionHook is called whenever a pawn lands on its farthest rank. The
// core leaves promotion unimplemented by default; a caller may install a
// hook to turn the pawn into another kind.
type PromotionHook func(pawn *Piece, board BoardWriter)

// Executor applies a fully-adjudicated order set to a BoardWriter.
type Executor struct {
	mgr       *Manager
	board     BoardWriter
	console   Console
	Promotion PromotionHook
}

// NewExecutor returns an Executor applying mgr's orders to board, narrating
// to console (which may be a no-op implementation).
func NewExecutor(mgr *Manager, board BoardWriter, console Console) *Executor {
	return &Executor{mgr: mgr, board: board, console: console}
}

// Execute applies every successful order's board effect. Call once per
// adjudicated turn, after Adjudicator.Run.
//
// Movers vacate their starting squares in one pass before any of them lands,
// so a piece that itself moved away this turn is never mistaken for a
// standing occupant and reported as captured depending on arena order.
func (e *Executor) Execute() {
	e.board.ClearEnPassant()

	var movers []*Order
	for _, h := range e.mgr.AllOrders() {
		o := e.mgr.order(h)
		if o.virtual || !o.success {
			continue
		}
		switch o.kind {
		case KindMove:
			if o.linker == NoOrder {
				movers = append(movers, o)
			}
		case KindLinker:
			for _, mh := range o.linkerMembers {
				movers = append(movers, e.mgr.order(mh))
			}
		}
	}
	for _, o := range movers {
		e.board.VacateSquare(o.piece.Square)
	}
	for _, o := range movers {
		e.executeMove(o)
	}

	for _, h := range e.mgr.AllOrders() {
		o := e.mgr.order(h)
		if o.virtual || !o.success {
			continue
		}
		switch o.kind {
		case KindBuild:
			e.executeBuild(o)
		case KindDisband:
			e.executeDisband(o)
		case KindLinker:
			e.executeLinkerCapture(o)
		}
	}
}

func (e *Executor) executeMove(o *Order) {
	start := o.piece.Square
	landing := o.landing
	captured := e.board.PieceAt(landing)
	e.board.MovePieceTo(o.piece, landing)
	if captured != nil && captured != o.piece {
		e.board.RemovePiece(captured)
		e.console.Report(Event{Kind: "capture", Square: landing, Piece: captured, Message: fmt.Sprintf("%s captured on %s", captured, landing)})
	}
	e.console.Report(Event{Kind: "move", Square: landing, Piece: o.piece, Message: fmt.Sprintf("%s %s-%s", o.piece.Kind, start, landing)})

	if o.piece.Kind == Pawn && len(o.path.Intermediate) == 1 {
		e.board.MarkEnPassant(o.piece, o.path.Intermediate[0])
	}
	if o.piece.Kind == Pawn && e.Promotion != nil {
		homeFar := 7
		if o.piece.Power != nil && o.piece.Power.Side == Black {
			homeFar = 0
		}
		if landing.Rank == homeFar {
			e.Promotion(o.piece, e.board)
		}
	}
}

func (e *Executor) executeBuild(o *Order) {
	if !o.success {
		return
	}
	p := e.board.AddPiece(o.buildKind, o.buildPower, o.landing)
	e.console.Report(Event{Kind: "build", Square: o.landing, Piece: p, Message: fmt.Sprintf("%s built on %s", o.buildKind, o.landing)})
}

func (e *Executor) executeDisband(o *Order) {
	if !o.success {
		return
	}
	e.console.Report(Event{Kind: "disband", Square: o.piece.Square, Piece: o.piece, Message: fmt.Sprintf("%s disbanded", o.piece)})
	e.board.RemovePiece(o.piece)
}

// executeLinkerCapture applies an en-passant Linker's side effect beyond the
// pawn's own move (already applied by Execute's mover pass): removing the
// piece sitting on the captured square.
func (e *Executor) executeLinkerCapture(o *Order) {
	if o.linkerKind != "en_passant" {
		return
	}
	if captured := e.board.PieceAt(o.square); captured != nil {
		e.board.RemovePiece(captured)
		e.console.Report(Event{Kind: "capture", Square: o.square, Piece: captured, Message: fmt.Sprintf("%s captured en passant on %s", captured, o.square)})
	}
}
