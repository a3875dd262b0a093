package chessdip

// OrderClass tags the variant an OrderRequest asks the Manager to construct.
// This is the boundary the order-text parser (regex surface, out of scope
// here) hands off to: the parser turns notation like "Kd1 d2" into an
// OrderClass plus concrete squares, and Submit takes it from there.
type OrderClass int

const (
	ClassHold OrderClass = iota
	ClassMove
	ClassSupportHold
	ClassSupportMove
	ClassSupportConvoy
	ClassCastle
	ClassEnPassant
	ClassBuild
	ClassDisband
)

// OrderRequest is an already-parsed (class, args) tuple. Fields not used by
// Class are ignored; see each case in Submit.
type OrderRequest struct {
	Class OrderClass

	From Square // the ordering piece's square (all classes but Build)
	To   Square // landing square (Move, EnPassant travel, the supported or convoyed Move for SupportMove/SupportConvoy), or Build's square; Castle ignores it

	// SupportHold / SupportMove / SupportConvoy: square of the supported or
	// convoyed piece.
	TargetFrom Square

	// SupportConvoy: the square the Convoy claims.
	ConvoySquare Square

	RookFrom Square // Castle
	Long     bool   // Castle

	AttackSquare Square // EnPassant: the square of the pawn being captured

	BuildKind PieceKind // Build
}

// Submit validates req semantically against board's current state and the
// ordering power, then dispatches to the matching typed Get* constructor.
// It never parses order text; that split is what SPEC_FULL.md's order-text
// surface (deliberately out of scope) hands it.
func (m *Manager) Submit(board BoardReader, power *Power, req OrderRequest) (OrderHandle, error) {
	switch req.Class {
	case ClassHold:
		piece, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		return m.GetHold(piece, false), nil

	case ClassMove:
		piece, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		return m.GetMove(piece, req.To, AttackMove, NoException, false), nil

	case ClassSupportHold:
		piece, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		target := board.PieceAt(req.TargetFrom)
		if target == nil {
			return NoOrder, NothingToSupport(req.TargetFrom)
		}
		return m.GetSupportHoldOrder(piece, target, false), nil

	case ClassSupportMove:
		piece, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		target := board.PieceAt(req.TargetFrom)
		if target == nil {
			return NoOrder, NothingToSupport(req.TargetFrom)
		}
		return m.GetSupportMoveOrder(piece, target, req.To, false), nil

	case ClassSupportConvoy:
		piece, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		target := board.PieceAt(req.TargetFrom)
		if target == nil {
			return NoOrder, NothingToSupport(req.TargetFrom)
		}
		if !onConvoyPath(target, req.To, req.ConvoySquare) {
			return NoOrder, IllegalConvoyParticipation(req.ConvoySquare)
		}
		return m.GetSupportConvoyOrder(piece, target, req.ConvoySquare, req.To, false), nil

	case ClassCastle:
		king, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		rook, err := ownPieceAt(board, power, req.RookFrom)
		if err != nil {
			return NoOrder, err
		}
		return m.GetCastleLinker(king, rook, req.Long, false), nil

	case ClassEnPassant:
		pawn, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		return m.GetEnPassantLinker(pawn, req.To, req.AttackSquare, false), nil

	case ClassBuild:
		return m.GetBuild(power, req.BuildKind, req.To, false), nil

	case ClassDisband:
		piece, err := ownPieceAt(board, power, req.From)
		if err != nil {
			return NoOrder, err
		}
		return m.GetDisband(piece, false), nil

	default:
		return NoOrder, &SemanticError{Reason: "unrecognized order class"}
	}
}

func ownPieceAt(board BoardReader, power *Power, square Square) (*Piece, error) {
	piece := board.PieceAt(square)
	if piece == nil {
		return nil, NoPieceOnSquare(square)
	}
	if piece.Power != power {
		return nil, ForeignPiece(piece)
	}
	return piece, nil
}

// onConvoyPath reports whether via lies among the squares target's path from
// its current square to land crosses.
func onConvoyPath(target *Piece, land, via Square) bool {
	path := NewChessPath(target, land, NoException)
	if !path.Valid {
		return false
	}
	for _, sq := range path.Intermediate {
		if sq == via {
			return true
		}
	}
	return false
}
