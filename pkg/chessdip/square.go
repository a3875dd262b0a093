// Package chessdip implements the order graph, chess-path validator, and
// adjudicator for the Chess Dip rules engine.
package chessdip

import "fmt"

// Side is which half of the board a Power plays from.
type Side int

const (
	Neutral Side = iota
	White
	Black
)

func (s Side) String() string {
	switch s {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Neutral"
	}
}

// PieceKind is the kind of chess piece a Piece represents.
type PieceKind int

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case King:
		return "King"
	default:
		return "Unknown"
	}
}

// Code is the single-letter order-text code for the piece kind ("" for Pawn,
// which is the implicit default in order text).
func (k PieceKind) Code() string {
	switch k {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case King:
		return "K"
	default:
		return ""
	}
}

// Square is an immutable board coordinate. Equality is structural.
type Square struct {
	File int // 0..7, a..h
	Rank int // 0..7, 1..8
}

// Valid reports whether the square lies on an 8x8 board.
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("<invalid %d,%d>", s.File, s.Rank)
	}
	return fmt.Sprintf("%c%d", 'a'+s.File, s.Rank+1)
}

// NewSquare builds a Square from zero-based file/rank coordinates.
func NewSquare(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

// Power is a record identifying one playing side of the game.
//
// DKing records whether this Power's king starts on the d-file (vs. the
// e-file), which parameterizes castling-square derivation.
type Power struct {
	ID    string
	Side  Side
	DKing bool
}

// homeRank is the back rank this Power's pieces start on.
func (p Power) homeRank() int {
	if p.Side == Black {
		return 7
	}
	return 0
}

func (p Power) kingFile() int {
	if p.DKing {
		return 3 // d-file
	}
	return 4 // e-file
}

// KingSquare is this Power's home king square.
func (p Power) KingSquare() Square {
	return NewSquare(p.kingFile(), p.homeRank())
}

// KingRookSquare is this Power's home kingside (h-file) rook square.
func (p Power) KingRookSquare() Square {
	return NewSquare(7, p.homeRank())
}

// QueenRookSquare is this Power's home queenside (a-file) rook square.
func (p Power) QueenRookSquare() Square {
	return NewSquare(0, p.homeRank())
}

// KingsideCastleKingSquare is the king's landing square after O-O.
func (p Power) KingsideCastleKingSquare() Square {
	return NewSquare(p.kingFile()+2, p.homeRank())
}

// KingsideCastleRookSquare is the kingside rook's landing square after O-O.
func (p Power) KingsideCastleRookSquare() Square {
	return NewSquare(p.kingFile()+1, p.homeRank())
}

// QueensideCastleKingSquare is the king's landing square after O-O-O.
func (p Power) QueensideCastleKingSquare() Square {
	return NewSquare(p.kingFile()-2, p.homeRank())
}

// QueensideCastleRookSquare is the queenside rook's landing square after O-O-O.
func (p Power) QueensideCastleRookSquare() Square {
	return NewSquare(p.kingFile()-1, p.homeRank())
}

// Piece is a unique, identity-equal chess piece belonging to a Power.
//
// Equality is identity, not structural: two Pieces with identical fields are
// still distinct pieces. Callers compare pointers.
type Piece struct {
	Kind  PieceKind
	Power *Power
	Square Square
	Moved bool
}

func (p *Piece) String() string {
	if p == nil {
		return "<nil piece>"
	}
	return fmt.Sprintf("%s%s", p.Kind.Code(), p.Square)
}
