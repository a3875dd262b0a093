package chessdip

import "testing"

func whitePower() *Power { return &Power{ID: "White", Side: White} }
func blackPower() *Power { return &Power{ID: "Black", Side: Black} }

func TestValidatePathRookStraight(t *testing.T) {
	rook := &Piece{Kind: Rook, Power: whitePower(), Square: NewSquare(0, 0)}
	valid, intermediate := ValidatePath(rook, rook.Square, NewSquare(0, 4))
	if !valid {
		t.Fatal("rook a1-a5 should be valid")
	}
	want := []Square{NewSquare(0, 1), NewSquare(0, 2), NewSquare(0, 3)}
	if len(intermediate) != len(want) {
		t.Fatalf("intermediate = %v, want %v", intermediate, want)
	}
	for i, sq := range want {
		if intermediate[i] != sq {
			t.Errorf("intermediate[%d] = %s, want %s", i, intermediate[i], sq)
		}
	}
}

func TestValidatePathRookDiagonalFails(t *testing.T) {
	rook := &Piece{Kind: Rook, Power: whitePower(), Square: NewSquare(0, 0)}
	if valid, _ := ValidatePath(rook, rook.Square, NewSquare(2, 2)); valid {
		t.Error("rook cannot move diagonally")
	}
}

func TestValidatePathBishopDiagonal(t *testing.T) {
	bishop := &Piece{Kind: Bishop, Power: whitePower(), Square: NewSquare(2, 0)}
	valid, intermediate := ValidatePath(bishop, bishop.Square, NewSquare(5, 3))
	if !valid {
		t.Fatal("bishop c1-f4 should be valid")
	}
	if len(intermediate) != 2 {
		t.Errorf("intermediate = %v, want 2 squares", intermediate)
	}
}

func TestValidatePathKnight(t *testing.T) {
	knight := &Piece{Kind: Knight, Power: whitePower(), Square: NewSquare(1, 0)}
	if valid, intermediate := ValidatePath(knight, knight.Square, NewSquare(2, 2)); !valid || intermediate != nil {
		t.Errorf("knight b1-c3 should be valid with no intermediate, got valid=%v intermediate=%v", valid, intermediate)
	}
	if valid, _ := ValidatePath(knight, knight.Square, NewSquare(3, 2)); valid {
		t.Error("knight b1-d3 should be invalid")
	}
}

func TestValidatePathKing(t *testing.T) {
	king := &Piece{Kind: King, Power: whitePower(), Square: NewSquare(4, 0)}
	if valid, _ := ValidatePath(king, king.Square, NewSquare(4, 1)); !valid {
		t.Error("king e1-e2 should be valid")
	}
	if valid, _ := ValidatePath(king, king.Square, NewSquare(4, 2)); valid {
		t.Error("king e1-e3 should be invalid")
	}
}

func TestValidatePathPawnSingleAndDouble(t *testing.T) {
	pawn := &Piece{Kind: Pawn, Power: whitePower(), Square: NewSquare(3, 1)}
	if valid, intermediate := ValidatePath(pawn, pawn.Square, NewSquare(3, 2)); !valid || intermediate != nil {
		t.Errorf("pawn d2-d3 should be valid with no intermediate")
	}
	valid, intermediate := ValidatePath(pawn, pawn.Square, NewSquare(3, 3))
	if !valid {
		t.Fatal("pawn d2-d4 should be valid from home rank")
	}
	if len(intermediate) != 1 || intermediate[0] != NewSquare(3, 2) {
		t.Errorf("pawn d2-d4 intermediate = %v, want [d3]", intermediate)
	}
}

func TestValidatePathPawnDoubleOffHomeRankFails(t *testing.T) {
	pawn := &Piece{Kind: Pawn, Power: whitePower(), Square: NewSquare(3, 2)}
	if valid, _ := ValidatePath(pawn, pawn.Square, NewSquare(3, 4)); valid {
		t.Error("pawn double step off the home rank should be invalid")
	}
}

func TestValidatePathBlackPawnDirection(t *testing.T) {
	pawn := &Piece{Kind: Pawn, Power: blackPower(), Square: NewSquare(3, 6)}
	if valid, _ := ValidatePath(pawn, pawn.Square, NewSquare(3, 5)); !valid {
		t.Error("black pawn d7-d6 should be valid")
	}
	if valid, _ := ValidatePath(pawn, pawn.Square, NewSquare(3, 7)); valid {
		t.Error("black pawn cannot move backward")
	}
}

func TestCastlePathTracksRookIntermediate(t *testing.T) {
	rook := &Piece{Kind: Rook, Power: whitePower(), Square: NewSquare(0, 0)}
	p := NewChessPath(rook, NewSquare(3, 0), CastleException)
	if !p.Valid {
		t.Fatal("castle rook path should be assumed valid")
	}
	if len(p.Intermediate) != 2 {
		t.Errorf("long-castle rook a1-d1 intermediate = %v, want 2 squares", p.Intermediate)
	}
}

func TestEnPassantPath(t *testing.T) {
	pawn := &Piece{Kind: Pawn, Power: whitePower(), Square: NewSquare(3, 4)}
	p := NewChessPath(pawn, NewSquare(2, 5), EnPassantException)
	if !p.Valid {
		t.Error("diagonal en passant path should be valid")
	}
	if p2 := NewChessPath(pawn, NewSquare(3, 5), EnPassantException); p2.Valid {
		t.Error("straight move cannot be an en passant path")
	}
}
