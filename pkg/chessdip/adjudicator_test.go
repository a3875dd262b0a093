package chessdip

import "testing"

func englandPower() *Power { return &Power{ID: "England", Side: White} }
func italyPower() *Power   { return &Power{ID: "Italy", Side: White} }

// Simple bounce: two foreign Kings move onto the same empty square with no
// support from either side. Neither can out-muscle the other, so both fail.
func TestBounceNoSupport(t *testing.T) {
	mgr := NewManager()
	england := englandPower()
	italy := italyPower()

	eKing := &Piece{Kind: King, Power: england, Square: NewSquare(3, 0)}  // d1
	iKing := &Piece{Kind: King, Power: italy, Square: NewSquare(4, 0)}    // e1
	target := NewSquare(3, 1)                                            // d2

	eMove := mgr.GetMove(eKing, target, PlainMove, NoException, false)
	iMove := mgr.GetMove(iKing, target, PlainMove, NoException, false)

	NewAdjudicator(mgr).Run()

	if mgr.Order(eMove).Success() {
		t.Error("England's unsupported move into a contested square should bounce")
	}
	if mgr.Order(iMove).Success() {
		t.Error("Italy's unsupported move into a contested square should bounce")
	}
}

// Head-to-head with support: both Kings swap squares directly, but only
// England's attack is backed by a Rook, so England's King displaces Italy's
// while Italy's unsupported counter-attack loses the swap.
func TestHeadToHeadStrongerSupportWins(t *testing.T) {
	mgr := NewManager()
	england := englandPower()
	italy := italyPower()

	eKing := &Piece{Kind: King, Power: england, Square: NewSquare(3, 0)} // d1
	iKing := &Piece{Kind: King, Power: italy, Square: NewSquare(4, 0)}   // e1
	eRook := &Piece{Kind: Rook, Power: england, Square: NewSquare(4, 1)} // e2, one square behind e1

	eMove := mgr.GetMove(eKing, NewSquare(4, 0), PlainMove, NoException, false) // d1-e1
	iMove := mgr.GetMove(iKing, NewSquare(3, 0), PlainMove, NoException, false) // e1-d1
	mgr.GetSupportMoveOrder(eRook, eKing, NewSquare(4, 0), false)

	NewAdjudicator(mgr).Run()

	if !mgr.Order(eMove).Success() {
		t.Error("England's supported head-to-head attack should beat Italy's unsupported one")
	}
	if mgr.Order(iMove).Success() {
		t.Error("Italy's unsupported head-to-head attack should lose")
	}
}

// Szykman's rule: a Move, a Convoy backing a second Move, and the second
// Move's own auto-tiled Convoy form a deadlocked cycle through the
// occupied-square test. Because a Convoy sits in the cycle, every Convoy in
// it fails (Szykman), so the piece relying on it never gets ferried, while
// the other Move (not waiting on any convoy) goes through.
func TestSzykmanConvoyParadoxFailsConvoy(t *testing.T) {
	mgr := NewManager()
	white := englandPower()

	king := &Piece{Kind: King, Power: white, Square: NewSquare(3, 2)}    // d3, supports Nc3-e2
	knight := &Piece{Kind: Knight, Power: white, Square: NewSquare(2, 2)} // c3, attacks e2
	eKing := &Piece{Kind: King, Power: italyPower(), Square: NewSquare(4, 0)} // e1, supports the convoy
	bishop := &Piece{Kind: Bishop, Power: italyPower(), Square: NewSquare(5, 0)} // f1, travels via e2 to d3

	knightMove := mgr.GetMove(knight, NewSquare(4, 1), AttackMove, NoException, false) // c3-e2
	mgr.GetSupportMoveOrder(king, knight, NewSquare(4, 1), false)

	bishopMove := mgr.GetMove(bishop, NewSquare(3, 2), AttackMove, NoException, false) // f1-d3, auto-tiles a Convoy at e2
	var convoyHandle OrderHandle = NoOrder
	for _, ch := range mgr.Order(bishopMove).Convoys() {
		convoyHandle = ch
	}
	if convoyHandle == NoOrder {
		t.Fatal("bishop's diagonal f1-d3 should auto-tile a Convoy at e2")
	}
	mgr.GetSupportConvoyOrder(eKing, bishop, NewSquare(4, 1), NewSquare(3, 2), false)

	NewAdjudicator(mgr).Run()

	if mgr.Order(convoyHandle).Success() {
		t.Error("the convoy sharing e2 with the knight's own move should fail under Szykman's rule")
	}
	if !mgr.Order(knightMove).Success() {
		t.Error("the knight's direct, convoy-free move into e2 should succeed")
	}
	if mgr.Order(bishopMove).Success() {
		t.Error("the bishop's move depends on its convoy, which failed, so it cannot succeed")
	}
}

// Circular movement: three same-power pieces rotate through each other's
// squares with no convoy involved anywhere in the cycle, so the backup rule
// lets every Move in the cycle through.
func TestCircularMovementAllSucceed(t *testing.T) {
	mgr := NewManager()
	white := englandPower()

	king := &Piece{Kind: King, Power: white, Square: NewSquare(3, 0)}   // d1
	bishop := &Piece{Kind: Bishop, Power: white, Square: NewSquare(3, 1)} // d2
	rook := &Piece{Kind: Rook, Power: white, Square: NewSquare(2, 0)}    // c1

	kingMove := mgr.GetMove(king, NewSquare(3, 1), PlainMove, NoException, false)   // d1-d2
	bishopMove := mgr.GetMove(bishop, NewSquare(2, 0), PlainMove, NoException, false) // d2-c1
	rookMove := mgr.GetMove(rook, NewSquare(3, 0), PlainMove, NoException, false)    // c1-d1

	NewAdjudicator(mgr).Run()

	for _, h := range []OrderHandle{kingMove, bishopMove, rookMove} {
		if !mgr.Order(h).Success() {
			t.Errorf("order %d in a convoy-free rotation should succeed under the circular movement rule", h)
		}
	}
}

// Dislodgement cuts support: a piece supporting a Hold gets its support cut
// once a successful enemy move lands on the supporter's own square, even
// though nothing touches the square it was defending.
func TestDislodgedSupportIsCut(t *testing.T) {
	mgr := NewManager()
	white := englandPower()
	black := &Power{ID: "Black", Side: Black}

	king := &Piece{Kind: King, Power: white, Square: NewSquare(3, 0)}     // d1
	bishop := &Piece{Kind: Bishop, Power: white, Square: NewSquare(2, 1)} // c2, supports d1's Hold
	rook := &Piece{Kind: Rook, Power: black, Square: NewSquare(2, 2)}     // c3, attacks c2
	knight := &Piece{Kind: Knight, Power: black, Square: NewSquare(1, 3)} // b4, backs the attack on c2

	mgr.GetHold(king, false)
	supportH := mgr.GetSupportHoldOrder(bishop, king, false)
	rookMove := mgr.GetMove(rook, bishop.Square, AttackMove, NoException, false)
	mgr.GetSupportMoveOrder(knight, rook, bishop.Square, false)

	NewAdjudicator(mgr).Run()

	if !mgr.Order(rookMove).Success() {
		t.Error("the rook's supported attack on the bishop's square should succeed")
	}
	if mgr.Order(supportH).Success() {
		t.Error("the bishop's support should be cut once its own square is successfully attacked")
	}
}

// Castling fails under attack on the rook's transit square: long castling's
// rook leg (a1-d1) crosses both b1 and c1, and c1 also happens to be the
// king's own landing square. A sibling leg landing there is not a seizure
// (see TestCastleSucceedsUncontested), but b1 is a square neither king nor
// rook ever lands on, so an enemy Move claiming it is a genuine contest that
// breaks the rook's auto-tiled Convoy there and fails the whole Linker.
func TestCastleFailsUnderAttackOnRookTransitSquare(t *testing.T) {
	mgr := NewManager()
	white := englandPower()
	black := &Power{ID: "Black", Side: Black}

	king := &Piece{Kind: King, Power: white, Square: white.KingSquare()}
	rook := &Piece{Kind: Rook, Power: white, Square: white.QueenRookSquare()}
	attacker := &Piece{Kind: Knight, Power: black, Square: NewSquare(3, 1)} // d2, jumps to b1
	attackerMove := mgr.GetMove(attacker, NewSquare(1, 0), AttackMove, NoException, false)

	linker := mgr.GetCastleLinker(king, rook, true, false)

	NewAdjudicator(mgr).Run()

	if mgr.Order(linker).Success() {
		t.Error("castling should fail once an enemy move contests the rook's transit square")
	}
	if !mgr.Order(attackerMove).Success() {
		t.Error("the attacking knight should land unopposed on the castle's contested square")
	}
}

// Castling succeeds when uncontested. The rook's transit square (c1) and the
// king's landing square coincide, but a Convoy auto-tiled onto one linker
// member's path never treats its own sibling's landing there as an opposing
// seizure, so neither leg blocks the other.
func TestCastleSucceedsUncontested(t *testing.T) {
	mgr := NewManager()
	white := englandPower()

	king := &Piece{Kind: King, Power: white, Square: white.KingSquare()}
	rook := &Piece{Kind: Rook, Power: white, Square: white.QueenRookSquare()}

	linker := mgr.GetCastleLinker(king, rook, true, false)

	NewAdjudicator(mgr).Run()

	if !mgr.Order(linker).Success() {
		t.Error("an uncontested castle should succeed")
	}
	for _, mh := range mgr.Order(linker).linkerMembers {
		if !mgr.Order(mh).Success() {
			t.Errorf("order %d, a constituent of a successful castle, should be marked successful", mh)
		}
	}
}
