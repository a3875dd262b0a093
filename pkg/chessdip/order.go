package chessdip

// OrderKind tags the variant an Order represents.
type OrderKind int

const (
	KindHold OrderKind = iota
	KindMove
	KindConvoy
	KindSupportHold
	KindSupportMove
	KindSupportConvoy
	KindSupport // generic SupportOrder, used only while inheriting between subtypes
	KindBuild
	KindDisband
	KindLinker
)

func (k OrderKind) String() string {
	switch k {
	case KindHold:
		return "Hold"
	case KindMove:
		return "Move"
	case KindConvoy:
		return "Convoy"
	case KindSupportHold:
		return "SupportHold"
	case KindSupportMove:
		return "SupportMove"
	case KindSupportConvoy:
		return "SupportConvoy"
	case KindSupport:
		return "Support"
	case KindBuild:
		return "Build"
	case KindDisband:
		return "Disband"
	case KindLinker:
		return "Linker"
	default:
		return "Unknown"
	}
}

func (k OrderKind) isSupport() bool {
	switch k {
	case KindSupportHold, KindSupportMove, KindSupportConvoy, KindSupport:
		return true
	default:
		return false
	}
}

// MoveType distinguishes Diplomacy-style attacking moves from purely
// positional travel, used by the king and rook legs of a castle, which must
// succeed through the resolver without counting as an attack.
type MoveType int

const (
	PlainMove MoveType = iota
	AttackMove
	TravelMove
)

// OrderHandle is a stable index into a Manager's order arena. Handles start
// at 0, so the zero value is the first order's handle; use NoOrder for
// "absent".
type OrderHandle int

// NoOrder is the sentinel for "no order"/"no handle".
const NoOrder OrderHandle = -1

// Order is the single tagged-variant representation of every order kind.
// Orders live in a Manager's arena and are referred to by OrderHandle so
// that the naturally cyclic support/convoy graph never needs owned
// references.
type Order struct {
	handle  OrderHandle
	kind    OrderKind
	removed bool

	piece   *Piece // nil for Convoy and Build
	virtual bool
	success bool

	// Move / generic geometry.
	landing   Square
	moveType  MoveType
	exception PathException
	path      ChessPath

	// Support (typed and generic).
	supportedOrder  OrderHandle // SupportHold/Move/Convoy: the order being supported
	supportedSquare Square      // typed: the supported order's landing square; generic: the supported square

	// Convoy.
	square        Square // the intermediate square this Convoy claims
	convoyedOrder OrderHandle

	// Build.
	buildPower *Power
	buildKind  PieceKind

	// Graph edges.
	supports []OrderHandle // SupportOrders pointing at this order
	convoys  []OrderHandle // Convoys auto-tiling this order's intermediate squares

	// Linker (castle, en passant).
	linker        OrderHandle // the OrderLinker this order belongs to, or NoOrder
	linkerKind    string      // "short_castle", "long_castle", "en_passant" (Linker orders only)
	linkerMembers []OrderHandle
}

// Handle returns this order's stable identity within its Manager.
func (o *Order) Handle() OrderHandle { return o.handle }

// Kind returns the order's tagged variant.
func (o *Order) Kind() OrderKind { return o.kind }

// Piece returns the acting piece, or nil for Convoy/Build/Linker orders.
func (o *Order) Piece() *Piece { return o.piece }

// Virtual reports whether this order is a reference-only placeholder.
func (o *Order) Virtual() bool { return o.virtual }

// Success reports the Adjudicator's verdict for this order.
func (o *Order) Success() bool { return o.success }

// Supports returns the SupportOrders targeting this order.
func (o *Order) Supports() []OrderHandle { return o.supports }

// Convoys returns the Convoy orders auto-tiling this order's intermediate squares.
func (o *Order) Convoys() []OrderHandle { return o.convoys }

// SupportedOrder returns the order a SupportOrder targets, or NoOrder.
func (o *Order) SupportedOrder() OrderHandle { return o.supportedOrder }

// ConvoyedOrder returns the order a Convoy claims to carry, or NoOrder.
func (o *Order) ConvoyedOrder() OrderHandle { return o.convoyedOrder }

// StartingSquare returns the square this order's piece starts from, or the
// claimed square for a Convoy.
func (o *Order) StartingSquare() Square {
	switch o.kind {
	case KindConvoy:
		return o.square
	case KindBuild:
		return o.landing
	default:
		if o.piece != nil {
			return o.piece.Square
		}
		return o.landing
	}
}

// LandingSquare returns the square this order resolves toward.
func (o *Order) LandingSquare() Square {
	switch o.kind {
	case KindHold:
		return o.piece.Square
	case KindMove:
		return o.landing
	case KindConvoy:
		return o.square
	case KindSupportHold, KindSupportMove, KindSupportConvoy:
		return o.supportedSquare
	case KindSupport:
		return o.supportedSquare
	case KindBuild, KindDisband:
		return o.landing
	default:
		return o.landing
	}
}

// IntermediateSquares returns the convoy sites of this order's path, empty
// for any order kind without a ChessPath or with an invalid one.
func (o *Order) IntermediateSquares() []Square {
	if o.kind != KindMove && !o.kind.isSupport() {
		return nil
	}
	if !o.path.Valid {
		return nil
	}
	return o.path.Intermediate
}

// MoveType returns the move classification (Move/Attack/Travel) for a Move order.
func (o *Order) MoveType() MoveType { return o.moveType }

// IsInheritable reports whether a generic SupportOrder with this order's
// piece and supported square may be replaced, without disturbing its convoy
// tiling, by a typed support order requesting the given piece and landing
// square of its own supported-order argument.
func (o *Order) IsInheritable(piece *Piece, targetSquare Square) bool {
	if o.kind != KindSupport {
		return false
	}
	return o.piece == piece && o.supportedSquare == targetSquare
}

// orderArgs is the tuple of fields getOrder uses to recognize an existing
// order as "the same order" for a given (kind, args) request.
type orderArgs struct {
	kind            OrderKind
	piece           *Piece
	landing         Square
	moveType        MoveType
	exception       PathException
	supportedOrder  OrderHandle
	supportedSquare Square
	convoyedOrder   OrderHandle
	square          Square
	buildPower      *Power
	buildKind       PieceKind
}

func (o *Order) matches(a orderArgs) bool {
	if o.kind != a.kind {
		return false
	}
	switch o.kind {
	case KindHold, KindDisband:
		return o.piece == a.piece
	case KindMove:
		return o.piece == a.piece && o.landing == a.landing
	case KindConvoy:
		return o.square == a.square && o.convoyedOrder == a.convoyedOrder
	case KindSupportHold, KindSupportMove, KindSupportConvoy:
		return o.piece == a.piece && o.supportedOrder == a.supportedOrder
	case KindSupport:
		return o.piece == a.piece && o.supportedSquare == a.supportedSquare
	case KindBuild:
		return o.buildPower == a.buildPower && o.buildKind == a.buildKind && o.landing == a.square
	default:
		return false
	}
}
