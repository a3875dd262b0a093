package chessdip

// Manager owns the order arena for one adjudication turn: every Order lives
// in m.orders and is referred to everywhere else by OrderHandle, so that the
// naturally cyclic support/convoy graph never needs owned references.
type Manager struct {
	orders []Order
}

// NewManager returns an empty order manager.
func NewManager() *Manager {
	return &Manager{orders: make([]Order, 0, 64)}
}

// Order returns a read-only view of the order at h.
func (m *Manager) Order(h OrderHandle) *Order {
	if h == NoOrder {
		return nil
	}
	return &m.orders[h]
}

func (m *Manager) order(h OrderHandle) *Order { return &m.orders[h] }

// GetHold returns the (possibly newly created) Hold order for piece.
func (m *Manager) GetHold(piece *Piece, virtual bool) OrderHandle {
	return m.getOrder(orderArgs{kind: KindHold, piece: piece, supportedOrder: NoOrder, convoyedOrder: NoOrder}, virtual)
}

// GetMove returns the (possibly newly created) Move order for piece to land,
// auto-tiling any intermediate squares with Convoy orders.
func (m *Manager) GetMove(piece *Piece, land Square, moveType MoveType, exception PathException, virtual bool) OrderHandle {
	return m.getOrder(orderArgs{kind: KindMove, piece: piece, landing: land, moveType: moveType, exception: exception, supportedOrder: NoOrder, convoyedOrder: NoOrder}, virtual)
}

// GetDisband returns the Disband order for piece.
func (m *Manager) GetDisband(piece *Piece, virtual bool) OrderHandle {
	return m.getOrder(orderArgs{kind: KindDisband, piece: piece, supportedOrder: NoOrder, convoyedOrder: NoOrder}, virtual)
}

// GetBuild returns the Build order for the given power, piece kind and square.
func (m *Manager) GetBuild(power *Power, kind PieceKind, square Square, virtual bool) OrderHandle {
	return m.getOrder(orderArgs{kind: KindBuild, buildPower: power, buildKind: kind, square: square, supportedOrder: NoOrder, convoyedOrder: NoOrder}, virtual)
}

// GetSupportHoldOrder finds-or-creates a virtual Hold for supportedPiece and
// a SupportHold order from piece backing it.
func (m *Manager) GetSupportHoldOrder(piece, supportedPiece *Piece, virtual bool) OrderHandle {
	supported := m.GetHold(supportedPiece, true)
	h := m.getOrder(orderArgs{kind: KindSupportHold, piece: piece, supportedOrder: supported, convoyedOrder: NoOrder}, virtual)
	m.addSupport(supported, h)
	return h
}

// GetSupportMoveOrder finds-or-creates a virtual Move for supportedPiece
// landing at supportedLanding, and a SupportMove order from piece backing it.
func (m *Manager) GetSupportMoveOrder(piece, supportedPiece *Piece, supportedLanding Square, virtual bool) OrderHandle {
	supported := m.GetMove(supportedPiece, supportedLanding, AttackMove, NoException, true)
	h := m.getOrder(orderArgs{kind: KindSupportMove, piece: piece, supportedOrder: supported, convoyedOrder: NoOrder}, virtual)
	m.addSupport(supported, h)
	return h
}

// GetSupportConvoyOrder finds-or-creates a virtual Move for convoyedPiece
// landing at convoyedLanding, a virtual Convoy at convoySquare referring to
// it, and a SupportConvoy order from piece backing that Convoy.
func (m *Manager) GetSupportConvoyOrder(piece, convoyedPiece *Piece, convoySquare, convoyedLanding Square, virtual bool) OrderHandle {
	convoyed := m.GetMove(convoyedPiece, convoyedLanding, AttackMove, NoException, true)
	convoy := m.getOrder(orderArgs{kind: KindConvoy, square: convoySquare, convoyedOrder: convoyed, supportedOrder: NoOrder}, true)
	h := m.getOrder(orderArgs{kind: KindSupportConvoy, piece: piece, supportedOrder: convoy, convoyedOrder: NoOrder}, virtual)
	m.addSupport(convoy, h)
	return h
}

// GetCastleLinker finds-or-creates the OrderLinker bundling the king and
// rook Move orders for a castle in the given direction.
func (m *Manager) GetCastleLinker(king, rook *Piece, long, virtual bool) OrderHandle {
	kind := "short_castle"
	kingLanding, rookLanding := king.Power.KingsideCastleKingSquare(), king.Power.KingsideCastleRookSquare()
	if long {
		kind = "long_castle"
		kingLanding, rookLanding = king.Power.QueensideCastleKingSquare(), king.Power.QueensideCastleRookSquare()
	}
	for i := range m.orders {
		o := &m.orders[i]
		if !o.removed && o.kind == KindLinker && o.linkerKind == kind && len(o.linkerMembers) > 0 && m.order(o.linkerMembers[0]).piece == king {
			if !virtual {
				o.virtual = false
			}
			return o.handle
		}
	}
	kingMove := m.newOrder(orderArgs{kind: KindMove, piece: king, landing: kingLanding, moveType: TravelMove, exception: CastleException, supportedOrder: NoOrder, convoyedOrder: NoOrder}, virtual)
	rookMove := m.newOrder(orderArgs{kind: KindMove, piece: rook, landing: rookLanding, moveType: TravelMove, exception: CastleException, supportedOrder: NoOrder, convoyedOrder: NoOrder}, virtual)
	linker := m.appendOrder(Order{kind: KindLinker, virtual: virtual, linkerKind: kind, linkerMembers: []OrderHandle{kingMove, rookMove}, supportedOrder: NoOrder, convoyedOrder: NoOrder, linker: NoOrder})
	m.order(kingMove).linker = linker
	m.order(rookMove).linker = linker
	m.addConvoys(kingMove)
	m.addConvoys(rookMove)
	m.clearConflictingOrders(kingMove)
	m.clearConflictingOrders(rookMove)
	return linker
}

// GetEnPassantLinker finds-or-creates the OrderLinker for a pawn's
// en-passant capture: the pawn travels diagonally to the empty square, and
// the Executor removes the piece sitting on attackSquare once the linker
// resolves true.
func (m *Manager) GetEnPassantLinker(pawn *Piece, travelSquare, attackSquare Square, virtual bool) OrderHandle {
	for i := range m.orders {
		o := &m.orders[i]
		if !o.removed && o.kind == KindLinker && o.linkerKind == "en_passant" && len(o.linkerMembers) > 0 {
			member := m.order(o.linkerMembers[0])
			if member.piece == pawn && member.landing == travelSquare {
				if !virtual {
					o.virtual = false
				}
				return o.handle
			}
		}
	}
	move := m.newOrder(orderArgs{kind: KindMove, piece: pawn, landing: travelSquare, moveType: AttackMove, exception: EnPassantException, supportedOrder: NoOrder, convoyedOrder: NoOrder}, virtual)
	linker := m.appendOrder(Order{kind: KindLinker, virtual: virtual, linkerKind: "en_passant", linkerMembers: []OrderHandle{move}, square: attackSquare, supportedOrder: NoOrder, convoyedOrder: NoOrder, linker: NoOrder})
	m.order(move).linker = linker
	m.clearConflictingOrders(move)
	return linker
}

// getOrder is the decision rule behind every typed Get* helper: reuse a
// matching existing order, else inherit from a generic SupportOrder, else
// construct fresh.
func (m *Manager) getOrder(args orderArgs, virtual bool) OrderHandle {
	for i := range m.orders {
		o := &m.orders[i]
		if o.removed {
			continue
		}
		if o.matches(args) {
			h := o.handle
			if !virtual {
				m.order(h).virtual = false
			}
			m.clearConflictingOrders(h)
			return h
		}
	}

	if args.kind.isSupport() && args.kind != KindSupport {
		targetSq := args.supportedSquare
		if args.supportedOrder != NoOrder {
			targetSq = m.order(args.supportedOrder).LandingSquare()
		}
		for i := range m.orders {
			o := &m.orders[i]
			if o.removed {
				continue
			}
			if o.kind == KindSupport && o.IsInheritable(args.piece, targetSq) {
				generic := o.handle
				fresh := m.newOrder(args, virtual)
				m.transplantConvoys(generic, fresh)
				m.order(generic).removed = true
				m.clearConflictingOrders(fresh)
				return fresh
			}
		}
	}

	h := m.newOrder(args, virtual)
	m.addConvoys(h)
	m.clearConflictingOrders(h)
	return h
}

func (m *Manager) newOrder(args orderArgs, virtual bool) OrderHandle {
	o := Order{kind: args.kind, piece: args.piece, virtual: virtual, supportedOrder: NoOrder, convoyedOrder: NoOrder, linker: NoOrder}
	switch args.kind {
	case KindMove:
		o.landing = args.landing
		o.moveType = args.moveType
		o.exception = args.exception
		o.path = NewChessPath(args.piece, args.landing, args.exception)
	case KindBuild:
		o.buildPower = args.buildPower
		o.buildKind = args.buildKind
		o.landing = args.square
	case KindConvoy:
		o.square = args.square
		o.convoyedOrder = args.convoyedOrder
	case KindSupportHold, KindSupportMove, KindSupportConvoy:
		o.supportedOrder = args.supportedOrder
		o.supportedSquare = m.order(args.supportedOrder).LandingSquare()
		o.path = NewChessPath(args.piece, o.supportedSquare, NoException)
	case KindSupport:
		o.supportedSquare = args.supportedSquare
	}
	return m.appendOrder(o)
}

func (m *Manager) appendOrder(o Order) OrderHandle {
	h := OrderHandle(len(m.orders))
	o.handle = h
	m.orders = append(m.orders, o)
	return h
}

func (m *Manager) transplantConvoys(from, to OrderHandle) {
	convoys := append([]OrderHandle(nil), m.order(from).convoys...)
	toVirtual := m.order(to).virtual
	for _, ch := range convoys {
		c := m.order(ch)
		c.convoyedOrder = to
		c.virtual = toVirtual
	}
	m.order(to).convoys = convoys
}

func (m *Manager) addSupport(target, support OrderHandle) {
	t := m.order(target)
	t.supports = append(t.supports, support)
}

func (m *Manager) removeSupport(target, support OrderHandle) {
	t := m.order(target)
	for i, s := range t.supports {
		if s == support {
			t.supports = append(t.supports[:i], t.supports[i+1:]...)
			return
		}
	}
}

func (m *Manager) addConvoys(h OrderHandle) {
	o := m.order(h)
	if o.kind != KindMove && !o.kind.isSupport() {
		return
	}
	intermediate := o.IntermediateSquares()
	virtual := o.virtual
	for _, sq := range intermediate {
		ch := m.newOrder(orderArgs{kind: KindConvoy, square: sq, convoyedOrder: h, supportedOrder: NoOrder}, virtual)
		m.order(h).convoys = append(m.order(h).convoys, ch)
	}
}

// SetVirtual sets order h's virtual flag and propagates it to every Convoy
// auto-tiling its path.
func (m *Manager) SetVirtual(h OrderHandle, flag bool) {
	o := m.order(h)
	o.virtual = flag
	for _, ch := range append([]OrderHandle(nil), o.convoys...) {
		m.SetVirtual(ch, flag)
	}
}

// SetSuccess records the Adjudicator's verdict for h, propagating to every
// constituent if h is a Linker.
func (m *Manager) SetSuccess(h OrderHandle, success bool) {
	o := m.order(h)
	o.success = success
	if o.kind == KindLinker {
		for _, mh := range o.linkerMembers {
			m.order(mh).success = success
		}
	}
}

// Retract removes order h from the set, running the cascade that preserves
// the Order Manager invariants (see the retract cascade in SPEC_FULL.md §4.D).
func (m *Manager) Retract(h OrderHandle) {
	o := m.order(h)
	if o.removed {
		return
	}

	for _, sh := range o.supports {
		if !m.order(sh).virtual {
			m.SetVirtual(h, true)
			return
		}
	}

	if o.supportedOrder != NoOrder {
		supported := o.supportedOrder
		m.removeSupport(supported, h)
		if m.order(supported).virtual {
			m.Retract(supported)
		}
	}

	o = m.order(h)
	for _, ch := range o.convoys {
		if len(m.order(ch).supports) > 0 {
			if o.kind.isSupport() && o.kind != KindSupport {
				m.demoteToGeneric(h)
			} else {
				m.SetVirtual(h, true)
			}
			return
		}
	}

	o = m.order(h)
	if o.kind == KindConvoy && o.convoyedOrder != NoOrder {
		m.Retract(o.convoyedOrder)
		return
	}

	o = m.order(h)
	o.removed = true
	for _, ch := range o.convoys {
		m.order(ch).removed = true
	}
	if o.linker != NoOrder {
		m.detachFromLinker(h)
	}
}

func (m *Manager) demoteToGeneric(h OrderHandle) {
	o := m.order(h)
	generic := Order{
		kind:            KindSupport,
		piece:           o.piece,
		supportedSquare: o.LandingSquare(),
		virtual:         true,
		convoys:         append([]OrderHandle(nil), o.convoys...),
		supportedOrder:  NoOrder,
		convoyedOrder:   NoOrder,
		linker:          NoOrder,
	}
	fresh := m.appendOrder(generic)
	for _, ch := range m.order(fresh).convoys {
		c := m.order(ch)
		c.convoyedOrder = fresh
		c.virtual = true
	}
	m.order(h).removed = true
}

// detachFromLinker retracts the whole OrderLinker (and every sibling
// constituent) when one of its members is individually retracted: castling
// and en passant are atomic, so there is no well-formed state with only one
// half issued.
func (m *Manager) detachFromLinker(h OrderHandle) {
	linkerHandle := m.order(h).linker
	if linkerHandle == NoOrder {
		return
	}
	linker := m.order(linkerHandle)
	linker.removed = true
	for _, mh := range linker.linkerMembers {
		mo := m.order(mh)
		if mo.removed {
			continue
		}
		mo.removed = true
		for _, ch := range mo.convoys {
			m.order(ch).removed = true
		}
	}
}

// clearConflictingOrders retracts every other real order sharing h's piece,
// except Convoys and orders sharing h's OrderLinker. A no-op when h itself
// is virtual, since a virtual order never displaces anything.
func (m *Manager) clearConflictingOrders(h OrderHandle) {
	o := m.order(h)
	if o.kind == KindConvoy {
		return
	}
	if o.piece == nil {
		return
	}
	for i := range m.orders {
		other := &m.orders[i]
		if other.removed || other.handle == h {
			continue
		}
		if o.linker != NoOrder && other.linker == o.linker {
			continue
		}
		if other.piece == o.piece && !other.virtual && !m.order(h).virtual {
			m.Retract(other.handle)
		}
	}
}

// RealOrderAt returns the non-virtual Hold or Move order whose piece
// currently occupies square, or NoOrder if the square is empty or its
// piece's order has not been materialized.
func (m *Manager) RealOrderAt(square Square) OrderHandle {
	for i := range m.orders {
		o := &m.orders[i]
		if o.removed || o.virtual {
			continue
		}
		if (o.kind == KindHold || o.kind == KindMove) && o.piece != nil && o.piece.Square == square {
			return o.handle
		}
	}
	return NoOrder
}

// PieceOrderAt returns the real order belonging to whichever piece currently
// sits on square (its Hold, Move, SupportHold/Move/Convoy, or Disband), or
// NoOrder if the square is empty.
func (m *Manager) PieceOrderAt(square Square) OrderHandle {
	for i := range m.orders {
		o := &m.orders[i]
		if o.removed || o.virtual || o.piece == nil {
			continue
		}
		if o.piece.Square == square {
			return o.handle
		}
	}
	return NoOrder
}

// CompetingConvoys returns every other non-removed, non-virtual Convoy order
// claiming the same square.
func (m *Manager) CompetingConvoys(square Square, exclude OrderHandle) []OrderHandle {
	var out []OrderHandle
	for i := range m.orders {
		o := &m.orders[i]
		if o.removed || o.virtual || o.handle == exclude {
			continue
		}
		if o.kind == KindConvoy && o.square == square {
			out = append(out, o.handle)
		}
	}
	return out
}

// MovesLandingOn returns every non-removed, non-virtual Move order (other
// than exclude) whose landing square is sq.
func (m *Manager) MovesLandingOn(sq Square, exclude OrderHandle) []OrderHandle {
	var out []OrderHandle
	for i := range m.orders {
		o := &m.orders[i]
		if o.removed || o.virtual || o.handle == exclude {
			continue
		}
		if o.kind == KindMove && o.landing == sq {
			out = append(out, o.handle)
		}
	}
	return out
}

// sameLinker reports whether a and b belong to the same non-trivial
// OrderLinker, i.e. are constituents of the same castle or en-passant bundle.
func (m *Manager) sameLinker(a, b OrderHandle) bool {
	if a == NoOrder || b == NoOrder {
		return false
	}
	la, lb := m.order(a).linker, m.order(b).linker
	return la != NoOrder && la == lb
}

// OpposingSharingLanding returns every non-removed, non-virtual Move or
// Convoy order (other than exclude) that shares landing square sq. A Convoy
// auto-tiled onto a linker sibling's own path (e.g. the rook's transit square
// during a castle, which coincides with the king's landing square) is not
// "opposing" its sibling and is excluded, mirroring clearConflictingOrders'
// linker exemption.
func (m *Manager) OpposingSharingLanding(sq Square, exclude OrderHandle) []OrderHandle {
	var out []OrderHandle
	for i := range m.orders {
		o := &m.orders[i]
		if o.removed || o.virtual || o.handle == exclude {
			continue
		}
		owner := o.handle
		if o.kind == KindConvoy {
			owner = o.convoyedOrder
		}
		if m.sameLinker(owner, exclude) {
			continue
		}
		if (o.kind == KindMove || o.kind == KindConvoy) && o.LandingSquare() == sq {
			out = append(out, o.handle)
		}
	}
	return out
}

// GetAdjudicableOrders returns every order the Adjudicator's top-level entry
// must resolve: non-virtual, non-Hold orders, with linked members collapsed
// into their owning Linker (deduplicated).
func (m *Manager) GetAdjudicableOrders() []OrderHandle {
	seenLinker := make(map[OrderHandle]bool)
	var out []OrderHandle
	for i := range m.orders {
		o := &m.orders[i]
		if o.removed || o.virtual || o.kind == KindHold {
			continue
		}
		if o.kind == KindLinker {
			if !seenLinker[o.handle] {
				seenLinker[o.handle] = true
				out = append(out, o.handle)
			}
			continue
		}
		if o.linker != NoOrder {
			if seenLinker[o.linker] {
				continue
			}
			seenLinker[o.linker] = true
			out = append(out, o.linker)
			continue
		}
		out = append(out, o.handle)
	}
	return out
}

// AllOrders returns every non-removed order, real or virtual.
func (m *Manager) AllOrders() []OrderHandle {
	var out []OrderHandle
	for i := range m.orders {
		if !m.orders[i].removed {
			out = append(out, m.orders[i].handle)
		}
	}
	return out
}
