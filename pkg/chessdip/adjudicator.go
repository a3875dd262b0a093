package chessdip

// Adjudicator resolves a frozen order set built by a Manager. It owns a
// single recursive-guess resolver (DATC §5.E style): per-order resolved,
// result and visited flags plus the engine-wide cycle/recursion_hits/
// uncertain trio. An Adjudicator is single-use: construct one per
// adjudication call and discard it afterward.
type Adjudicator struct {
	mgr *Manager

	resolved map[OrderHandle]bool
	result   map[OrderHandle]bool
	visited  map[OrderHandle]bool

	cycle         []OrderHandle
	recursionHits int
	uncertain     bool
}

// NewAdjudicator returns an Adjudicator over mgr's current order set.
func NewAdjudicator(mgr *Manager) *Adjudicator {
	return &Adjudicator{
		mgr:      mgr,
		resolved: make(map[OrderHandle]bool),
		result:   make(map[OrderHandle]bool),
		visited:  make(map[OrderHandle]bool),
	}
}

// Run resolves every adjudicable order in mgr and writes each verdict back
// via Manager.SetSuccess. Virtual orders are forced to false regardless of
// their internal resolve() value, which still participates in strength
// computations for whatever they support or convoy.
func (a *Adjudicator) Run() {
	for _, h := range a.mgr.GetAdjudicableOrders() {
		a.resolve(h, true)
	}
	for h := range a.resolved {
		if a.mgr.order(h).virtual {
			a.mgr.SetSuccess(h, false)
			continue
		}
		a.mgr.SetSuccess(h, a.result[h])
	}
}

func (a *Adjudicator) inCycle(h OrderHandle) bool {
	for _, c := range a.cycle {
		if c == h {
			return true
		}
	}
	return false
}

// resolve is _resolve from the DATC §5.E-style algorithm: a recursive
// guesser with backtracking on deadlocked cycles.
func (a *Adjudicator) resolve(h OrderHandle, optimistic bool) bool {
	if linker := a.mgr.order(h).linker; linker != NoOrder {
		// A castle/en-passant constituent's resolved state is never its own:
		// anything that reaches it (e.g. a strength check against its landing
		// square) must see the Linker's all-or-none verdict instead, or the
		// member could get cached independently of its sibling's outcome.
		return a.resolve(linker, optimistic)
	}
	if a.resolved[h] {
		return a.result[h]
	}
	if a.inCycle(h) {
		a.uncertain = true
		return optimistic
	}
	if a.visited[h] {
		a.cycle = append(a.cycle, h)
		a.recursionHits++
		a.uncertain = true
		return optimistic
	}

	a.visited[h] = true
	cycleLen := len(a.cycle)
	recursionSnap := a.recursionHits
	uncertainSnap := a.uncertain
	a.uncertain = false

	opt := a.adjudicate(h, true)
	var pes bool
	if a.uncertain && opt {
		pes = a.adjudicate(h, false)
	} else {
		pes = opt
	}

	a.visited[h] = false

	if opt == pes {
		a.uncertain = uncertainSnap
		a.resolved[h] = true
		a.result[h] = opt
		return opt
	}

	if a.inCycle(h) {
		a.recursionHits--
		if a.recursionHits == recursionSnap {
			a.applyBackupRule(cycleLen)
			a.cycle = a.cycle[:cycleLen]
			a.uncertain = uncertainSnap
			return a.resolve(h, optimistic)
		}
		return optimistic
	}

	a.cycle = append(a.cycle, h)
	return optimistic
}

// applyBackupRule implements Szykman's rule (any Convoy in the deadlocked
// tail) and Circular Movement (no Convoy): see spec §4.E.3.
func (a *Adjudicator) applyBackupRule(cycleLen int) {
	tail := a.cycle[cycleLen:]
	hasConvoy := false
	for _, h := range tail {
		if a.mgr.order(h).kind == KindConvoy {
			hasConvoy = true
			break
		}
	}
	for _, h := range tail {
		o := a.mgr.order(h)
		switch {
		case hasConvoy && o.kind == KindConvoy:
			a.result[h] = false
			a.resolved[h] = true
		case !hasConvoy && o.kind == KindMove:
			a.result[h] = true
			a.resolved[h] = true
		default:
			a.resolved[h] = false
		}
	}
}

// adjudicate is _adjudicate: dispatch on the order's variant.
func (a *Adjudicator) adjudicate(h OrderHandle, optimistic bool) bool {
	o := a.mgr.order(h)
	switch o.kind {
	case KindLinker:
		for _, mh := range o.linkerMembers {
			if !a.adjudicateMove(mh, optimistic) {
				return false
			}
		}
		return true
	case KindMove:
		return a.adjudicateMove(h, optimistic)
	case KindSupportHold, KindSupportMove, KindSupportConvoy:
		return a.adjudicateSupport(h, optimistic)
	case KindConvoy:
		return a.adjudicateConvoy(h, optimistic)
	case KindBuild, KindDisband:
		return true
	default:
		panic("chessdip: adjudicate called on order kind " + o.kind.String())
	}
}

func (a *Adjudicator) isHeadToHead(h OrderHandle) bool {
	o := a.mgr.order(h)
	if o.kind != KindMove {
		return false
	}
	counter := a.mgr.PieceOrderAt(o.LandingSquare())
	if counter == NoOrder {
		return false
	}
	co := a.mgr.order(counter)
	return co.kind == KindMove && co.LandingSquare() == o.StartingSquare()
}

func (a *Adjudicator) isVacating(landing OrderHandle, attackerStart Square, optimistic bool) bool {
	lo := a.mgr.order(landing)
	if lo.kind != KindMove {
		return false
	}
	if lo.LandingSquare() == attackerStart {
		return false // head-to-head, handled separately
	}
	return a.resolve(landing, optimistic)
}

// countResolvingSupports counts o's real supports that resolve true. When
// differFrom is non-nil, a support from that power is excluded (used for the
// "ordering-power differs from the defender's power" clause).
func (a *Adjudicator) countResolvingSupports(o *Order, optimistic bool, differFrom *Power) float64 {
	n := 0.0
	for _, sh := range o.supports {
		s := a.mgr.order(sh)
		if s.virtual {
			continue
		}
		if differFrom != nil && s.piece != nil && s.piece.Power == differFrom {
			continue
		}
		if a.resolve(sh, optimistic) {
			n++
		}
	}
	return n
}

func (a *Adjudicator) moveBase(o *Order) float64 {
	if o.moveType == TravelMove {
		return 0
	}
	return 1
}

// pathHolds reports whether o's path is both geometrically valid and, for
// every square it must be ferried across, carried by a Convoy that itself
// resolves true. A Move or Support whose convoy link breaks is exactly as
// stuck as one whose geometry was never legal to begin with.
func (a *Adjudicator) pathHolds(o *Order, optimistic bool) bool {
	if !o.path.Valid {
		return false
	}
	for _, ch := range o.convoys {
		if !a.resolve(ch, optimistic) {
			return false
		}
	}
	return true
}

// attackStrength implements §4.E.1's attack_strength.
func (a *Adjudicator) attackStrength(h OrderHandle, optimistic bool) float64 {
	o := a.mgr.order(h)
	if !a.pathHolds(o, optimistic) {
		return 0
	}
	base := a.moveBase(o)
	landing := o.LandingSquare()
	landingOrder := a.mgr.PieceOrderAt(landing)

	if landingOrder == NoOrder || a.isVacating(landingOrder, o.StartingSquare(), optimistic) {
		n := a.countResolvingSupports(o, optimistic, nil)
		total := base + n
		if total == 0 {
			return 0.5
		}
		return total
	}

	lo := a.mgr.order(landingOrder)
	if o.piece != nil && lo.piece != nil && lo.piece.Power == o.piece.Power {
		return 0
	}
	var defenderPower *Power
	if lo.piece != nil {
		defenderPower = lo.piece.Power
	}
	return base + a.countResolvingSupports(o, optimistic, defenderPower)
}

// defendStrength implements §4.E.1's defend_strength.
func (a *Adjudicator) defendStrength(h OrderHandle, optimistic bool) float64 {
	o := a.mgr.order(h)
	if !a.pathHolds(o, optimistic) {
		return 0
	}
	return a.moveBase(o) + a.countResolvingSupports(o, optimistic, nil)
}

// holdStrength implements §4.E.1's hold_strength.
func (a *Adjudicator) holdStrength(square Square, optimistic bool) float64 {
	h := a.mgr.PieceOrderAt(square)
	if h == NoOrder {
		return 0
	}
	o := a.mgr.order(h)
	if o.kind == KindMove {
		if a.resolve(h, optimistic) {
			return 0
		}
		return 1
	}
	if o.kind == KindHold {
		return 1 + a.countResolvingSupports(o, optimistic, nil)
	}
	// Any other stationary real order (Support*, Disband) keeps its piece in
	// place exactly like a Hold, but only a literal Hold accrues SupportHold
	// bonuses of its own.
	return 1
}

// preventStrength implements §4.E.1's prevent_strength.
func (a *Adjudicator) preventStrength(h OrderHandle, optimistic bool) float64 {
	o := a.mgr.order(h)
	if o.kind == KindConvoy {
		n := a.countResolvingSupports(o, optimistic, nil)
		if n < 0.5 {
			return 0.5
		}
		return n
	}
	if !a.pathHolds(o, optimistic) {
		return 0
	}
	if a.isHeadToHead(h) && a.resolve(h, optimistic) {
		return 0
	}
	return a.moveBase(o) + a.countResolvingSupports(o, optimistic, nil)
}

// SupportStrength implements §4.E.1's support_strength: the number of real
// supports of h that resolve true. Exported for direct testing.
func (a *Adjudicator) SupportStrength(h OrderHandle) float64 {
	return a.countResolvingSupports(a.mgr.order(h), true, nil)
}

// adjudicateMove implements §4.E.2's Move rule.
func (a *Adjudicator) adjudicateMove(h OrderHandle, optimistic bool) bool {
	o := a.mgr.order(h)
	if !a.pathHolds(o, optimistic) {
		return false
	}
	landing := o.LandingSquare()
	atk := a.attackStrength(h, optimistic)

	for _, oh := range a.mgr.OpposingSharingLanding(landing, h) {
		if a.preventStrength(oh, optimistic) >= atk {
			return false
		}
	}

	if a.isHeadToHead(h) {
		counter := a.mgr.PieceOrderAt(landing)
		if a.defendStrength(counter, optimistic) >= atk {
			return false
		}
		return true
	}
	return a.holdStrength(landing, optimistic) < atk
}

// adjudicateSupport implements §4.E.2's Support rule: a support fails if its
// path is broken, or if a foreign move (not the very order being supported)
// lands on the supporter's own square and resolves true.
func (a *Adjudicator) adjudicateSupport(h OrderHandle, optimistic bool) bool {
	o := a.mgr.order(h)
	if !a.pathHolds(o, optimistic) {
		return false
	}
	square := o.piece.Square
	for _, mh := range a.mgr.MovesLandingOn(square, NoOrder) {
		if mh == o.supportedOrder {
			continue
		}
		mo := a.mgr.order(mh)
		if mo.piece != nil && mo.piece.Power == o.piece.Power {
			continue // same power as the supported side cannot cut
		}
		if a.resolve(mh, optimistic) {
			return false
		}
	}
	return true
}

// adjudicateConvoy implements §4.E.2's Convoy rule: the claimed square must
// be vacated (or already empty), no competing Convoy of equal or greater
// strength may contest the same square, and no opposing Move may seize it outright.
func (a *Adjudicator) adjudicateConvoy(h OrderHandle, optimistic bool) bool {
	o := a.mgr.order(h)
	occupant := a.mgr.PieceOrderAt(o.square)
	if occupant != NoOrder {
		oo := a.mgr.order(occupant)
		if oo.kind != KindMove || !a.resolve(occupant, optimistic) {
			return false
		}
	}

	myStrength := a.countResolvingSupports(o, optimistic, nil)
	for _, ch := range a.mgr.CompetingConvoys(o.square, h) {
		co := a.mgr.order(ch)
		if a.countResolvingSupports(co, optimistic, nil) >= myStrength {
			return false
		}
	}

	for _, mh := range a.mgr.MovesLandingOn(o.square, NoOrder) {
		if a.mgr.sameLinker(mh, o.convoyedOrder) {
			continue // a linker sibling landing here is the castle itself, not a seizure
		}
		if a.resolve(mh, optimistic) {
			return false
		}
	}
	return true
}
