package cartsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

var ErrClosed = errors.New("cart engine closed")

type Option func(*Engine)

// WithNotifier sets where acknowledgments and failure messages go.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithPlaceholders(fn func() ProvisionalID) Option {
	return func(e *Engine) { e.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

type subscriber struct {
	id uint64
	fn func(Snapshot)
}

// pendingInsert tracks a provisional line whose insert has not settled.
type pendingInsert struct {
	product product.Product
	carry   bool // quantity edited locally; send it once the row exists
	dropped bool // removed locally before the store answered
	merging bool // insert hit an existing row and is being added to it

	// adopted is set when the row of an earlier insert for the same
	// product was taken over by this line.
	adopted    DurableID
	adoptedQty int
}

// published is a committed snapshot waiting to be delivered to subscribers.
type published struct {
	seq  uint64
	snap Snapshot
	subs []func(Snapshot)
}

// Engine owns the in-memory cart of one session. Intents (Add, SetQuantity,
// Remove) update the snapshot before returning and reconcile with the
// Gateway in the background. Any failed reconciliation reloads the whole
// snapshot from the Gateway.
//
// All state transitions are serialized by one mutex. Subscribers are called
// outside of it, one snapshot at a time and in commit order. A subscriber
// may read Snapshot but must not call an intent synchronously.
type Engine struct {
	sessionID string
	gw        Gateway
	notifier  Notifier
	log       logrus.FieldLogger
	newID     func() ProvisionalID
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	idle      *sync.Cond
	inflight  int
	closed    bool
	snap      Snapshot
	confirmed map[ProvisionalID]DurableID
	pending   map[ProvisionalID]*pendingInsert
	subs      []subscriber
	nextSub   uint64
	seq       uint64

	// mutating counts gateway mutations in flight; settled counts finished
	// ones. A reload that overlaps either may have read a store that was
	// still changing, so stale asks for one more once mutations drain.
	mutating int
	settled  uint64
	stale    bool

	deliverMu sync.Mutex
	turn      *sync.Cond
	delivered uint64
}

func New(sessionID string, gw Gateway, log logrus.FieldLogger, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		sessionID: sessionID,
		gw:        gw,
		notifier:  discardNotifier{},
		log:       log.WithFields(logrus.Fields{"component": "cart-engine", "sessionId": sessionID}),
		newID:     newPlaceholder,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		snap:      newSnapshot(nil, false),
		confirmed: make(map[ProvisionalID]DurableID),
		pending:   make(map[ProvisionalID]*pendingInsert),
	}
	e.idle = sync.NewCond(&e.mu)
	e.turn = sync.NewCond(&e.deliverMu)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) SessionID() string { return e.sessionID }

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Subscribe registers fn for every snapshot committed from now on.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscriber{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Add puts qty units of p in the cart. An existing line for p is
// incremented, otherwise a provisional line is created until the store
// confirms it.
func (e *Engine) Add(p product.Product, qty int) (Snapshot, error) {
	if qty < 1 {
		return e.Snapshot(), cart.ErrInvalidQuantity
	}
	if !p.Orderable() {
		return e.Snapshot(), cart.ErrProductUnavailable
	}

	e.mu.Lock()
	if e.closed {
		s := e.snap
		e.mu.Unlock()
		return s, ErrClosed
	}

	now := e.now()
	var lines []Line
	if i := indexByProduct(e.snap.Lines, p.ID); i >= 0 {
		lines = cloneLines(e.snap.Lines)
		lines[i].Quantity += qty
		lines[i].UpdatedAt = now

		e.goMutation(func(ctx context.Context) {
			rec, err := e.gw.IncrementExistingLine(ctx, e.sessionID, p.ID, qty)
			e.settleIncrement(ctx, p.ID, rec, err)
		})
	} else {
		pid := e.newID()
		e.pending[pid] = &pendingInsert{product: p}
		lines = append(cloneLines(e.snap.Lines), Line{
			ID:        pid,
			SessionID: e.sessionID,
			ProductID: p.ID,
			Quantity:  qty,
			Product:   p,
			CreatedAt: now,
			UpdatedAt: now,
		})

		e.goMutation(func(ctx context.Context) {
			rec, err := e.gw.InsertLine(ctx, e.sessionID, p.ID, qty)
			e.settleInsert(ctx, pid, p.ID, qty, rec, err)
		})
	}

	pub := e.commitLocked(lines, e.snap.Loading)
	e.mu.Unlock()
	e.publish(pub)

	e.notifier.Notify(addedNotification(p.Name))
	return pub.snap, nil
}

// SetQuantity overwrites the quantity of a line; qty <= 0 removes it.
// Provisional lines change locally only and the quantity is carried to the
// store once the insert is confirmed.
func (e *Engine) SetQuantity(id LineID, qty int) Snapshot {
	if qty <= 0 {
		return e.Remove(id)
	}

	e.mu.Lock()
	i := e.indexLocked(id)
	if e.closed || i < 0 {
		s := e.snap
		e.mu.Unlock()
		return s
	}

	lines := cloneLines(e.snap.Lines)
	lines[i].Quantity = qty
	lines[i].UpdatedAt = e.now()

	switch lid := lines[i].ID.(type) {
	case ProvisionalID:
		if pi := e.pending[lid]; pi != nil {
			pi.carry = true
		}
	case DurableID:
		e.updateLocked(lid, qty)
	}

	pub := e.commitLocked(lines, e.snap.Loading)
	e.mu.Unlock()
	e.publish(pub)
	return pub.snap
}

func (e *Engine) Remove(id LineID) Snapshot {
	e.mu.Lock()
	i := e.indexLocked(id)
	if e.closed || i < 0 {
		s := e.snap
		e.mu.Unlock()
		return s
	}

	switch lid := e.snap.Lines[i].ID.(type) {
	case ProvisionalID:
		if pi := e.pending[lid]; pi != nil {
			pi.dropped, pi.carry = true, false
		}
	case DurableID:
		e.deleteLocked(lid)
	}

	pub := e.commitLocked(withoutIndex(e.snap.Lines, i), e.snap.Loading)
	e.mu.Unlock()
	e.publish(pub)

	e.notifier.Notify(removedNotification())
	return pub.snap
}

// Load replaces the snapshot with the lines the Gateway returns.
func (e *Engine) Load(ctx context.Context) Snapshot {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return e.Snapshot()
	}
	return e.reload(ctx, true, 0)
}

// Wait blocks until every reconciliation started so far, including the
// reloads and follow-up calls they trigger, has finished.
func (e *Engine) Wait() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.inflight > 0 {
		e.idle.Wait()
	}
}

// Close stops accepting intents, cancels in-flight reconciliation and waits
// for it to return.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.Wait()
}

// settleInsert handles the response to an insert. A row that already exists
// for the product (added from another device after Load) is added to instead.
func (e *Engine) settleInsert(ctx context.Context, pid ProvisionalID, productID string, qty int, rec cart.Line, err error) {
	log := e.log.WithFields(logrus.Fields{"lineId": pid.String(), "productId": productID})

	if errors.Is(err, cart.ErrLineExists) {
		e.mu.Lock()
		pi := e.pending[pid]
		switch {
		case pi != nil && pi.adopted != "":
			e.finishAdoptedLocked(pid, pi)
			e.mu.Unlock()
			return
		case pi != nil && pi.dropped:
			delete(e.pending, pid)
			e.mu.Unlock()
			log.Debug("insert rejected for removed line")
			return
		case pi != nil:
			pi.merging = true
		}
		e.mu.Unlock()

		rec, err = e.gw.IncrementExistingLine(ctx, e.sessionID, productID, qty)
		if err == nil {
			e.reconcileInsert(pid, rec, true)
			return
		}
	}

	if err != nil {
		e.mu.Lock()
		delete(e.pending, pid)
		e.mu.Unlock()

		e.fail(ctx, titleAddFailed, log, err)
		return
	}
	e.reconcileInsert(pid, rec, false)
}

// finishAdoptedLocked settles a line that took over the row of an earlier
// insert: the store still holds that insert's quantity.
func (e *Engine) finishAdoptedLocked(pid ProvisionalID, pi *pendingInsert) {
	delete(e.pending, pid)
	if i := indexByID(e.snap.Lines, pi.adopted); i >= 0 && e.snap.Lines[i].Quantity != pi.adoptedQty {
		e.updateLocked(pi.adopted, e.snap.Lines[i].Quantity)
	}
}

// reconcileInsert moves the line created as pid to the durable identifier in
// rec. The line is looked up by pid first and by product second, so a line
// already confirmed by an increment, or by an earlier delivery of the same
// response, is updated in place. merged means rec came from adding to a row
// that already existed, so its quantity is the stored total.
func (e *Engine) reconcileInsert(pid ProvisionalID, rec cart.Line, merged bool) {
	durable := DurableID(rec.ID)
	log := e.log.WithFields(logrus.Fields{"lineId": pid.String(), "durableId": rec.ID, "productId": rec.ProductID})

	e.mu.Lock()
	pi := e.pending[pid]
	delete(e.pending, pid)
	if pi == nil {
		pi = &pendingInsert{product: lineFromRecord(rec).Product}
	}

	i := indexByID(e.snap.Lines, pid)
	if i < 0 {
		if j := indexByProduct(e.snap.Lines, rec.ProductID); j >= 0 {
			l := e.snap.Lines[j]
			switch other, provisional := l.ID.(ProvisionalID); {
			case l.ID == durable:
				i = j
			case provisional:
				// The product was added again while this insert was in
				// flight. That line's own insert will be rejected, so it
				// takes over this row unless it is already merging into it.
				op := e.pending[other]
				if op == nil || op.merging {
					e.mu.Unlock()
					return
				}
				pub := e.adoptLocked(j, other, op, rec)
				e.mu.Unlock()
				e.publish(pub)
				return
			default:
				e.goLocked(func(ctx context.Context) { e.reload(ctx, false, 0) })
				e.mu.Unlock()
				log.Debug("insert confirmed for a product shown under another line, reloading")
				return
			}
		}
	}
	if i < 0 && pi.dropped {
		// Removed before the store saw it; the row must go too.
		e.deleteLocked(durable)
		e.mu.Unlock()
		log.Debug("insert confirmed for removed line")
		return
	}

	var lines []Line
	if i < 0 {
		// A reload replaced the snapshot before the row was written.
		l := lineFromRecord(rec)
		l.Product = pi.product
		lines = append(cloneLines(e.snap.Lines), l)
		e.confirmed[pid] = durable
	} else {
		lines = cloneLines(e.snap.Lines)
		if prev, ok := lines[i].ID.(ProvisionalID); ok {
			e.confirmed[prev] = durable
		}
		e.confirmed[pid] = durable
		lines[i].ID = durable
		lines[i].CreatedAt = rec.CreatedAt
		lines[i].UpdatedAt = rec.UpdatedAt

		switch {
		case pi.carry && lines[i].Quantity != rec.Quantity:
			e.updateLocked(durable, lines[i].Quantity)
		case merged && !pi.carry:
			lines[i].Quantity = rec.Quantity
		}
	}

	pub := e.commitLocked(lines, e.snap.Loading)
	e.mu.Unlock()
	e.publish(pub)
}

// adoptLocked gives the provisional line at index j the row in rec.
func (e *Engine) adoptLocked(j int, pid ProvisionalID, pi *pendingInsert, rec cart.Line) published {
	durable := DurableID(rec.ID)
	pi.adopted, pi.adoptedQty = durable, rec.Quantity
	e.confirmed[pid] = durable

	lines := cloneLines(e.snap.Lines)
	lines[j].ID = durable
	lines[j].CreatedAt = rec.CreatedAt
	return e.commitLocked(lines, e.snap.Loading)
}

// settleIncrement adopts the stored quantity for productID. The response
// wins over any local edit made while the call was in flight.
func (e *Engine) settleIncrement(ctx context.Context, productID string, rec cart.Line, err error) {
	log := e.log.WithField("productId", productID)
	if err != nil {
		e.fail(ctx, titleAddFailed, log, err)
		return
	}

	e.mu.Lock()
	i := indexByProduct(e.snap.Lines, productID)
	if i < 0 {
		e.mu.Unlock()
		log.Debug("discarding increment confirmation for line no longer in cart")
		return
	}

	var lines []Line
	if rec.Quantity < 1 {
		lines = withoutIndex(e.snap.Lines, i)
	} else {
		lines = cloneLines(e.snap.Lines)
		if prev, ok := lines[i].ID.(ProvisionalID); ok {
			e.confirmed[prev] = DurableID(rec.ID)
			lines[i].CreatedAt = rec.CreatedAt
		}
		lines[i].ID = DurableID(rec.ID)
		lines[i].Quantity = rec.Quantity
		lines[i].UpdatedAt = rec.UpdatedAt
	}

	pub := e.commitLocked(lines, e.snap.Loading)
	e.mu.Unlock()
	e.publish(pub)
}

func (e *Engine) updateLocked(id DurableID, qty int) {
	e.goMutation(func(ctx context.Context) {
		if err := e.gw.UpdateQuantity(ctx, id, qty); err != nil {
			e.fail(ctx, titleUpdateFailed, e.log.WithField("lineId", id.String()), err)
		}
	})
}

func (e *Engine) deleteLocked(id DurableID) {
	e.goMutation(func(ctx context.Context) {
		if err := e.gw.DeleteLine(ctx, id); err != nil {
			e.fail(ctx, titleRemoveFailed, e.log.WithField("lineId", id.String()), err)
		}
	})
}

// fail repairs the snapshot after a rejected reconciliation.
func (e *Engine) fail(ctx context.Context, title string, log logrus.FieldLogger, err error) {
	if ctx.Err() != nil {
		log.WithError(err).Debug("reconciliation abandoned")
		return
	}
	log.WithError(err).Warn("cart reconciliation failed, reloading")
	e.reload(ctx, false, 1)
	e.notifier.Notify(failureNotification(title, err))
}

// reload replaces the snapshot with the stored lines. own is the number of
// in-flight mutations that belong to the caller and cannot change the store
// any more.
func (e *Engine) reload(ctx context.Context, showLoading bool, own int) Snapshot {
	e.mu.Lock()
	if showLoading {
		pub := e.commitLocked(e.snap.Lines, true)
		e.mu.Unlock()
		e.publish(pub)
		e.mu.Lock()
	}
	busy, settled := e.mutating-own > 0, e.settled
	e.mu.Unlock()

	recs := e.gw.FetchLines(ctx, e.sessionID)
	lines := make([]Line, 0, len(recs))
	for _, rec := range recs {
		if rec.Quantity < 1 || indexByProduct(lines, rec.ProductID) >= 0 {
			continue
		}
		lines = append(lines, lineFromRecord(rec))
	}

	e.mu.Lock()
	if busy || e.mutating-own > 0 || e.settled != settled {
		if e.mutating-own > 0 {
			e.stale = true
		} else {
			e.goLocked(func(ctx context.Context) { e.reload(ctx, false, 0) })
		}
	}
	loading := e.snap.Loading
	if showLoading {
		loading = false
	}
	pub := e.commitLocked(lines, loading)
	e.mu.Unlock()
	e.publish(pub)
	return pub.snap
}

// indexLocked finds id in the snapshot. A provisional handle still
// resolves after the line it named has been confirmed.
func (e *Engine) indexLocked(id LineID) int {
	if i := indexByID(e.snap.Lines, id); i >= 0 {
		return i
	}
	if pid, ok := id.(ProvisionalID); ok {
		if durable, ok := e.confirmed[pid]; ok {
			return indexByID(e.snap.Lines, durable)
		}
	}
	return -1
}

// goLocked runs call in the background with the engine's lifetime context.
func (e *Engine) goLocked(call func(ctx context.Context)) {
	if e.closed {
		return
	}
	e.inflight++
	go func() {
		defer e.done()
		call(e.ctx)
	}()
}

// goMutation is goLocked for a call that writes to the store.
func (e *Engine) goMutation(call func(ctx context.Context)) {
	if e.closed {
		return
	}
	e.mutating++
	e.goLocked(func(ctx context.Context) {
		call(ctx)

		e.mu.Lock()
		e.mutating--
		e.settled++
		if e.mutating == 0 && e.stale {
			e.stale = false
			e.goLocked(func(ctx context.Context) { e.reload(ctx, false, 0) })
		}
		e.mu.Unlock()
	})
}

func (e *Engine) done() {
	e.mu.Lock()
	e.inflight--
	if e.inflight == 0 {
		e.idle.Broadcast()
	}
	e.mu.Unlock()
}

func (e *Engine) commitLocked(lines []Line, loading bool) published {
	e.snap = newSnapshot(lines, loading)
	e.seq++

	subs := make([]func(Snapshot), len(e.subs))
	for i, s := range e.subs {
		subs[i] = s.fn
	}
	return published{seq: e.seq, snap: e.snap, subs: subs}
}

func (e *Engine) publish(p published) {
	e.deliverMu.Lock()
	for e.delivered+1 != p.seq {
		e.turn.Wait()
	}
	e.deliverMu.Unlock()

	for _, fn := range p.subs {
		fn(p.snap)
	}

	e.deliverMu.Lock()
	e.delivered = p.seq
	e.turn.Broadcast()
	e.deliverMu.Unlock()
}
