package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv/src/sale/domain/entity"
)

// Dobles en memoria para los puertos del contexto sale. Replican el contrato
// de cada puerto (idempotencia por ID, FIFO, recorte de canje) sin tocar
// infraestructura real.

type fakeSaleRepo struct {
	headers     map[uuid.UUID]*entity.Sale
	items       map[uuid.UUID][]entity.SaleItem
	allocations map[uuid.UUID][]entity.PaymentAllocation

	failCreateHeader error
	failAddItems     error
	failExists       error
	failMark         error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		headers:     make(map[uuid.UUID]*entity.Sale),
		items:       make(map[uuid.UUID][]entity.SaleItem),
		allocations: make(map[uuid.UUID][]entity.PaymentAllocation),
	}
}

func (r *fakeSaleRepo) CreateHeader(ctx context.Context, sale *entity.Sale) error {
	if r.failCreateHeader != nil {
		return r.failCreateHeader
	}
	if _, ok := r.headers[sale.ID]; ok {
		return nil // idempotente por ID
	}
	copied := *sale
	r.headers[sale.ID] = &copied
	return nil
}

func (r *fakeSaleRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if r.failExists != nil {
		return false, r.failExists
	}
	_, ok := r.headers[id]
	return ok, nil
}

func (r *fakeSaleRepo) AddItems(ctx context.Context, saleID uuid.UUID, items []entity.SaleItem) error {
	if r.failAddItems != nil {
		return r.failAddItems
	}
	r.items[saleID] = items
	return nil
}

func (r *fakeSaleRepo) AddAllocations(ctx context.Context, saleID uuid.UUID, allocations []entity.PaymentAllocation) error {
	r.allocations[saleID] = allocations
	return nil
}

func (r *fakeSaleRepo) SetFiscalDocument(ctx context.Context, saleID uuid.UUID, accessKey, protocol string) error {
	if sale, ok := r.headers[saleID]; ok {
		sale.FiscalAccessKey = &accessKey
		sale.FiscalProtocol = &protocol
	}
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, ok := r.headers[id]
	if !ok {
		return nil, errors.New("sale not found")
	}
	return sale, nil
}

func (r *fakeSaleRepo) MarkCancelled(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	if r.failMark != nil {
		return r.failMark
	}
	sale, ok := r.headers[id]
	if !ok || sale.Status != entity.SaleStatusFinalized {
		return entity.ErrSaleNotFinalized
	}
	sale.Status = entity.SaleStatusCancelled
	sale.CancelReason = &reason
	sale.CancelledAt = &at
	return nil
}

type fakeQueue struct {
	entries     []*entity.PendingSale
	failEnqueue error
	failDequeue error
}

func (q *fakeQueue) Enqueue(ctx context.Context, pending *entity.PendingSale) error {
	if q.failEnqueue != nil {
		return q.failEnqueue
	}
	for _, e := range q.entries {
		if e.ID == pending.ID {
			return nil // encolar el mismo ID no duplica
		}
	}
	q.entries = append(q.entries, pending)
	return nil
}

func (q *fakeQueue) DequeueAll(ctx context.Context) ([]*entity.PendingSale, error) {
	if q.failDequeue != nil {
		return nil, q.failDequeue
	}
	out := make([]*entity.PendingSale, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

func (q *fakeQueue) MarkSynced(ctx context.Context, id uuid.UUID) error {
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *fakeQueue) Count(ctx context.Context) (int, error) {
	return len(q.entries), nil
}

type fakeConnectivity struct {
	online bool
}

func (c *fakeConnectivity) IsOnline() bool { return c.online }

type cashMovementRecord struct {
	SaleID uuid.UUID
	Amount decimal.Decimal
}

type fakeCashRegister struct {
	open       bool
	inflows    []cashMovementRecord
	reversals  []cashMovementRecord
	failInflow error
}

func (c *fakeCashRegister) HasOpenSession(ctx context.Context) (bool, error) {
	return c.open, nil
}

func (c *fakeCashRegister) RecordSaleInflow(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal) error {
	if c.failInflow != nil {
		return c.failInflow
	}
	c.inflows = append(c.inflows, cashMovementRecord{SaleID: saleID, Amount: amount})
	return nil
}

func (c *fakeCashRegister) RecordReversal(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal, description string) error {
	c.reversals = append(c.reversals, cashMovementRecord{SaleID: saleID, Amount: amount})
	return nil
}

type fakeCreditLedger struct {
	balances map[uuid.UUID]decimal.Decimal
	limits   map[uuid.UUID]decimal.Decimal
	entries  []*entity.CreditLedgerEntry

	failAppend error
}

func newFakeCreditLedger() *fakeCreditLedger {
	return &fakeCreditLedger{
		balances: make(map[uuid.UUID]decimal.Decimal),
		limits:   make(map[uuid.UUID]decimal.Decimal),
	}
}

func (l *fakeCreditLedger) Balance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return l.balances[customerID], nil
}

func (l *fakeCreditLedger) CreditLimit(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return l.limits[customerID], nil
}

func (l *fakeCreditLedger) Append(ctx context.Context, customerID uuid.UUID, kind entity.CreditEntryKind, amount decimal.Decimal, saleID *uuid.UUID, description string) (*entity.CreditLedgerEntry, error) {
	if l.failAppend != nil {
		return nil, l.failAppend
	}
	before := l.balances[customerID]
	after := before
	if kind == entity.CreditEntryDebit {
		after = before.Add(amount)
	} else {
		after = before.Sub(amount)
	}
	l.balances[customerID] = after

	entry := &entity.CreditLedgerEntry{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		SaleID:        saleID,
		Description:   description,
		CreatedAt:     time.Now(),
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

type fakeLoyaltyLedger struct {
	balances map[uuid.UUID]int64
	entries  []*entity.LoyaltyLedgerEntry

	failAppend error
}

func newFakeLoyaltyLedger() *fakeLoyaltyLedger {
	return &fakeLoyaltyLedger{balances: make(map[uuid.UUID]int64)}
}

func (l *fakeLoyaltyLedger) Balance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return l.balances[customerID], nil
}

func (l *fakeLoyaltyLedger) Append(ctx context.Context, customerID uuid.UUID, kind entity.LoyaltyEntryKind, points int64, saleID *uuid.UUID) (*entity.LoyaltyLedgerEntry, error) {
	if l.failAppend != nil {
		return nil, l.failAppend
	}
	before := l.balances[customerID]
	applied := points
	var after int64

	switch kind {
	case entity.LoyaltyEntryAccrual:
		after = before + points
	case entity.LoyaltyEntryRedemption, entity.LoyaltyEntryExpiration:
		if applied > before {
			applied = before // el balance nunca queda negativo
		}
		after = before - applied
	case entity.LoyaltyEntryAdjustment:
		after = before + points
		if after < 0 {
			applied = -before
			after = 0
		}
	}
	l.balances[customerID] = after

	entry := &entity.LoyaltyLedgerEntry{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Kind:          kind,
		Points:        applied,
		BalanceBefore: before,
		BalanceAfter:  after,
		SaleID:        saleID,
		CreatedAt:     time.Now(),
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

func (l *fakeLoyaltyLedger) EntriesBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.LoyaltyLedgerEntry, error) {
	var out []*entity.LoyaltyLedgerEntry
	for _, e := range l.entries {
		if e.SaleID != nil && *e.SaleID == saleID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeStockGateway struct {
	levels   map[string]decimal.Decimal
	restored []string

	failRegister error
	failRestore  error
}

func newFakeStockGateway() *fakeStockGateway {
	return &fakeStockGateway{levels: make(map[string]decimal.Decimal)}
}

func (g *fakeStockGateway) RegisterSale(ctx context.Context, sku string, quantity decimal.Decimal, reference string) error {
	if g.failRegister != nil {
		return g.failRegister
	}
	g.levels[sku] = g.levels[sku].Sub(quantity)
	return nil
}

func (g *fakeStockGateway) RestoreStock(ctx context.Context, sku string, quantity decimal.Decimal, reference string) error {
	if g.failRestore != nil {
		return g.failRestore
	}
	g.levels[sku] = g.levels[sku].Add(quantity)
	g.restored = append(g.restored, reference)
	return nil
}

type fakeFiscalIssuer struct {
	result *entity.FiscalResult
	err    error
	calls  int
}

func (f *fakeFiscalIssuer) Issue(ctx context.Context, req *entity.FiscalRequest) (*entity.FiscalResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
