package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. They serialize through a mutex and return
// copies, so tests exercise the same read-modify-write shape the real
// gorm repositories have without a database.

type memTxManager struct {
	mu sync.Mutex
}

func (m *memTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type memSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{counters: make(map[string]int64)}
}

func (m *memSequenceRepo) Next(_ context.Context, prefix string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := prefix + "-" + time.Now().Format("20060102")
	m.counters[name]++
	return fmt.Sprintf("%s-%05d", name, m.counters[name]), nil
}

// --- items / products ---

type memItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]model.Item)}
}

func (m *memItemRepo) Create(_ context.Context, item *model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.ID] = *item
	return nil
}

// Update mirrors the repository contract: the quantity column is owned by
// UpdateQuantity and a full-row save must not touch it.
func (m *memItemRepo) Update(_ context.Context, item *model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.items[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *item
	updated.Quantity = current.Quantity
	m.items[item.ID] = updated
	return nil
}

func (m *memItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (m *memItemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return m.FindByID(ctx, id)
}

func (m *memItemRepo) List(_ context.Context, _, _ int, search string) ([]model.Item, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Item
	for _, item := range m.items {
		if search == "" || strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			out = append(out, item)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memItemRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	m.items[id] = item
	return nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]model.Product)}
}

func (m *memProductRepo) Create(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m.products[product.ID] = *product
	return nil
}

func (m *memProductRepo) Update(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.products[product.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *product
	updated.Quantity = current.Quantity
	m.products[product.ID] = updated
	return nil
}

func (m *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &product, nil
}

func (m *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return m.FindByID(ctx, id)
}

func (m *memProductRepo) List(_ context.Context, _, _ int, search string) ([]model.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Product
	for _, product := range m.products {
		if search == "" || strings.Contains(strings.ToLower(product.Name), strings.ToLower(search)) {
			out = append(out, product)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memProductRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	product.Quantity = quantity
	m.products[id] = product
	return nil
}

// --- warehouses / users ---

type memWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]model.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{warehouses: make(map[uuid.UUID]model.Warehouse)}
}

func (m *memWarehouseRepo) add(name string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.warehouses[id] = model.Warehouse{ID: id, Name: name}
	return id
}

func (m *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	warehouse, ok := m.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &warehouse, nil
}

func (m *memWarehouseRepo) List(_ context.Context) ([]model.Warehouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Warehouse, 0, len(m.warehouses))
	for _, warehouse := range m.warehouses {
		out = append(out, warehouse)
	}
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]model.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (m *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- orders ---

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]model.Order
	lines  map[uuid.UUID]model.OrderItem
	seq    int64
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[uuid.UUID]model.Order),
		lines:  make(map[uuid.UUID]model.OrderItem),
	}
}

func (m *memOrderRepo) Create(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.orders[order.ID] = *order
	return nil
}

func (m *memOrderRepo) Save(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.orders[order.ID] = *order
	return nil
}

func (m *memOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	for lineID, line := range m.lines {
		if line.OrderID == id {
			delete(m.lines, lineID)
		}
	}
	return nil
}

func (m *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	order.Items = m.itemsOf(id)
	return &order, nil
}

func (m *memOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}

func (m *memOrderRepo) List(_ context.Context, _, _ int, status model.OrderStatus) ([]model.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, order := range m.orders {
		if status == "" || order.Status == status {
			out = append(out, order)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memOrderRepo) CreateItem(_ context.Context, item *model.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.seq++
	item.CreatedAt = time.Unix(m.seq, 0)
	m.lines[item.ID] = *item
	return nil
}

func (m *memOrderRepo) SaveItem(_ context.Context, item *model.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.lines[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.CreatedAt = existing.CreatedAt
	m.lines[item.ID] = *item
	return nil
}

func (m *memOrderRepo) DeleteItem(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, id)
	return nil
}

func (m *memOrderRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &line, nil
}

func (m *memOrderRepo) FindItemsByOrder(_ context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemsOf(orderID), nil
}

// itemsOf returns lines in creation order; caller holds the lock
func (m *memOrderRepo) itemsOf(orderID uuid.UUID) []model.OrderItem {
	var out []model.OrderItem
	for _, line := range m.lines {
		if line.OrderID == orderID {
			out = append(out, line)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.Before(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// --- productions ---

type memProductionRepo struct {
	mu          sync.Mutex
	productions map[uuid.UUID]model.Production
	lines       map[uuid.UUID]model.ProductionItem
	seq         int64
}

func newMemProductionRepo() *memProductionRepo {
	return &memProductionRepo{
		productions: make(map[uuid.UUID]model.Production),
		lines:       make(map[uuid.UUID]model.ProductionItem),
	}
}

func (m *memProductionRepo) Create(_ context.Context, production *model.Production) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if production.ID == uuid.Nil {
		production.ID = uuid.New()
	}
	m.productions[production.ID] = *production
	return nil
}

func (m *memProductionRepo) Save(_ context.Context, production *model.Production) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.productions[production.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.productions[production.ID] = *production
	return nil
}

func (m *memProductionRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.productions, id)
	for lineID, line := range m.lines {
		if line.ProductionID == id {
			delete(m.lines, lineID)
		}
	}
	return nil
}

func (m *memProductionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Production, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	production, ok := m.productions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	production.Items = m.itemsOf(id)
	return &production, nil
}

func (m *memProductionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Production, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	production, ok := m.productions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &production, nil
}

func (m *memProductionRepo) List(_ context.Context, _, _ int, status model.ProductionStatus) ([]model.Production, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Production
	for _, production := range m.productions {
		if status == "" || production.Status == status {
			out = append(out, production)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memProductionRepo) CreateItem(_ context.Context, item *model.ProductionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.seq++
	item.CreatedAt = time.Unix(m.seq, 0)
	m.lines[item.ID] = *item
	return nil
}

func (m *memProductionRepo) SaveItem(_ context.Context, item *model.ProductionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.lines[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.CreatedAt = existing.CreatedAt
	m.lines[item.ID] = *item
	return nil
}

func (m *memProductionRepo) DeleteItem(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, id)
	return nil
}

func (m *memProductionRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.ProductionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &line, nil
}

func (m *memProductionRepo) FindItemsByProduction(_ context.Context, productionID uuid.UUID) ([]model.ProductionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemsOf(productionID), nil
}

func (m *memProductionRepo) itemsOf(productionID uuid.UUID) []model.ProductionItem {
	var out []model.ProductionItem
	for _, line := range m.lines {
		if line.ProductionID == productionID {
			out = append(out, line)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.Before(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// --- material receipts ---

type memReceiptRepo struct {
	mu       sync.Mutex
	receipts map[uuid.UUID]model.MaterialReceipt
	lines    map[uuid.UUID]model.MaterialReceiptItem
	seq      int64
}

func newMemReceiptRepo() *memReceiptRepo {
	return &memReceiptRepo{
		receipts: make(map[uuid.UUID]model.MaterialReceipt),
		lines:    make(map[uuid.UUID]model.MaterialReceiptItem),
	}
}

func (m *memReceiptRepo) Create(_ context.Context, receipt *model.MaterialReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	m.receipts[receipt.ID] = *receipt
	return nil
}

func (m *memReceiptRepo) Save(_ context.Context, receipt *model.MaterialReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[receipt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.receipts[receipt.ID] = *receipt
	return nil
}

func (m *memReceiptRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.receipts, id)
	for lineID, line := range m.lines {
		if line.ReceiptID == id {
			delete(m.lines, lineID)
		}
	}
	return nil
}

func (m *memReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MaterialReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	receipt.Items = m.itemsOf(id)
	return &receipt, nil
}

func (m *memReceiptRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MaterialReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &receipt, nil
}

func (m *memReceiptRepo) List(_ context.Context, _, _ int, status model.ReceiptStatus) ([]model.MaterialReceipt, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.MaterialReceipt
	for _, receipt := range m.receipts {
		if status == "" || receipt.Status == status {
			out = append(out, receipt)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memReceiptRepo) CreateItem(_ context.Context, item *model.MaterialReceiptItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.seq++
	item.CreatedAt = time.Unix(m.seq, 0)
	m.lines[item.ID] = *item
	return nil
}

func (m *memReceiptRepo) SaveItem(_ context.Context, item *model.MaterialReceiptItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.lines[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.CreatedAt = existing.CreatedAt
	m.lines[item.ID] = *item
	return nil
}

func (m *memReceiptRepo) DeleteItem(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, id)
	return nil
}

func (m *memReceiptRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.MaterialReceiptItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &line, nil
}

func (m *memReceiptRepo) FindItemsByReceipt(_ context.Context, receiptID uuid.UUID) ([]model.MaterialReceiptItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemsOf(receiptID), nil
}

func (m *memReceiptRepo) itemsOf(receiptID uuid.UUID) []model.MaterialReceiptItem {
	var out []model.MaterialReceiptItem
	for _, line := range m.lines {
		if line.ReceiptID == receiptID {
			out = append(out, line)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.Before(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// --- transactions ---

type memTransactionRepo struct {
	mu           sync.Mutex
	transactions []model.Transaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{}
}

func (m *memTransactionRepo) Create(_ context.Context, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *memTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if tx.ID == id {
			t := tx
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTransactionRepo) List(_ context.Context, _, _ int, filter repository.TransactionFilter) ([]model.Transaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Transaction
	for _, tx := range m.transactions {
		if filter.Type != "" && tx.TransactionType != filter.Type {
			continue
		}
		if filter.EntityType != "" && tx.EntityType != filter.EntityType {
			continue
		}
		if filter.Reference != "" && tx.ReferenceNumber != filter.Reference {
			continue
		}
		if filter.ItemID != nil && (tx.ItemID == nil || *tx.ItemID != *filter.ItemID) {
			continue
		}
		if filter.ProductID != nil && (tx.ProductID == nil || *tx.ProductID != *filter.ProductID) {
			continue
		}
		out = append(out, tx)
	}
	return out, int64(len(out)), nil
}

// byReference returns recorded transactions carrying the given reference,
// in recording order.
func (m *memTransactionRepo) byReference(ref string) []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Transaction
	for _, tx := range m.transactions {
		if tx.ReferenceNumber == ref {
			out = append(out, tx)
		}
	}
	return out
}

// --- event capture ---

type captureEvents struct {
	mu     sync.Mutex
	events []string
}

func (c *captureEvents) Publish(event string, _ map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// --- wired environment ---

type testEnv struct {
	itemRepo       *memItemRepo
	productRepo    *memProductRepo
	warehouseRepo  *memWarehouseRepo
	userRepo       *memUserRepo
	orderRepo      *memOrderRepo
	productionRepo *memProductionRepo
	receiptRepo    *memReceiptRepo
	txRepo         *memTransactionRepo
	seqRepo        *memSequenceRepo
	events         *captureEvents

	ledger      StockLedger
	recorder    TransactionService
	orders      OrderService
	productions ProductionService
	receipts    ReceiptService
	catalog     CatalogService

	warehouseID uuid.UUID
}

func newTestEnv() *testEnv {
	env := &testEnv{
		itemRepo:       newMemItemRepo(),
		productRepo:    newMemProductRepo(),
		warehouseRepo:  newMemWarehouseRepo(),
		userRepo:       newMemUserRepo(),
		orderRepo:      newMemOrderRepo(),
		productionRepo: newMemProductionRepo(),
		receiptRepo:    newMemReceiptRepo(),
		txRepo:         newMemTransactionRepo(),
		seqRepo:        newMemSequenceRepo(),
		events:         &captureEvents{},
	}

	txManager := &memTxManager{}
	env.ledger = NewStockLedger(env.itemRepo, env.productRepo, env.events)
	env.recorder = NewTransactionService(env.txRepo, env.seqRepo, env.ledger, txManager)
	env.orders = NewOrderService(env.orderRepo, env.itemRepo, env.warehouseRepo, env.seqRepo, env.ledger, env.recorder, txManager)
	env.productions = NewProductionService(env.productionRepo, env.itemRepo, env.productRepo, env.warehouseRepo, env.seqRepo, env.ledger, env.recorder, txManager)
	env.receipts = NewReceiptService(env.receiptRepo, env.itemRepo, env.warehouseRepo, env.seqRepo, env.ledger, env.recorder, txManager)
	env.catalog = NewCatalogService(env.itemRepo, env.productRepo, env.warehouseRepo, txManager)

	env.warehouseID = env.warehouseRepo.add("Main")
	return env
}

func (e *testEnv) addItem(name string, quantity string) *model.Item {
	item := &model.Item{
		Code:     strings.ToUpper(name),
		Name:     name,
		Quantity: decimal.RequireFromString(quantity),
		Price:    decimal.RequireFromString("10"),
	}
	_ = e.itemRepo.Create(context.Background(), item)
	return item
}

func (e *testEnv) addProduct(name string, quantity string) *model.Product {
	product := &model.Product{
		Code:      strings.ToUpper(name),
		Name:      name,
		Quantity:  decimal.RequireFromString(quantity),
		SalePrice: decimal.RequireFromString("25"),
	}
	_ = e.productRepo.Create(context.Background(), product)
	return product
}

func (e *testEnv) itemQuantity(id uuid.UUID) decimal.Decimal {
	item, err := e.itemRepo.FindByID(context.Background(), id)
	if err != nil {
		return decimal.Zero
	}
	return item.Quantity
}

func (e *testEnv) productQuantity(id uuid.UUID) decimal.Decimal {
	product, err := e.productRepo.FindByID(context.Background(), id)
	if err != nil {
		return decimal.Zero
	}
	return product.Quantity
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
