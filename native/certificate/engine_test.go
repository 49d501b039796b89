package certificate

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ipfs/go-cid"
	mc "github.com/multiformats/go-multicodec"
	mh "github.com/multiformats/go-multihash"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/events"
	"moviewrite/core/types"
	"moviewrite/native/common"
)

type mockState struct {
	certs    map[uint64]*Certificate
	count    uint64
	hashes   map[string]uint64
	byAuthor map[[20]byte][]uint64
	listings map[uint64]*Listing
	config   *PlatformConfig
	accounts map[[20]byte]*big.Int
	roles    map[string]map[[20]byte]bool
}

func newMockState() *mockState {
	return &mockState{
		certs:    make(map[uint64]*Certificate),
		hashes:   make(map[string]uint64),
		byAuthor: make(map[[20]byte][]uint64),
		listings: make(map[uint64]*Listing),
		accounts: make(map[[20]byte]*big.Int),
		roles:    make(map[string]map[[20]byte]bool),
	}
}

func (m *mockState) CertificateGet(id uint64) (*Certificate, bool, error) {
	cert, ok := m.certs[id]
	if !ok {
		return nil, false, nil
	}
	return cert.Clone(), true, nil
}

func (m *mockState) CertificatePut(cert *Certificate) error {
	m.certs[cert.ID] = cert.Clone()
	return nil
}

func (m *mockState) CertificateCount() (uint64, error) { return m.count, nil }

func (m *mockState) SetCertificateCount(count uint64) error {
	m.count = count
	return nil
}

func (m *mockState) CertificateByContentHash(hash string) (uint64, bool, error) {
	id, ok := m.hashes[hash]
	return id, ok, nil
}

func (m *mockState) SetCertificateContentHash(hash string, id uint64) error {
	m.hashes[hash] = id
	return nil
}

func (m *mockState) AuthorCertificatesAppend(author [20]byte, id uint64) error {
	m.byAuthor[author] = append(m.byAuthor[author], id)
	return nil
}

func (m *mockState) AuthorCertificates(author [20]byte) ([]uint64, error) {
	return append([]uint64{}, m.byAuthor[author]...), nil
}

func (m *mockState) ListingGet(id uint64) (*Listing, bool, error) {
	listing, ok := m.listings[id]
	if !ok {
		return nil, false, nil
	}
	return listing.Clone(), true, nil
}

func (m *mockState) ListingPut(listing *Listing) error {
	m.listings[listing.CertificateID] = listing.Clone()
	return nil
}

func (m *mockState) ListingDelete(id uint64) error {
	delete(m.listings, id)
	return nil
}

func (m *mockState) MarketplaceConfig() (*PlatformConfig, bool, error) {
	if m.config == nil {
		return nil, false, nil
	}
	return m.config.Clone(), true, nil
}

func (m *mockState) PutMarketplaceConfig(cfg *PlatformConfig) error {
	m.config = cfg.Clone()
	return nil
}

func (m *mockState) GetAccount(addr []byte) (*types.Account, error) {
	var key [20]byte
	copy(key[:], addr)
	balance := big.NewInt(0)
	if bal, ok := m.accounts[key]; ok {
		balance.Set(bal)
	}
	return &types.Account{Balance: balance}, nil
}

func (m *mockState) PutAccount(addr []byte, account *types.Account) error {
	var key [20]byte
	copy(key[:], addr)
	m.accounts[key] = new(big.Int).Set(account.Balance)
	return nil
}

func (m *mockState) HasRole(role string, addr [20]byte) bool {
	return m.roles[role][addr]
}

func (m *mockState) balance(addr [20]byte) *big.Int {
	if bal, ok := m.accounts[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return big.NewInt(0)
}

type captureEmitter struct {
	events []*types.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	if payload, ok := evt.(events.Payload); ok {
		c.events = append(c.events, payload.Event())
	}
}

func (c *captureEmitter) ofType(eventType string) []*types.Event {
	var out []*types.Event
	for _, evt := range c.events {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}

var (
	admin     = [20]byte{0xad}
	platform  = [20]byte{0xfe}
	author    = [20]byte{0x01}
	collector = [20]byte{0x02}
	stranger  = [20]byte{0x03}
)

// milliUnits converts thousandths of a whole unit (1e18 base units).
func milliUnits(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1_000_000_000_000_000))
}

func microUnits(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1_000_000_000_000))
}

type fixture struct {
	engine  *Engine
	state   *mockState
	emitter *captureEmitter
	now     int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	state := newMockState()
	state.roles[common.RoleAdministrator] = map[[20]byte]bool{admin: true}
	emitter := &captureEmitter{}
	f := &fixture{state: state, emitter: emitter, now: 1_000}
	engine := NewEngine()
	engine.SetState(state)
	engine.SetEmitter(emitter)
	engine.SetNowFunc(func() int64 { return f.now })
	if err := engine.Configure(DefaultPlatformConfig(platform)); err != nil {
		t.Fatalf("configure: %v", err)
	}
	f.engine = engine
	return f
}

func (f *fixture) fund(addr [20]byte, amount *big.Int) {
	f.state.accounts[addr] = new(big.Int).Add(f.state.balance(addr), amount)
}

func (f *fixture) mint(t *testing.T, to [20]byte, hash string) *Certificate {
	t.Helper()
	f.fund(to, milliUnits(10))
	cert, err := f.engine.Mint(to, MintRequest{To: to, Title: "Collected notes", ContentHash: hash, Categories: []string{"drama"}}, milliUnits(10))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return cert
}

func requireErr(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func TestMintChargesFeeAndAssignsIDs(t *testing.T) {
	f := newFixture(t)
	f.fund(author, milliUnits(50))
	cert, err := f.engine.Mint(author, MintRequest{To: author, Title: "First", ContentHash: "QmFirst"}, milliUnits(20))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if cert.ID != 1 || cert.Owner != author || cert.Author != author || cert.Status != StatusPublished {
		t.Fatalf("unexpected certificate %+v", cert)
	}
	if cert.RoyaltyBps != 750 {
		t.Fatalf("expected default royalty, got %d", cert.RoyaltyBps)
	}
	if f.state.balance(author).Cmp(milliUnits(40)) != 0 {
		t.Fatalf("expected exactly the fee to be charged, balance %s", f.state.balance(author))
	}
	if f.state.balance(platform).Cmp(milliUnits(10)) != 0 {
		t.Fatalf("fee recipient not credited: %s", f.state.balance(platform))
	}
	minted := f.emitter.ofType(EventTypeCertificateMinted)
	if len(minted) != 1 || minted[0].Attributes["contentHash"] != "QmFirst" {
		t.Fatalf("unexpected mint events %+v", minted)
	}
	supply, _ := f.engine.TotalSupply()
	if supply != 1 {
		t.Fatalf("unexpected supply %d", supply)
	}
}

func TestMintValidation(t *testing.T) {
	f := newFixture(t)
	f.fund(author, milliUnits(100))
	pay := milliUnits(10)

	_, err := f.engine.Mint(author, MintRequest{To: author, Title: "", ContentHash: "Qm"}, pay)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	_, err = f.engine.Mint(author, MintRequest{To: author, Title: strings.Repeat("t", 201), ContentHash: "Qm"}, pay)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	_, err = f.engine.Mint(author, MintRequest{To: author, Title: "ok", ContentHash: " "}, pay)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	_, err = f.engine.Mint(author, MintRequest{To: author, Title: "ok", ContentHash: "Qm", Categories: []string{strings.Repeat("c", 33)}}, pay)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	_, err = f.engine.Mint(author, MintRequest{To: [20]byte{}, Title: "ok", ContentHash: "Qm"}, pay)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	_, err = f.engine.Mint(author, MintRequest{To: author, Title: "ok", ContentHash: "Qm"}, milliUnits(9))
	requireErr(t, err, ledgererr.ErrInsufficientFunds)

	_, err = f.engine.Mint(stranger, MintRequest{To: stranger, Title: "ok", ContentHash: "Qm"}, pay)
	requireErr(t, err, ledgererr.ErrInsufficientFunds)

	if f.state.count != 0 || len(f.state.hashes) != 0 {
		t.Fatalf("rejected mints left state behind")
	}
}

func TestDuplicateContentRejectedRegardlessOfMinter(t *testing.T) {
	f := newFixture(t)
	f.mint(t, author, "QmSame")
	_, err := f.engine.Mint(admin, MintRequest{To: admin, Title: "Copy", ContentHash: "QmSame"}, nil)
	requireErr(t, err, ledgererr.ErrAlreadyExists)
	_, err = f.engine.IssueCompletion(collector, "Copy", "QmSame", nil)
	requireErr(t, err, ledgererr.ErrAlreadyExists)
}

func TestAdminMintsFreeAndPublicMintSwitch(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.Mint(admin, MintRequest{To: collector, Title: "Gift", ContentHash: "QmGift"}, nil); err != nil {
		t.Fatalf("admin mint: %v", err)
	}
	if f.state.balance(platform).Sign() != 0 {
		t.Fatalf("admin mint should be free")
	}
	requireErr(t, f.engine.SetPublicMintEnabled(author, false), ledgererr.ErrUnauthorized)
	if err := f.engine.SetPublicMintEnabled(admin, false); err != nil {
		t.Fatalf("disable public mint: %v", err)
	}
	f.fund(author, milliUnits(10))
	_, err := f.engine.Mint(author, MintRequest{To: author, Title: "Blocked", ContentHash: "QmBlocked"}, milliUnits(10))
	requireErr(t, err, ledgererr.ErrUnauthorized)
	if _, err := f.engine.IssueCompletion(author, "Completed", "QmCompleted", nil); err != nil {
		t.Fatalf("completion issuance ignores the public mint switch: %v", err)
	}
}

func TestBuyReferenceScenario(t *testing.T) {
	f := newFixture(t)
	cert := f.mint(t, author, "QmSale")
	platformAfterMint := f.state.balance(platform)

	price := milliUnits(500)
	listing, err := f.engine.ListForSale(author, cert.ID, price, f.now+3600)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !listing.IsForSale || listing.Seller != author {
		t.Fatalf("unexpected listing %+v", listing)
	}

	f.fund(collector, milliUnits(600))
	sale, err := f.engine.Buy(collector, cert.ID, price)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if sale.PlatformFee.Cmp(microUnits(12_500)) != 0 {
		t.Fatalf("unexpected platform fee %s", sale.PlatformFee)
	}
	if sale.Royalty.Cmp(microUnits(37_500)) != 0 {
		t.Fatalf("unexpected royalty %s", sale.Royalty)
	}
	if sale.SellerProceeds.Cmp(milliUnits(450)) != 0 {
		t.Fatalf("unexpected seller proceeds %s", sale.SellerProceeds)
	}
	// Author is also the seller here: proceeds plus royalty.
	if f.state.balance(author).Cmp(microUnits(487_500)) != 0 {
		t.Fatalf("unexpected author balance %s", f.state.balance(author))
	}
	gotFee := new(big.Int).Sub(f.state.balance(platform), platformAfterMint)
	if gotFee.Cmp(microUnits(12_500)) != 0 {
		t.Fatalf("unexpected platform credit %s", gotFee)
	}
	if f.state.balance(collector).Cmp(milliUnits(100)) != 0 {
		t.Fatalf("unexpected buyer balance %s", f.state.balance(collector))
	}
	owned, _ := f.engine.Certificate(cert.ID)
	if owned.Owner != collector || owned.Author != author {
		t.Fatalf("ownership not transferred: %+v", owned)
	}
	info, _ := f.engine.SaleInfo(cert.ID)
	if info.IsForSale {
		t.Fatalf("listing should be cleared after sale")
	}
	if len(f.emitter.ofType(EventTypeCertificateSold)) != 1 || len(f.emitter.ofType(EventTypeRoyaltiesDistributed)) != 1 {
		t.Fatalf("expected sale and royalty events")
	}
}

func TestAuthorRepurchaseWaivesRoyalty(t *testing.T) {
	f := newFixture(t)
	cert := f.mint(t, author, "QmRepurchase")
	if _, err := f.engine.Transfer(author, author, collector, cert.ID); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	price := big.NewInt(10_000)
	if _, err := f.engine.ListForSale(collector, cert.ID, price, f.now+10); err != nil {
		t.Fatalf("list: %v", err)
	}
	f.fund(author, price)
	authorBefore := f.state.balance(author)
	sale, err := f.engine.Buy(author, cert.ID, price)
	if err != nil {
		t.Fatalf("buy back: %v", err)
	}
	if !sale.RoyaltyWaived || sale.Royalty.Sign() != 0 {
		t.Fatalf("expected royalty to be waived: %+v", sale)
	}
	if sale.SellerProceeds.Cmp(big.NewInt(9_750)) != 0 {
		t.Fatalf("unexpected seller proceeds %s", sale.SellerProceeds)
	}
	if f.state.balance(collector).Cmp(big.NewInt(9_750)) != 0 {
		t.Fatalf("seller should receive the royalty share, got %s", f.state.balance(collector))
	}
	spent := new(big.Int).Sub(authorBefore, f.state.balance(author))
	if spent.Cmp(price) != 0 {
		t.Fatalf("author should pay exactly the price, spent %s", spent)
	}
	evt := f.emitter.ofType(EventTypeRoyaltiesDistributed)[0]
	if evt.Attributes["royaltyWaived"] != "true" || evt.Attributes["royalty"] != "0" {
		t.Fatalf("unexpected royalty event %+v", evt.Attributes)
	}
}

func TestBuyRejections(t *testing.T) {
	f := newFixture(t)
	cert := f.mint(t, author, "QmReject")
	price := big.NewInt(1_000)
	f.fund(collector, big.NewInt(500))

	_, err := f.engine.Buy(collector, cert.ID, price)
	requireErr(t, err, ledgererr.ErrNotFound)

	if _, err := f.engine.ListForSale(author, cert.ID, price, f.now+100); err != nil {
		t.Fatalf("list: %v", err)
	}
	_, err = f.engine.Buy(collector, cert.ID, big.NewInt(999))
	requireErr(t, err, ledgererr.ErrInsufficientFunds)
	_, err = f.engine.Buy(author, cert.ID, price)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	_, err = f.engine.Buy(collector, cert.ID, price)
	requireErr(t, err, ledgererr.ErrInsufficientFunds)
	if f.state.balance(collector).Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("failed buy moved funds")
	}

	f.now += 101
	f.fund(collector, big.NewInt(1_000))
	_, err = f.engine.Buy(collector, cert.ID, price)
	requireErr(t, err, ledgererr.ErrExpired)

	owned, _ := f.engine.Certificate(cert.ID)
	if owned.Owner != author {
		t.Fatalf("ownership changed on failed buys")
	}
}

func TestListingRules(t *testing.T) {
	f := newFixture(t)
	cert := f.mint(t, author, "QmListing")

	_, err := f.engine.ListForSale(collector, cert.ID, big.NewInt(1), f.now+1)
	requireErr(t, err, ledgererr.ErrUnauthorized)
	_, err = f.engine.ListForSale(author, cert.ID, big.NewInt(0), f.now+1)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	_, err = f.engine.ListForSale(author, cert.ID, big.NewInt(1), f.now)
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	requireErr(t, f.engine.CancelSale(author, cert.ID), ledgererr.ErrNotFound)

	if _, err := f.engine.ListForSale(author, cert.ID, big.NewInt(5), f.now+1); err != nil {
		t.Fatalf("list: %v", err)
	}
	requireErr(t, f.engine.CancelSale(collector, cert.ID), ledgererr.ErrUnauthorized)
	if err := f.engine.CancelSale(author, cert.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	info, _ := f.engine.SaleInfo(cert.ID)
	if info.IsForSale {
		t.Fatalf("listing should be cleared")
	}
	if len(f.emitter.ofType(EventTypeCertificateSaleCancelled)) != 1 {
		t.Fatalf("expected cancel event")
	}
}

func TestTransferLocks(t *testing.T) {
	f := newFixture(t)
	cert := f.mint(t, author, "QmLock")
	other := f.mint(t, collector, "QmOther")

	requireErr(t, f.engine.SetTransferLock(collector, cert.ID, true), ledgererr.ErrUnauthorized)
	if err := f.engine.SetTransferLock(author, cert.ID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	_, err := f.engine.Transfer(author, author, collector, cert.ID)
	requireErr(t, err, ledgererr.ErrLocked)
	_, err = f.engine.ListForSale(author, cert.ID, big.NewInt(1), f.now+1)
	requireErr(t, err, ledgererr.ErrLocked)

	if err := f.engine.SetTransferLock(author, cert.ID, false); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := f.engine.ListForSale(author, cert.ID, big.NewInt(1), f.now+5); err != nil {
		t.Fatalf("list: %v", err)
	}

	requireErr(t, f.engine.EmergencyLockTransfers(author, []uint64{cert.ID}), ledgererr.ErrUnauthorized)
	requireErr(t, f.engine.EmergencyLockTransfers(admin, []uint64{cert.ID, 99}), ledgererr.ErrNotFound)
	if locked, _ := f.engine.Certificate(cert.ID); locked.TransferLocked {
		t.Fatalf("partial emergency lock applied")
	}
	if err := f.engine.EmergencyLockTransfers(admin, []uint64{cert.ID, other.ID}); err != nil {
		t.Fatalf("emergency lock: %v", err)
	}
	f.fund(stranger, big.NewInt(1))
	_, err = f.engine.Buy(stranger, cert.ID, big.NewInt(1))
	requireErr(t, err, ledgererr.ErrLocked)
	_, err = f.engine.Transfer(collector, collector, stranger, other.ID)
	requireErr(t, err, ledgererr.ErrLocked)
}

func TestTransferClearsListing(t *testing.T) {
	f := newFixture(t)
	cert := f.mint(t, author, "QmMove")
	if _, err := f.engine.ListForSale(author, cert.ID, big.NewInt(7), f.now+5); err != nil {
		t.Fatalf("list: %v", err)
	}
	_, err := f.engine.Transfer(stranger, author, collector, cert.ID)
	requireErr(t, err, ledgererr.ErrUnauthorized)
	moved, err := f.engine.Transfer(author, author, collector, cert.ID)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if moved.Owner != collector {
		t.Fatalf("owner not updated")
	}
	if _, ok := f.state.listings[cert.ID]; ok {
		t.Fatalf("transfer should clear the listing")
	}
}

func TestAdminConfiguration(t *testing.T) {
	f := newFixture(t)
	requireErr(t, f.engine.SetPlatformFeeBps(admin, 1_001), ledgererr.ErrInvalidParameter)
	requireErr(t, f.engine.SetPlatformFeeBps(author, 100), ledgererr.ErrUnauthorized)
	if err := f.engine.SetPlatformFeeBps(admin, 1_000); err != nil {
		t.Fatalf("set fee: %v", err)
	}
	requireErr(t, f.engine.SetDefaultRoyaltyBps(admin, 9_001), ledgererr.ErrInvalidParameter)
	if err := f.engine.SetDefaultRoyaltyBps(admin, 500); err != nil {
		t.Fatalf("set royalty: %v", err)
	}
	requireErr(t, f.engine.SetMintFee(admin, big.NewInt(-1)), ledgererr.ErrInvalidParameter)
	if err := f.engine.SetMintFee(admin, big.NewInt(0)); err != nil {
		t.Fatalf("set mint fee: %v", err)
	}
	requireErr(t, f.engine.SetFeeRecipient(admin, [20]byte{}), ledgererr.ErrInvalidParameter)
	if err := f.engine.SetFeeRecipient(admin, stranger); err != nil {
		t.Fatalf("set recipient: %v", err)
	}
	cfg, _ := f.engine.PlatformConfig()
	if cfg.FeeBps != 1_000 || cfg.DefaultRoyaltyBps != 500 || cfg.MintFee.Sign() != 0 || cfg.FeeRecipient != stranger {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := len(f.emitter.ofType(EventTypePlatformConfigUpdated)); got != 4 {
		t.Fatalf("expected 4 config events, got %d", got)
	}

	cert, err := f.engine.Mint(author, MintRequest{To: author, Title: "Free now", ContentHash: "QmFree"}, nil)
	if err != nil {
		t.Fatalf("free mint: %v", err)
	}
	if cert.RoyaltyBps != 500 {
		t.Fatalf("new mints should use the updated royalty, got %d", cert.RoyaltyBps)
	}
}

func TestMintBatch(t *testing.T) {
	f := newFixture(t)
	reqs := []MintRequest{
		{To: author, Title: "One", ContentHash: "QmOne"},
		{To: collector, Title: "Two", ContentHash: "QmTwo"},
	}
	_, err := f.engine.MintBatch(author, reqs)
	requireErr(t, err, ledgererr.ErrUnauthorized)
	_, err = f.engine.MintBatch(admin, nil)
	requireErr(t, err, ledgererr.ErrInvalidParameter)

	certs, err := f.engine.MintBatch(admin, reqs)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(certs) != 2 || certs[1].Owner != collector || certs[1].ID != 2 {
		t.Fatalf("unexpected batch result %+v", certs)
	}
	if f.state.balance(platform).Sign() != 0 {
		t.Fatalf("batch mint should waive fees")
	}
	_, err = f.engine.MintBatch(admin, []MintRequest{{To: author, Title: "Dup", ContentHash: "QmOne"}})
	requireErr(t, err, ledgererr.ErrAlreadyExists)
	ids, _ := f.engine.AuthorCertificates(collector)
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("unexpected author index %v", ids)
	}
}

func TestQueriesAndMetadata(t *testing.T) {
	f := newFixture(t)
	cert := f.mint(t, author, "QmMeta")

	receiver, amount, err := f.engine.RoyaltyInfo(cert.ID, big.NewInt(10_000))
	if err != nil {
		t.Fatalf("royalty info: %v", err)
	}
	if receiver != author || amount.Cmp(big.NewInt(750)) != 0 {
		t.Fatalf("unexpected royalty info %x %s", receiver, amount)
	}
	if _, _, err := f.engine.RoyaltyInfo(42, big.NewInt(1)); !errors.Is(err, ledgererr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if ok, _ := f.engine.VerifyContent(cert.ID, "QmMeta"); !ok {
		t.Fatalf("expected content to verify")
	}
	if ok, _ := f.engine.VerifyContent(cert.ID, "QmOther"); ok {
		t.Fatalf("unexpected verification success")
	}

	_, err = f.engine.UpdateCertificate(stranger, cert.ID, "New", StatusArchived)
	requireErr(t, err, ledgererr.ErrUnauthorized)
	_, err = f.engine.UpdateCertificate(author, cert.ID, "New", Status(9))
	requireErr(t, err, ledgererr.ErrInvalidParameter)
	if _, err := f.engine.UpdateCertificate(admin, cert.ID, "Renamed", StatusArchived); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := f.engine.UpdateStats(author, cert.ID, 120, 7); err != nil {
		t.Fatalf("update stats: %v", err)
	}

	uri, err := f.engine.RenderMetadata(cert.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(uri, "data:application/json;base64,") {
		t.Fatalf("unexpected uri %q", uri)
	}
	again, _ := f.engine.RenderMetadata(cert.ID)
	if again != uri {
		t.Fatalf("metadata rendering is not deterministic")
	}
	doc, err := DecodeMetadata(uri)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["name"] != "Renamed" || doc["content_hash"] != "QmMeta" {
		t.Fatalf("unexpected document %+v", doc)
	}
	attrs, ok := doc["attributes"].([]interface{})
	if !ok || len(attrs) != 6 {
		t.Fatalf("unexpected attributes %+v", doc["attributes"])
	}
	status := attrs[0].(map[string]interface{})
	if status["value"] != "archived" {
		t.Fatalf("unexpected status attribute %+v", status)
	}
	views := attrs[1].(map[string]interface{})
	if views["value"] != float64(120) {
		t.Fatalf("unexpected views attribute %+v", views)
	}
}

func contentID(t *testing.T, codec mc.Code, data string) string {
	t.Helper()
	prefix := cid.Prefix{Version: 1, Codec: uint64(codec), MhType: mh.SHA2_256, MhLength: -1}
	id, err := prefix.Sum([]byte(data))
	if err != nil {
		t.Fatalf("content id: %v", err)
	}
	return id.String()
}

func TestCompletionHashReservedForIssuance(t *testing.T) {
	f := newFixture(t)
	f.fund(author, milliUnits(50))
	reserved := contentID(t, CompletionCodec, "article 1")

	_, err := f.engine.Mint(author, MintRequest{To: author, Title: "Squat", ContentHash: reserved}, milliUnits(10))
	requireErr(t, err, ledgererr.ErrUnauthorized)
	_, err = f.engine.Mint(admin, MintRequest{To: admin, Title: "Squat", ContentHash: " " + reserved + " "}, nil)
	requireErr(t, err, ledgererr.ErrUnauthorized)
	_, err = f.engine.MintBatch(admin, []MintRequest{
		{To: author, Title: "Fine", ContentHash: "QmFine"},
		{To: author, Title: "Squat", ContentHash: reserved},
	})
	requireErr(t, err, ledgererr.ErrUnauthorized)
	if f.state.count != 0 || len(f.state.hashes) != 0 {
		t.Fatalf("rejected mints left state behind")
	}
	if f.state.balance(author).Cmp(milliUnits(50)) != 0 {
		t.Fatalf("rejected mint charged a fee: %s", f.state.balance(author))
	}

	id, err := f.engine.IssueCompletion(author, "Completed", reserved, nil)
	if err != nil {
		t.Fatalf("issue completion: %v", err)
	}
	if ok, _ := f.engine.VerifyContent(id, reserved); !ok {
		t.Fatalf("completion certificate does not verify its content hash")
	}

	raw := contentID(t, mc.Raw, "article 1")
	if IsCompletionHash(raw) || IsCompletionHash("QmFirst") {
		t.Fatalf("ordinary content hashes classified as completion hashes")
	}
	f.mint(t, author, raw)
}

func TestConfigureCollectionIdentity(t *testing.T) {
	f := newFixture(t)
	cfg, err := f.engine.PlatformConfig()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Name != "MovieWrite Article NFT" || cfg.Symbol != "MWART" {
		t.Fatalf("unexpected collection %q/%q", cfg.Name, cfg.Symbol)
	}

	custom := DefaultPlatformConfig(platform)
	custom.Name = "  "
	custom.Symbol = " FN "
	if err := f.engine.Configure(custom); err != nil {
		t.Fatalf("configure: %v", err)
	}
	cfg, _ = f.engine.PlatformConfig()
	if cfg.Name != DefaultCollectionName || cfg.Symbol != "FN" {
		t.Fatalf("unexpected collection %q/%q", cfg.Name, cfg.Symbol)
	}
}
