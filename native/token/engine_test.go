package token

import (
	"errors"
	"math/big"
	"testing"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/events"
	"moviewrite/core/types"
	"moviewrite/native/common"
)

type mockState struct {
	balances   map[[20]byte]*big.Int
	allowances map[[40]byte]*big.Int
	supply     *big.Int
	meta       *Metadata
	roles      map[string]map[[20]byte]bool
}

func newMockState() *mockState {
	return &mockState{
		balances:   make(map[[20]byte]*big.Int),
		allowances: make(map[[40]byte]*big.Int),
		supply:     big.NewInt(0),
		roles:      make(map[string]map[[20]byte]bool),
	}
}

func allowanceKey(owner, spender [20]byte) [40]byte {
	var key [40]byte
	copy(key[:20], owner[:])
	copy(key[20:], spender[:])
	return key
}

func (m *mockState) TokenBalance(addr [20]byte) (*big.Int, error) {
	if bal, ok := m.balances[addr]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (m *mockState) SetTokenBalance(addr [20]byte, amount *big.Int) error {
	m.balances[addr] = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) TokenAllowance(owner, spender [20]byte) (*big.Int, error) {
	if v, ok := m.allowances[allowanceKey(owner, spender)]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

func (m *mockState) SetTokenAllowance(owner, spender [20]byte, amount *big.Int) error {
	m.allowances[allowanceKey(owner, spender)] = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) TokenSupply() (*big.Int, error) { return new(big.Int).Set(m.supply), nil }

func (m *mockState) SetTokenSupply(amount *big.Int) error {
	m.supply = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) TokenMetadata() (*Metadata, bool, error) {
	if m.meta == nil {
		return nil, false, nil
	}
	meta := *m.meta
	return &meta, true, nil
}

func (m *mockState) PutTokenMetadata(meta *Metadata) error {
	copied := *meta
	m.meta = &copied
	return nil
}

func (m *mockState) HasRole(role string, addr [20]byte) bool {
	return m.roles[role][addr]
}

func (m *mockState) grant(role string, addr [20]byte) {
	if m.roles[role] == nil {
		m.roles[role] = make(map[[20]byte]bool)
	}
	m.roles[role][addr] = true
}

func (m *mockState) sumBalances() *big.Int {
	total := big.NewInt(0)
	for _, bal := range m.balances {
		total.Add(total, bal)
	}
	return total
}

type captureEmitter struct {
	events []*types.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	if payload, ok := evt.(events.Payload); ok {
		c.events = append(c.events, payload.Event())
	}
}

var (
	minter = [20]byte{0xaa}
	alice  = [20]byte{0x01}
	bob    = [20]byte{0x02}
	carol  = [20]byte{0x03}
)

func newTestEngine(t *testing.T) (*Engine, *mockState, *captureEmitter) {
	t.Helper()
	state := newMockState()
	state.grant(common.RoleMinter, minter)
	emitter := &captureEmitter{}
	engine := NewEngine()
	engine.SetState(state)
	engine.SetEmitter(emitter)
	return engine, state, emitter
}

func requireKind(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func TestMintRequiresMinterRole(t *testing.T) {
	engine, state, emitter := newTestEngine(t)
	requireKind(t, engine.Mint(alice, alice, big.NewInt(10)), ledgererr.ErrUnauthorized)
	if state.supply.Sign() != 0 {
		t.Fatalf("supply changed on rejected mint")
	}
	if err := engine.Mint(minter, alice, big.NewInt(10)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if state.supply.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("unexpected supply %s", state.supply)
	}
	if len(emitter.events) != 1 || emitter.events[0].Type != events.TypeTokenTransfer {
		t.Fatalf("expected transfer event, got %+v", emitter.events)
	}
	requireKind(t, engine.Mint(minter, [20]byte{}, big.NewInt(1)), ledgererr.ErrInvalidParameter)
	requireKind(t, engine.Mint(minter, alice, big.NewInt(-1)), ledgererr.ErrInvalidParameter)
}

func TestBalanceConservationAcrossOperations(t *testing.T) {
	engine, state, _ := newTestEngine(t)
	steps := []func() error{
		func() error { return engine.Mint(minter, alice, big.NewInt(1_000)) },
		func() error { return engine.Mint(minter, bob, big.NewInt(50)) },
		func() error { return engine.Transfer(alice, bob, big.NewInt(300)) },
		func() error { return engine.Burn(bob, big.NewInt(25)) },
		func() error { return engine.Transfer(bob, bob, big.NewInt(5)) },
		func() error { return engine.Approve(alice, carol, big.NewInt(200)) },
		func() error { return engine.TransferFrom(carol, alice, carol, big.NewInt(150)) },
		func() error { return engine.Burn(alice, big.NewInt(10_000)) },
		func() error { return engine.Transfer(carol, alice, big.NewInt(151)) },
	}
	for i, step := range steps {
		_ = step()
		if state.sumBalances().Cmp(state.supply) != 0 {
			t.Fatalf("step %d: supply %s != sum %s", i, state.supply, state.sumBalances())
		}
	}
	want := map[[20]byte]int64{alice: 550, bob: 325, carol: 150}
	for addr, expected := range want {
		got, _ := engine.BalanceOf(addr)
		if got.Cmp(big.NewInt(expected)) != 0 {
			t.Fatalf("balance of %x: want %d got %s", addr[:1], expected, got)
		}
	}
}

func TestBurnInsufficientBalance(t *testing.T) {
	engine, state, _ := newTestEngine(t)
	if err := engine.Mint(minter, alice, big.NewInt(5)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	requireKind(t, engine.Burn(alice, big.NewInt(6)), ledgererr.ErrInsufficientFunds)
	if state.balances[alice].Cmp(big.NewInt(5)) != 0 || state.supply.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("state changed on failed burn")
	}
}

func TestTransferFromAllowance(t *testing.T) {
	engine, _, emitter := newTestEngine(t)
	if err := engine.Mint(minter, alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	requireKind(t, engine.TransferFrom(bob, alice, carol, big.NewInt(1)), ledgererr.ErrInsufficientFunds)
	if err := engine.Approve(alice, bob, big.NewInt(60)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if emitter.events[len(emitter.events)-1].Type != events.TypeTokenApproval {
		t.Fatalf("expected approval event")
	}
	if err := engine.TransferFrom(bob, alice, carol, big.NewInt(40)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	remaining, _ := engine.Allowance(alice, bob)
	if remaining.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("unexpected remaining allowance %s", remaining)
	}
	requireKind(t, engine.TransferFrom(bob, alice, carol, big.NewInt(21)), ledgererr.ErrInsufficientFunds)

	// Allowance larger than balance: the balance check fails and the
	// allowance is left alone.
	if err := engine.Approve(alice, bob, big.NewInt(1_000)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	requireKind(t, engine.TransferFrom(bob, alice, carol, big.NewInt(61)), ledgererr.ErrInsufficientFunds)
	remaining, _ = engine.Allowance(alice, bob)
	if remaining.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("allowance consumed on failed transfer: %s", remaining)
	}
}

func TestUnlimitedAllowanceNotDecremented(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	if err := engine.Mint(minter, alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	unlimited := maxAllowance.ToBig()
	if err := engine.Approve(alice, bob, unlimited); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := engine.TransferFrom(bob, alice, carol, big.NewInt(30)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	remaining, _ := engine.Allowance(alice, bob)
	if remaining.Cmp(unlimited) != 0 {
		t.Fatalf("unlimited allowance was decremented")
	}
}

func TestMintOverflowRejected(t *testing.T) {
	engine, state, _ := newTestEngine(t)
	if err := engine.Mint(minter, alice, maxAllowance.ToBig()); err != nil {
		t.Fatalf("mint max: %v", err)
	}
	requireKind(t, engine.Mint(minter, bob, big.NewInt(1)), ledgererr.ErrInvalidParameter)
	if _, ok := state.balances[bob]; ok {
		t.Fatalf("bob credited despite overflow")
	}
	tooLarge := new(big.Int).Lsh(big.NewInt(1), 256)
	requireKind(t, engine.Transfer(alice, bob, tooLarge), ledgererr.ErrInvalidParameter)
}

func TestConfigureMetadata(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	meta, err := engine.Metadata()
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Symbol != "MRT" {
		t.Fatalf("expected default symbol, got %s", meta.Symbol)
	}
	if err := engine.Configure(Metadata{Name: "Credits", Symbol: " crd ", Decimals: 6}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	meta, _ = engine.Metadata()
	if meta.Symbol != "CRD" || meta.Decimals != 6 {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	requireKind(t, engine.Configure(Metadata{Name: " "}), ledgererr.ErrInvalidParameter)
}
