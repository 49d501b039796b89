package token

import (
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/events"
	"moviewrite/native/common"
)

// ModuleName identifies the fungible token ledger in errors, events and
// metrics.
const ModuleName = "token"

var (
	errNilState          = ledgererr.New(ledgererr.KindUnknown, ModuleName, "state not configured")
	errNegativeAmount    = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "amount must not be negative")
	errAmountOverflow    = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "amount exceeds 256 bits")
	errZeroRecipient     = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "recipient must not be the zero account")
	errZeroSpender       = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "spender must not be the zero account")
	errInsufficientFunds = ledgererr.New(ledgererr.KindInsufficientFunds, ModuleName, "transfer amount exceeds balance")
	errAllowance         = ledgererr.New(ledgererr.KindInsufficientFunds, ModuleName, "insufficient allowance")
	errSupplyOverflow    = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "total supply would overflow")
	errInvalidMetadata   = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "token name and symbol required")
)

type engineState interface {
	TokenBalance(addr [20]byte) (*big.Int, error)
	SetTokenBalance(addr [20]byte, amount *big.Int) error
	TokenAllowance(owner, spender [20]byte) (*big.Int, error)
	SetTokenAllowance(owner, spender [20]byte, amount *big.Int) error
	TokenSupply() (*big.Int, error)
	SetTokenSupply(amount *big.Int) error
	TokenMetadata() (*Metadata, bool, error)
	PutTokenMetadata(meta *Metadata) error
	HasRole(role string, addr [20]byte) bool
}

// Engine implements the reward token: balances, allowances and a supply that
// always equals the sum of balances.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine constructs a token engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

// maxAllowance is treated as an unlimited approval that transferFrom never
// decrements.
var maxAllowance = new(uint256.Int).SetAllOne()

func toUint256(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return new(uint256.Int), nil
	}
	if amount.Sign() < 0 {
		return nil, errNegativeAmount
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, errAmountOverflow
	}
	return value, nil
}

func (e *Engine) loadBalance(addr [20]byte) (*uint256.Int, error) {
	current, err := e.state.TokenBalance(addr)
	if err != nil {
		return nil, err
	}
	return toUint256(current)
}

// Configure stores the token metadata. It is applied once at genesis.
func (e *Engine) Configure(meta Metadata) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	meta.Name = strings.TrimSpace(meta.Name)
	meta.Symbol = strings.ToUpper(strings.TrimSpace(meta.Symbol))
	if meta.Name == "" || meta.Symbol == "" {
		return errInvalidMetadata
	}
	return e.state.PutTokenMetadata(&meta)
}

// Metadata returns the configured token metadata, falling back to defaults.
func (e *Engine) Metadata() (Metadata, error) {
	if e == nil || e.state == nil {
		return Metadata{}, errNilState
	}
	meta, ok, err := e.state.TokenMetadata()
	if err != nil {
		return Metadata{}, err
	}
	if !ok || meta == nil {
		return DefaultMetadata(), nil
	}
	return *meta, nil
}

// Mint credits amount to the recipient. The caller must hold the minter role.
func (e *Engine) Mint(caller, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireRole(e.state, ModuleName, common.RoleMinter, caller); err != nil {
		return err
	}
	return e.mint(to, amount)
}

// MintGenesis credits the initial supply without a role check.
func (e *Engine) MintGenesis(to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	return e.mint(to, amount)
}

func (e *Engine) mint(to [20]byte, amount *big.Int) error {
	if common.IsZeroAccount(to) {
		return errZeroRecipient
	}
	value, err := toUint256(amount)
	if err != nil {
		return err
	}
	supplyBig, err := e.state.TokenSupply()
	if err != nil {
		return err
	}
	supply, err := toUint256(supplyBig)
	if err != nil {
		return err
	}
	balance, err := e.loadBalance(to)
	if err != nil {
		return err
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(supply, value)
	if overflow {
		return errSupplyOverflow
	}
	// balance <= supply, so the balance addition cannot overflow once the
	// supply addition succeeded.
	newBalance := new(uint256.Int).Add(balance, value)
	if err := e.state.SetTokenSupply(newSupply.ToBig()); err != nil {
		return err
	}
	if err := e.state.SetTokenBalance(to, newBalance.ToBig()); err != nil {
		return err
	}
	e.emit(events.TokenTransfer{To: to, Amount: value.ToBig()})
	return nil
}

// Burn destroys amount of the caller's own balance.
func (e *Engine) Burn(caller [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	value, err := toUint256(amount)
	if err != nil {
		return err
	}
	balance, err := e.loadBalance(caller)
	if err != nil {
		return err
	}
	newBalance, underflow := new(uint256.Int).SubOverflow(balance, value)
	if underflow {
		return errInsufficientFunds
	}
	supplyBig, err := e.state.TokenSupply()
	if err != nil {
		return err
	}
	supply, err := toUint256(supplyBig)
	if err != nil {
		return err
	}
	newSupply, underflow := new(uint256.Int).SubOverflow(supply, value)
	if underflow {
		return errInsufficientFunds
	}
	if err := e.state.SetTokenBalance(caller, newBalance.ToBig()); err != nil {
		return err
	}
	if err := e.state.SetTokenSupply(newSupply.ToBig()); err != nil {
		return err
	}
	e.emit(events.TokenTransfer{From: caller, Amount: value.ToBig()})
	return nil
}

// Transfer moves amount from the caller to the recipient.
func (e *Engine) Transfer(caller, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	return e.transfer(caller, to, amount)
}

func (e *Engine) transfer(from, to [20]byte, amount *big.Int) error {
	if common.IsZeroAccount(to) {
		return errZeroRecipient
	}
	value, err := toUint256(amount)
	if err != nil {
		return err
	}
	fromBalance, err := e.loadBalance(from)
	if err != nil {
		return err
	}
	newFrom, underflow := new(uint256.Int).SubOverflow(fromBalance, value)
	if underflow {
		return errInsufficientFunds
	}
	if from != to {
		toBalance, err := e.loadBalance(to)
		if err != nil {
			return err
		}
		newTo, overflow := new(uint256.Int).AddOverflow(toBalance, value)
		if overflow {
			return errSupplyOverflow
		}
		if err := e.state.SetTokenBalance(from, newFrom.ToBig()); err != nil {
			return err
		}
		if err := e.state.SetTokenBalance(to, newTo.ToBig()); err != nil {
			return err
		}
	}
	e.emit(events.TokenTransfer{From: from, To: to, Amount: value.ToBig()})
	return nil
}

// Approve sets the allowance spender may draw from the caller's balance.
func (e *Engine) Approve(caller, spender [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if common.IsZeroAccount(spender) {
		return errZeroSpender
	}
	value, err := toUint256(amount)
	if err != nil {
		return err
	}
	if err := e.state.SetTokenAllowance(caller, spender, value.ToBig()); err != nil {
		return err
	}
	e.emit(events.TokenApproval{Owner: caller, Spender: spender, Amount: value.ToBig()})
	return nil
}

// TransferFrom moves amount from owner to the recipient on behalf of spender,
// consuming the allowance owner granted to spender.
func (e *Engine) TransferFrom(spender, owner, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	value, err := toUint256(amount)
	if err != nil {
		return err
	}
	allowanceBig, err := e.state.TokenAllowance(owner, spender)
	if err != nil {
		return err
	}
	allowance, err := toUint256(allowanceBig)
	if err != nil {
		return err
	}
	remaining, underflow := new(uint256.Int).SubOverflow(allowance, value)
	if underflow {
		return errAllowance
	}
	// The transfer validates balances before anything is written, so a
	// failure leaves the allowance untouched too.
	if err := e.transfer(owner, to, amount); err != nil {
		return err
	}
	if allowance.Eq(maxAllowance) {
		return nil
	}
	return e.state.SetTokenAllowance(owner, spender, remaining.ToBig())
}

// BalanceOf returns the token balance of addr.
func (e *Engine) BalanceOf(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.TokenBalance(addr)
}

// Allowance returns the remaining amount spender may draw from owner.
func (e *Engine) Allowance(owner, spender [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.TokenAllowance(owner, spender)
}

// TotalSupply returns the sum of all balances.
func (e *Engine) TotalSupply() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.TokenSupply()
}
