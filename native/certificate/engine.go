package certificate

import (
	"math/big"
	"strings"
	"time"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/events"
	"moviewrite/core/types"
	"moviewrite/native/bank"
	"moviewrite/native/common"
)

// ModuleName identifies the certificate marketplace in errors, events and
// metrics.
const ModuleName = "certificate"

const (
	// MaxPlatformFeeBps caps the platform fee at 10%.
	MaxPlatformFeeBps = 1_000
	// MaxRoyaltyBps keeps fee plus royalty within the sale price.
	MaxRoyaltyBps     = 9_000
	// MaxTitleLength bounds certificate titles in bytes.
	MaxTitleLength    = 200
	// MaxCategoryLength bounds each category in bytes.
	MaxCategoryLength = 32

	maxCategories = 8
)

var (
	errNilState          = ledgererr.New(ledgererr.KindUnknown, ModuleName, "state not configured")
	errNotFound          = ledgererr.New(ledgererr.KindNotFound, ModuleName, "certificate not found")
	errContentMinted     = ledgererr.New(ledgererr.KindAlreadyExists, ModuleName, "content already minted")
	errTitleLength       = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "invalid title length")
	errContentHash       = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "content hash required")
	errCategories        = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "invalid categories")
	errZeroRecipient     = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "recipient must not be the zero account")
	errInsufficientFee   = ledgererr.New(ledgererr.KindInsufficientFunds, ModuleName, "insufficient mint fee")
	errPublicMintOff     = ledgererr.New(ledgererr.KindUnauthorized, ModuleName, "public minting disabled")
	errNotOwner          = ledgererr.New(ledgererr.KindUnauthorized, ModuleName, "caller is not the certificate owner")
	errNotOwnerOrAdmin   = ledgererr.New(ledgererr.KindUnauthorized, ModuleName, "caller is neither owner nor administrator")
	errTransferLocked    = ledgererr.New(ledgererr.KindLocked, ModuleName, "transfer locked")
	errInvalidStatus     = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "invalid status")
	errEmptyBatch        = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "batch must not be empty")
	errZeroPrice         = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "price must be greater than 0")
	errInvalidDeadline   = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "invalid deadline")
	errNotForSale        = ledgererr.New(ledgererr.KindNotFound, ModuleName, "certificate not for sale")
	errSaleExpired       = ledgererr.New(ledgererr.KindExpired, ModuleName, "sale expired")
	errIncorrectPayment  = ledgererr.New(ledgererr.KindInsufficientFunds, ModuleName, "payment must equal the listing price")
	errBuyerIsOwner      = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "buyer already owns the certificate")
	errFeeTooHigh        = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "fee too high")
	errRoyaltyTooHigh    = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "royalty too high")
	errNegativeFee       = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "mint fee must not be negative")
	errZeroFeeRecipient  = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "fee recipient must not be the zero account")
	errConfigNotFound    = ledgererr.New(ledgererr.KindNotFound, ModuleName, "platform config not initialised")
	errNegativeSalePrice = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "sale price must not be negative")
	errReservedContent   = ledgererr.New(ledgererr.KindUnauthorized, ModuleName, "content hash reserved for article completion")
)

type engineState interface {
	CertificateGet(id uint64) (*Certificate, bool, error)
	CertificatePut(cert *Certificate) error
	CertificateCount() (uint64, error)
	SetCertificateCount(count uint64) error
	CertificateByContentHash(hash string) (uint64, bool, error)
	SetCertificateContentHash(hash string, id uint64) error
	AuthorCertificatesAppend(author [20]byte, id uint64) error
	AuthorCertificates(author [20]byte) ([]uint64, error)
	ListingGet(id uint64) (*Listing, bool, error)
	ListingPut(listing *Listing) error
	ListingDelete(id uint64) error
	MarketplaceConfig() (*PlatformConfig, bool, error)
	PutMarketplaceConfig(cfg *PlatformConfig) error
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
	HasRole(role string, addr [20]byte) bool
}

// Engine implements the certificate marketplace.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a certificate engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
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

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	return nil
}

func (e *Engine) isAdmin(addr [20]byte) bool {
	return common.HasRole(e.state, common.RoleAdministrator, addr)
}

func (e *Engine) loadCertificate(id uint64) (*Certificate, error) {
	cert, ok, err := e.state.CertificateGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || cert == nil {
		return nil, errNotFound
	}
	return cert, nil
}

func (e *Engine) loadConfig() (*PlatformConfig, error) {
	cfg, ok, err := e.state.MarketplaceConfig()
	if err != nil {
		return nil, err
	}
	if !ok || cfg == nil {
		return nil, errConfigNotFound
	}
	if cfg.MintFee == nil {
		cfg.MintFee = big.NewInt(0)
	}
	return cfg, nil
}

func validateTitle(title string) error {
	if len(title) == 0 || len(title) > MaxTitleLength {
		return errTitleLength
	}
	return nil
}

func sanitizeCategories(categories []string) ([]string, error) {
	if len(categories) > maxCategories {
		return nil, errCategories
	}
	out := make([]string, 0, len(categories))
	for _, category := range categories {
		trimmed := strings.TrimSpace(category)
		if trimmed == "" || len(trimmed) > MaxCategoryLength {
			return nil, errCategories
		}
		out = append(out, trimmed)
	}
	return out, nil
}

// mint validates and stores a new certificate. Fees are settled by callers.
func (e *Engine) mint(req MintRequest, royaltyBps uint32) (*Certificate, error) {
	if common.IsZeroAccount(req.To) {
		return nil, errZeroRecipient
	}
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	hash := strings.TrimSpace(req.ContentHash)
	if hash == "" {
		return nil, errContentHash
	}
	categories, err := sanitizeCategories(req.Categories)
	if err != nil {
		return nil, err
	}
	if _, exists, err := e.state.CertificateByContentHash(hash); err != nil {
		return nil, err
	} else if exists {
		return nil, errContentMinted
	}
	count, err := e.state.CertificateCount()
	if err != nil {
		return nil, err
	}
	now := e.now()
	cert := &Certificate{
		ID:          count + 1,
		Owner:       req.To,
		Title:       title,
		ContentHash: hash,
		Author:      req.To,
		Categories:  categories,
		Status:      StatusPublished,
		RoyaltyBps:  royaltyBps,
		MintedAt:    now,
		UpdatedAt:   now,
	}
	if err := e.state.CertificatePut(cert); err != nil {
		return nil, err
	}
	if err := e.state.SetCertificateCount(cert.ID); err != nil {
		return nil, err
	}
	if err := e.state.SetCertificateContentHash(hash, cert.ID); err != nil {
		return nil, err
	}
	if err := e.state.AuthorCertificatesAppend(cert.Author, cert.ID); err != nil {
		return nil, err
	}
	e.emit(CertificateMintedEvent(cert))
	return cert, nil
}

// Mint issues a certificate to req.To. Administrators mint for free; everyone
// else needs public minting enabled and must offer at least the mint fee,
// of which exactly the fee is charged to the fee recipient.
func (e *Engine) Mint(caller [20]byte, req MintRequest, payment *big.Int) (*Certificate, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if IsCompletionHash(req.ContentHash) {
		return nil, errReservedContent
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	admin := e.isAdmin(caller)
	if !admin && !cfg.PublicMintEnabled {
		return nil, errPublicMintOff
	}
	if payment == nil {
		payment = big.NewInt(0)
	}
	charge := !admin && cfg.MintFee.Sign() > 0
	if charge {
		if payment.Cmp(cfg.MintFee) < 0 {
			return nil, errInsufficientFee
		}
		balance, err := bank.Balance(e.state, caller)
		if err != nil {
			return nil, err
		}
		if balance.Cmp(cfg.MintFee) < 0 {
			return nil, errInsufficientFee
		}
	}
	cert, err := e.mint(req, cfg.DefaultRoyaltyBps)
	if err != nil {
		return nil, err
	}
	if charge {
		if err := bank.Transfer(e.state, caller, cfg.FeeRecipient, cfg.MintFee); err != nil {
			return nil, err
		}
	}
	return cert.Clone(), nil
}

// IssueCompletion mints the certificate of a completed article. It is
// reserved for the contribution ledger, so no fee is charged, the public
// minting switch does not apply and the content hash may sit in the
// completion namespace.
func (e *Engine) IssueCompletion(to [20]byte, title, contentHash string, categories []string) (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return 0, err
	}
	cert, err := e.mint(MintRequest{To: to, Title: title, ContentHash: contentHash, Categories: categories}, cfg.DefaultRoyaltyBps)
	if err != nil {
		return 0, err
	}
	return cert.ID, nil
}

// MintBatch mints every request with fees waived. Only administrators may
// batch mint and the whole batch fails if any entry is rejected.
func (e *Engine) MintBatch(caller [20]byte, reqs []MintRequest) ([]*Certificate, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := common.RequireRole(e.state, ModuleName, common.RoleAdministrator, caller); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, errEmptyBatch
	}
	for _, req := range reqs {
		if IsCompletionHash(req.ContentHash) {
			return nil, errReservedContent
		}
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	out := make([]*Certificate, 0, len(reqs))
	for _, req := range reqs {
		cert, err := e.mint(req, cfg.DefaultRoyaltyBps)
		if err != nil {
			return nil, err
		}
		out = append(out, cert.Clone())
	}
	return out, nil
}

// Transfer moves a certificate from its owner to another account. Only the
// owner may transfer and locked certificates cannot move. Any active listing
// is withdrawn.
func (e *Engine) Transfer(caller, from, to [20]byte, id uint64) (*Certificate, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return nil, err
	}
	if cert.Owner != caller || cert.Owner != from {
		return nil, errNotOwner
	}
	if cert.TransferLocked {
		return nil, errTransferLocked
	}
	if common.IsZeroAccount(to) {
		return nil, errZeroRecipient
	}
	if err := e.clearListing(id); err != nil {
		return nil, err
	}
	cert.Owner = to
	cert.UpdatedAt = e.now()
	if err := e.state.CertificatePut(cert); err != nil {
		return nil, err
	}
	e.emit(CertificateTransferredEvent(id, from, to))
	return cert.Clone(), nil
}

// SetTransferLock lets the owner freeze or unfreeze a certificate.
func (e *Engine) SetTransferLock(caller [20]byte, id uint64, locked bool) error {
	if err := e.ready(); err != nil {
		return err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return err
	}
	if cert.Owner != caller {
		return errNotOwner
	}
	return e.setLock(cert, locked)
}

// EmergencyLockTransfers locks every listed certificate. Administrator only;
// unknown ids fail the whole call.
func (e *Engine) EmergencyLockTransfers(caller [20]byte, ids []uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := common.RequireRole(e.state, ModuleName, common.RoleAdministrator, caller); err != nil {
		return err
	}
	certs := make([]*Certificate, 0, len(ids))
	for _, id := range ids {
		cert, err := e.loadCertificate(id)
		if err != nil {
			return err
		}
		certs = append(certs, cert)
	}
	for _, cert := range certs {
		if err := e.setLock(cert, true); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) setLock(cert *Certificate, locked bool) error {
	cert.TransferLocked = locked
	cert.UpdatedAt = e.now()
	if err := e.state.CertificatePut(cert); err != nil {
		return err
	}
	e.emit(CertificateLockEvent(cert.ID, locked))
	return nil
}

func (e *Engine) requireOwnerOrAdmin(cert *Certificate, caller [20]byte) error {
	if cert.Owner == caller || e.isAdmin(caller) {
		return nil
	}
	return errNotOwnerOrAdmin
}

// UpdateCertificate changes the title and status of a certificate.
func (e *Engine) UpdateCertificate(caller [20]byte, id uint64, title string, status Status) (*Certificate, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return nil, err
	}
	if err := e.requireOwnerOrAdmin(cert, caller); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errInvalidStatus
	}
	cert.Title = title
	cert.Status = status
	cert.UpdatedAt = e.now()
	if err := e.state.CertificatePut(cert); err != nil {
		return nil, err
	}
	e.emit(CertificateUpdatedEvent(cert))
	return cert.Clone(), nil
}

// UpdateStats overwrites the view and like counters of a certificate.
func (e *Engine) UpdateStats(caller [20]byte, id uint64, views, likes uint64) (*Certificate, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return nil, err
	}
	if err := e.requireOwnerOrAdmin(cert, caller); err != nil {
		return nil, err
	}
	cert.Views = views
	cert.Likes = likes
	cert.UpdatedAt = e.now()
	if err := e.state.CertificatePut(cert); err != nil {
		return nil, err
	}
	e.emit(CertificateUpdatedEvent(cert))
	return cert.Clone(), nil
}

// Certificate returns the certificate with the supplied id.
func (e *Engine) Certificate(id uint64) (*Certificate, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return e.loadCertificate(id)
}

// TotalSupply returns the number of certificates minted so far.
func (e *Engine) TotalSupply() (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	return e.state.CertificateCount()
}

// AuthorCertificates lists the ids of certificates authored by addr.
func (e *Engine) AuthorCertificates(author [20]byte) ([]uint64, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return e.state.AuthorCertificates(author)
}

// VerifyContent reports whether contentHash matches the stored commitment.
func (e *Engine) VerifyContent(id uint64, contentHash string) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return false, err
	}
	return cert.ContentHash == strings.TrimSpace(contentHash), nil
}

// RenderMetadata returns the self-describing document of a certificate.
func (e *Engine) RenderMetadata(id uint64) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return "", err
	}
	return RenderMetadata(cert)
}
