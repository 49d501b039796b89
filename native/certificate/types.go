package certificate

import (
	"fmt"
	"math/big"
	"strings"
)

// Status describes the editorial state of a certificate.
type Status uint8

const (
	StatusDraft Status = iota
	StatusPublished
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPublished:
		return "published"
	case StatusArchived:
		return "archived"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s <= StatusArchived }

// ParseStatus accepts the names returned by String.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft":
		return StatusDraft, nil
	case "published":
		return StatusPublished, nil
	case "archived":
		return StatusArchived, nil
	}
	return 0, fmt.Errorf("unknown certificate status %q", raw)
}

// Certificate is a non-fungible record of a completed article or an
// independently minted piece of content.
type Certificate struct {
	ID             uint64
	Owner          [20]byte
	Title          string
	ContentHash    string
	Author         [20]byte
	Categories     []string
	Status         Status
	Views          uint64
	Likes          uint64
	TransferLocked bool
	// RoyaltyBps is fixed at mint time from the platform default.
	RoyaltyBps uint32
	MintedAt   int64
	UpdatedAt  int64
}

// Clone returns a deep copy.
func (c *Certificate) Clone() *Certificate {
	if c == nil {
		return nil
	}
	out := *c
	out.Categories = append([]string(nil), c.Categories...)
	return &out
}

// Listing is the single active sale offer of a certificate.
type Listing struct {
	CertificateID uint64
	Seller        [20]byte
	Price         *big.Int
	Deadline      int64
	IsForSale     bool
}

// Clone returns a deep copy.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	out := *l
	out.Price = copyBig(l.Price)
	return &out
}

// PlatformConfig holds the process-wide marketplace parameters and the
// certificate collection's name and symbol.
type PlatformConfig struct {
	FeeRecipient      [20]byte
	FeeBps            uint32
	DefaultRoyaltyBps uint32
	MintFee           *big.Int
	PublicMintEnabled bool
	Name              string
	Symbol            string
}

// Clone returns a deep copy.
func (p *PlatformConfig) Clone() *PlatformConfig {
	if p == nil {
		return nil
	}
	out := *p
	out.MintFee = copyBig(p.MintFee)
	return &out
}

// MintRequest carries the fields of a certificate to be minted.
type MintRequest struct {
	To          [20]byte
	Title       string
	ContentHash string
	Categories  []string
}

// Sale summarises a settled purchase.
type Sale struct {
	CertificateID  uint64
	Seller         [20]byte
	Buyer          [20]byte
	Author         [20]byte
	FeeRecipient   [20]byte
	Price          *big.Int
	PlatformFee    *big.Int
	Royalty        *big.Int
	SellerProceeds *big.Int
	RoyaltyWaived  bool
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
