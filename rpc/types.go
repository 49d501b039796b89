package rpc

import (
	"math/big"
	"strings"

	"moviewrite/core/events"
	"moviewrite/crypto"
	"moviewrite/native/articles"
	"moviewrite/native/certificate"
)

type ArticleResult struct {
	ID                    uint64 `json:"id"`
	Title                 string `json:"title"`
	MovieTitle            string `json:"movieTitle"`
	Genre                 string `json:"genre"`
	Creator               string `json:"creator"`
	CreatedAt             int64  `json:"createdAt"`
	TotalContributions    uint64 `json:"totalContributions"`
	TotalRewards          string `json:"totalRewards"`
	IsCompleted           bool   `json:"isCompleted"`
	MinContributionLength uint64 `json:"minContributionLength"`
	MaxContributors       uint64 `json:"maxContributors"`
	CertificateID         uint64 `json:"certificateId,omitempty"`
}

type ContributionResult struct {
	ID          uint64 `json:"id"`
	ArticleID   uint64 `json:"articleId"`
	Contributor string `json:"contributor"`
	Content     string `json:"content"`
	Timestamp   int64  `json:"timestamp"`
	Likes       uint64 `json:"likes"`
	Rewards     string `json:"rewards"`
	IsApproved  bool   `json:"isApproved"`
}

type CertificateResult struct {
	ID             uint64   `json:"id"`
	Owner          string   `json:"owner"`
	Author         string   `json:"author"`
	Title          string   `json:"title"`
	ContentHash    string   `json:"contentHash"`
	Categories     []string `json:"categories"`
	Status         string   `json:"status"`
	Views          uint64   `json:"views"`
	Likes          uint64   `json:"likes"`
	TransferLocked bool     `json:"transferLocked"`
	RoyaltyBps     uint32   `json:"royaltyBps"`
	MintedAt       int64    `json:"mintedAt"`
	UpdatedAt      int64    `json:"updatedAt"`
}

type ListingResult struct {
	CertificateID uint64 `json:"certificateId"`
	Seller        string `json:"seller,omitempty"`
	Price         string `json:"price"`
	Deadline      int64  `json:"deadline"`
	IsForSale     bool   `json:"isForSale"`
}

type SaleResult struct {
	CertificateID  uint64 `json:"certificateId"`
	Seller         string `json:"seller"`
	Buyer          string `json:"buyer"`
	Author         string `json:"author"`
	FeeRecipient   string `json:"feeRecipient"`
	Price          string `json:"price"`
	PlatformFee    string `json:"platformFee"`
	Royalty        string `json:"royalty"`
	SellerProceeds string `json:"sellerProceeds"`
	RoyaltyWaived  bool   `json:"royaltyWaived"`
}

type PlatformConfigResult struct {
	FeeRecipient      string `json:"feeRecipient"`
	FeeBps            uint32 `json:"feeBps"`
	DefaultRoyaltyBps uint32 `json:"defaultRoyaltyBps"`
	MintFee           string `json:"mintFee"`
	PublicMintEnabled bool   `json:"publicMintEnabled"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
}

type RoyaltyResult struct {
	Receiver string `json:"receiver"`
	Amount   string `json:"amount"`
}

type EventResult struct {
	Seq        uint64            `json:"seq"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
	Timestamp  uint64            `json:"timestamp"`
	Hash       string            `json:"hash"`
	PrevHash   string            `json:"prevHash"`
}

func articleResult(a *articles.Article) ArticleResult {
	return ArticleResult{
		ID:                    a.ID,
		Title:                 a.Title,
		MovieTitle:            a.MovieTitle,
		Genre:                 a.Genre,
		Creator:               crypto.FormatAccount(a.Creator),
		CreatedAt:             a.CreatedAt,
		TotalContributions:    a.TotalContributions,
		TotalRewards:          amountString(a.TotalRewards),
		IsCompleted:           a.IsCompleted,
		MinContributionLength: a.MinContributionLength,
		MaxContributors:       a.MaxContributors,
		CertificateID:         a.CertificateID,
	}
}

func contributionResult(c *articles.Contribution) ContributionResult {
	return ContributionResult{
		ID:          c.ID,
		ArticleID:   c.ArticleID,
		Contributor: crypto.FormatAccount(c.Contributor),
		Content:     c.Content,
		Timestamp:   c.Timestamp,
		Likes:       c.Likes,
		Rewards:     amountString(c.Rewards),
		IsApproved:  c.IsApproved,
	}
}

func certificateResult(c *certificate.Certificate) CertificateResult {
	categories := c.Categories
	if categories == nil {
		categories = []string{}
	}
	return CertificateResult{
		ID:             c.ID,
		Owner:          crypto.FormatAccount(c.Owner),
		Author:         crypto.FormatAccount(c.Author),
		Title:          c.Title,
		ContentHash:    c.ContentHash,
		Categories:     categories,
		Status:         c.Status.String(),
		Views:          c.Views,
		Likes:          c.Likes,
		TransferLocked: c.TransferLocked,
		RoyaltyBps:     c.RoyaltyBps,
		MintedAt:       c.MintedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func listingResult(l *certificate.Listing) ListingResult {
	out := ListingResult{
		CertificateID: l.CertificateID,
		Price:         amountString(l.Price),
		Deadline:      l.Deadline,
		IsForSale:     l.IsForSale,
	}
	if l.IsForSale {
		out.Seller = crypto.FormatAccount(l.Seller)
	}
	return out
}

func saleResult(s *certificate.Sale) SaleResult {
	return SaleResult{
		CertificateID:  s.CertificateID,
		Seller:         crypto.FormatAccount(s.Seller),
		Buyer:          crypto.FormatAccount(s.Buyer),
		Author:         crypto.FormatAccount(s.Author),
		FeeRecipient:   crypto.FormatAccount(s.FeeRecipient),
		Price:          amountString(s.Price),
		PlatformFee:    amountString(s.PlatformFee),
		Royalty:        amountString(s.Royalty),
		SellerProceeds: amountString(s.SellerProceeds),
		RoyaltyWaived:  s.RoyaltyWaived,
	}
}

func platformConfigResult(cfg *certificate.PlatformConfig) PlatformConfigResult {
	return PlatformConfigResult{
		FeeRecipient:      crypto.FormatAccount(cfg.FeeRecipient),
		FeeBps:            cfg.FeeBps,
		DefaultRoyaltyBps: cfg.DefaultRoyaltyBps,
		MintFee:           amountString(cfg.MintFee),
		PublicMintEnabled: cfg.PublicMintEnabled,
		Name:              cfg.Name,
		Symbol:            cfg.Symbol,
	}
}

func eventResult(entry events.Entry) EventResult {
	attrs := make(map[string]string, len(entry.Attributes))
	for _, attr := range entry.Attributes {
		attrs[attr.Key] = attr.Value
	}
	return EventResult{
		Seq:        entry.Seq,
		Type:       entry.Type,
		Attributes: attrs,
		Timestamp:  entry.Timestamp,
		Hash:       entry.HashHex(),
		PrevHash:   entry.PrevHashHex(),
	}
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseAccountParam(name, value string) ([20]byte, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return [20]byte{}, invalidParams("%s required", name)
	}
	addr, err := crypto.ParseAccount(trimmed)
	if err != nil {
		return [20]byte{}, invalidParams("invalid %s: %v", name, err)
	}
	return addr, nil
}

// parseAmountParam parses a non-negative base-10 amount. Empty means zero.
func parseAmountParam(name, value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, invalidParams("invalid %s: %q", name, value)
	}
	if amount.Sign() < 0 {
		return nil, invalidParams("%s must not be negative", name)
	}
	return amount, nil
}
