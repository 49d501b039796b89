package core

import (
	"math/big"

	"moviewrite/core/events"
	"moviewrite/native/articles"
	"moviewrite/native/bank"
	"moviewrite/native/certificate"
	"moviewrite/native/token"
)

// maxEventsPage caps the number of log entries returned by one read.
const maxEventsPage = 1000

// TokenBalance returns the reward token balance of addr.
func (n *Node) TokenBalance(addr [20]byte) (*big.Int, error) {
	var out *big.Int
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.token.BalanceOf(addr)
		return err
	})
	return out, err
}

// TokenAllowance returns the amount spender may move on behalf of owner.
func (n *Node) TokenAllowance(owner, spender [20]byte) (*big.Int, error) {
	var out *big.Int
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.token.Allowance(owner, spender)
		return err
	})
	return out, err
}

// TokenSupply returns the reward token total supply.
func (n *Node) TokenSupply() (*big.Int, error) {
	var out *big.Int
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.token.TotalSupply()
		return err
	})
	return out, err
}

// TokenMetadata returns the configured token name, symbol and decimals.
func (n *Node) TokenMetadata() (token.Metadata, error) {
	var out token.Metadata
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.token.Metadata()
		return err
	})
	return out, err
}

// BankBalance returns the native balance used to pay for certificates.
func (n *Node) BankBalance(addr [20]byte) (*big.Int, error) {
	var out *big.Int
	err := n.view(func(eng *engines) error {
		var err error
		out, err = bank.Balance(eng.state, addr)
		return err
	})
	return out, err
}

// Article returns the article with the supplied id.
func (n *Node) Article(id uint64) (*articles.Article, error) {
	var out *articles.Article
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.articles.Article(id)
		return err
	})
	return out, err
}

// Contribution returns the contribution with the supplied id.
func (n *Node) Contribution(id uint64) (*articles.Contribution, error) {
	var out *articles.Contribution
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.articles.Contribution(id)
		return err
	})
	return out, err
}

// ArticleTotals returns the number of articles and contributions.
func (n *Node) ArticleTotals() (uint64, uint64, error) {
	var totalArticles, totalContributions uint64
	err := n.view(func(eng *engines) error {
		var err error
		if totalArticles, err = eng.articles.TotalArticles(); err != nil {
			return err
		}
		totalContributions, err = eng.articles.TotalContributions()
		return err
	})
	return totalArticles, totalContributions, err
}

// ArticleContributions lists contribution ids of an article in submission order.
func (n *Node) ArticleContributions(articleID uint64) ([]uint64, error) {
	var out []uint64
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.articles.ArticleContributions(articleID)
		return err
	})
	return out, err
}

// UserContributions lists contribution ids submitted by addr.
func (n *Node) UserContributions(addr [20]byte) ([]uint64, error) {
	var out []uint64
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.articles.UserContributions(addr)
		return err
	})
	return out, err
}

// HasContributed reports whether addr contributed to an article.
func (n *Node) HasContributed(articleID uint64, addr [20]byte) (bool, error) {
	var out bool
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.articles.HasContributed(articleID, addr)
		return err
	})
	return out, err
}

// HasLiked reports whether addr liked a contribution.
func (n *Node) HasLiked(contributionID uint64, addr [20]byte) (bool, error) {
	var out bool
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.articles.HasLiked(contributionID, addr)
		return err
	})
	return out, err
}

// Certificate returns the certificate with the supplied id.
func (n *Node) Certificate(id uint64) (*certificate.Certificate, error) {
	var out *certificate.Certificate
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.certificates.Certificate(id)
		return err
	})
	return out, err
}

// CertificateSupply returns the number of certificates minted so far.
func (n *Node) CertificateSupply() (uint64, error) {
	var out uint64
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.certificates.TotalSupply()
		return err
	})
	return out, err
}

// AuthorCertificates lists certificate ids authored by addr.
func (n *Node) AuthorCertificates(author [20]byte) ([]uint64, error) {
	var out []uint64
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.certificates.AuthorCertificates(author)
		return err
	})
	return out, err
}

// VerifyContent reports whether contentHash matches a certificate.
func (n *Node) VerifyContent(id uint64, contentHash string) (bool, error) {
	var out bool
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.certificates.VerifyContent(id, contentHash)
		return err
	})
	return out, err
}

// CertificateMetadata returns the metadata URI of a certificate.
func (n *Node) CertificateMetadata(id uint64) (string, error) {
	var out string
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.certificates.RenderMetadata(id)
		return err
	})
	return out, err
}

// RoyaltyInfo returns the royalty receiver and amount for a hypothetical sale.
func (n *Node) RoyaltyInfo(id uint64, salePrice *big.Int) ([20]byte, *big.Int, error) {
	var (
		receiver [20]byte
		amount   *big.Int
	)
	err := n.view(func(eng *engines) error {
		var err error
		receiver, amount, err = eng.certificates.RoyaltyInfo(id, salePrice)
		return err
	})
	return receiver, amount, err
}

// SaleInfo returns the listing of a certificate.
func (n *Node) SaleInfo(id uint64) (*certificate.Listing, error) {
	var out *certificate.Listing
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.certificates.SaleInfo(id)
		return err
	})
	return out, err
}

// PlatformConfig returns the marketplace parameters.
func (n *Node) PlatformConfig() (*certificate.PlatformConfig, error) {
	var out *certificate.PlatformConfig
	err := n.view(func(eng *engines) error {
		var err error
		out, err = eng.certificates.PlatformConfig()
		return err
	})
	return out, err
}

// EventsList returns up to limit log entries starting at sequence from.
func (n *Node) EventsList(from uint64, limit int) ([]events.Entry, error) {
	if limit <= 0 || limit > maxEventsPage {
		limit = maxEventsPage
	}
	var out []events.Entry
	err := n.view(func(eng *engines) error {
		var err error
		out, err = events.ReadLog(eng.state, from, limit)
		return err
	})
	return out, err
}
