package state

import (
	"fmt"
	"math/big"

	"moviewrite/native/articles"
)

type storedArticle struct {
	ID                    uint64
	Title                 string
	MovieTitle            string
	Genre                 string
	Creator               [20]byte
	CreatedAt             uint64
	TotalContributions    uint64
	TotalRewards          *big.Int
	IsCompleted           bool
	MinContributionLength uint64
	MaxContributors       uint64
	CertificateID         uint64
}

func newStoredArticle(a *articles.Article) *storedArticle {
	rewards := big.NewInt(0)
	if a.TotalRewards != nil {
		rewards.Set(a.TotalRewards)
	}
	return &storedArticle{
		ID:                    a.ID,
		Title:                 a.Title,
		MovieTitle:            a.MovieTitle,
		Genre:                 a.Genre,
		Creator:               a.Creator,
		CreatedAt:             unixToStored(a.CreatedAt),
		TotalContributions:    a.TotalContributions,
		TotalRewards:          rewards,
		IsCompleted:           a.IsCompleted,
		MinContributionLength: a.MinContributionLength,
		MaxContributors:       a.MaxContributors,
		CertificateID:         a.CertificateID,
	}
}

func (s *storedArticle) toArticle() *articles.Article {
	rewards := big.NewInt(0)
	if s.TotalRewards != nil {
		rewards.Set(s.TotalRewards)
	}
	return &articles.Article{
		ID:                    s.ID,
		Title:                 s.Title,
		MovieTitle:            s.MovieTitle,
		Genre:                 s.Genre,
		Creator:               s.Creator,
		CreatedAt:             int64(s.CreatedAt),
		TotalContributions:    s.TotalContributions,
		TotalRewards:          rewards,
		IsCompleted:           s.IsCompleted,
		MinContributionLength: s.MinContributionLength,
		MaxContributors:       s.MaxContributors,
		CertificateID:         s.CertificateID,
	}
}

type storedContribution struct {
	ID          uint64
	ArticleID   uint64
	Contributor [20]byte
	Content     string
	Timestamp   uint64
	Likes       uint64
	Rewards     *big.Int
	IsApproved  bool
}

func newStoredContribution(c *articles.Contribution) *storedContribution {
	rewards := big.NewInt(0)
	if c.Rewards != nil {
		rewards.Set(c.Rewards)
	}
	return &storedContribution{
		ID:          c.ID,
		ArticleID:   c.ArticleID,
		Contributor: c.Contributor,
		Content:     c.Content,
		Timestamp:   unixToStored(c.Timestamp),
		Likes:       c.Likes,
		Rewards:     rewards,
		IsApproved:  c.IsApproved,
	}
}

func (s *storedContribution) toContribution() *articles.Contribution {
	rewards := big.NewInt(0)
	if s.Rewards != nil {
		rewards.Set(s.Rewards)
	}
	return &articles.Contribution{
		ID:          s.ID,
		ArticleID:   s.ArticleID,
		Contributor: s.Contributor,
		Content:     s.Content,
		Timestamp:   int64(s.Timestamp),
		Likes:       s.Likes,
		Rewards:     rewards,
		IsApproved:  s.IsApproved,
	}
}

func (m *Manager) readCounter(key []byte) (uint64, error) {
	var count uint64
	if _, err := m.KVGet(key, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (m *Manager) readFlag(key []byte) (bool, error) {
	var flag bool
	ok, err := m.KVGet(key, &flag)
	if err != nil {
		return false, err
	}
	return ok && flag, nil
}

// ArticleGet loads the article with the supplied id.
func (m *Manager) ArticleGet(id uint64) (*articles.Article, bool, error) {
	stored := new(storedArticle)
	ok, err := m.KVGet(prefixed(articlePrefix, idBytes(id)), stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return stored.toArticle(), true, nil
}

// ArticlePut persists article.
func (m *Manager) ArticlePut(article *articles.Article) error {
	if article == nil {
		return fmt.Errorf("articles: nil article")
	}
	return m.KVPut(prefixed(articlePrefix, idBytes(article.ID)), newStoredArticle(article))
}

// ArticleCount returns the number of articles opened so far.
func (m *Manager) ArticleCount() (uint64, error) { return m.readCounter(articleCountKey) }

// SetArticleCount overwrites the article counter.
func (m *Manager) SetArticleCount(count uint64) error { return m.KVPut(articleCountKey, count) }

// ContributionGet loads the contribution with the supplied id.
func (m *Manager) ContributionGet(id uint64) (*articles.Contribution, bool, error) {
	stored := new(storedContribution)
	ok, err := m.KVGet(prefixed(contributionPrefix, idBytes(id)), stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return stored.toContribution(), true, nil
}

// ContributionPut persists contribution.
func (m *Manager) ContributionPut(contribution *articles.Contribution) error {
	if contribution == nil {
		return fmt.Errorf("articles: nil contribution")
	}
	return m.KVPut(prefixed(contributionPrefix, idBytes(contribution.ID)), newStoredContribution(contribution))
}

// ContributionCount returns the number of contributions across all articles.
func (m *Manager) ContributionCount() (uint64, error) {
	return m.readCounter(contributionCountKey)
}

// SetContributionCount overwrites the global contribution counter.
func (m *Manager) SetContributionCount(count uint64) error {
	return m.KVPut(contributionCountKey, count)
}

// ArticleContributionsAppend records contributionID in the article index.
func (m *Manager) ArticleContributionsAppend(articleID, contributionID uint64) error {
	return m.appendID(prefixed(articleContributionPrefix, idBytes(articleID)), contributionID)
}

// ArticleContributions lists the contribution ids of an article in
// submission order.
func (m *Manager) ArticleContributions(articleID uint64) ([]uint64, error) {
	return m.readIDList(prefixed(articleContributionPrefix, idBytes(articleID)))
}

// UserContributionsAppend records contributionID in the contributor index.
func (m *Manager) UserContributionsAppend(addr [20]byte, contributionID uint64) error {
	return m.appendID(prefixed(userContributionPrefix, addr[:]), contributionID)
}

// UserContributions lists the contribution ids submitted by addr.
func (m *Manager) UserContributions(addr [20]byte) ([]uint64, error) {
	return m.readIDList(prefixed(userContributionPrefix, addr[:]))
}

// HasContributed reports whether addr already contributed to the article.
func (m *Manager) HasContributed(articleID uint64, addr [20]byte) (bool, error) {
	return m.readFlag(prefixed(contributedPrefix, idBytes(articleID), addr[:]))
}

// SetContributed marks addr as a contributor of the article.
func (m *Manager) SetContributed(articleID uint64, addr [20]byte) error {
	return m.KVPut(prefixed(contributedPrefix, idBytes(articleID), addr[:]), true)
}

// HasLiked reports whether addr already liked the contribution.
func (m *Manager) HasLiked(contributionID uint64, addr [20]byte) (bool, error) {
	return m.readFlag(prefixed(likedPrefix, idBytes(contributionID), addr[:]))
}

// SetLiked records a like from addr.
func (m *Manager) SetLiked(contributionID uint64, addr [20]byte) error {
	return m.KVPut(prefixed(likedPrefix, idBytes(contributionID), addr[:]), true)
}
