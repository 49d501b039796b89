package articles

import "math/big"

// Article is a collaborative writing project. Contributions are accepted until
// a curator completes it.
type Article struct {
	ID                    uint64
	Title                 string
	MovieTitle            string
	Genre                 string
	Creator               [20]byte
	CreatedAt             int64
	TotalContributions    uint64
	TotalRewards          *big.Int
	IsCompleted           bool
	MinContributionLength uint64
	MaxContributors       uint64
	// CertificateID is set once the completion certificate is issued.
	CertificateID uint64
}

// Contribution is one participant's submission to an article.
type Contribution struct {
	ID          uint64
	ArticleID   uint64
	Contributor [20]byte
	Content     string
	Timestamp   int64
	Likes       uint64
	Rewards     *big.Int
	IsApproved  bool
}

// OpenParams carries the creator-supplied fields of a new article.
type OpenParams struct {
	Title                 string
	MovieTitle            string
	Genre                 string
	MinContributionLength uint64
	MaxContributors       uint64
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	out := *a
	out.TotalRewards = copyBig(a.TotalRewards)
	return &out
}

// Clone returns a deep copy of the contribution.
func (c *Contribution) Clone() *Contribution {
	if c == nil {
		return nil
	}
	out := *c
	out.Rewards = copyBig(c.Rewards)
	return &out
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
