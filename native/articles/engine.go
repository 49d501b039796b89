package articles

import (
	"math/big"
	"time"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/events"
	"moviewrite/core/types"
	"moviewrite/native/common"
)

// ModuleName identifies the contribution ledger in errors, events and metrics.
const ModuleName = "articles"

var (
	errNilState             = ledgererr.New(ledgererr.KindUnknown, ModuleName, "state not configured")
	errArticleNotFound      = ledgererr.New(ledgererr.KindNotFound, ModuleName, "article not found")
	errContributionNotFound = ledgererr.New(ledgererr.KindNotFound, ModuleName, "contribution not found")
	errDuplicateContributor = ledgererr.New(ledgererr.KindAlreadyExists, ModuleName, "you have already contributed to this article")
	errContentTooShort      = ledgererr.New(ledgererr.KindInsufficientInput, ModuleName, "content too short")
	errArticleCompleted     = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "article already completed")
	errContributorLimit     = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "article has reached its contributor limit")
	errSelfLike             = ledgererr.New(ledgererr.KindAlreadySettled, ModuleName, "cannot like your own contribution")
	errDuplicateLike        = ledgererr.New(ledgererr.KindAlreadySettled, ModuleName, "you have already liked this")
	errAlreadyApproved      = ledgererr.New(ledgererr.KindAlreadySettled, ModuleName, "contribution already approved")
	errNegativeReward       = ledgererr.New(ledgererr.KindInvalidParameter, ModuleName, "reward must not be negative")
	errNoContributions      = ledgererr.New(ledgererr.KindInsufficientInput, ModuleName, "article has no contributions")
	errAlreadyCompleted     = ledgererr.New(ledgererr.KindAlreadySettled, ModuleName, "article already completed")
	errRewardsNotConfigured = ledgererr.New(ledgererr.KindUnknown, ModuleName, "reward minter not configured")
	errIssuerNotConfigured  = ledgererr.New(ledgererr.KindUnknown, ModuleName, "certificate issuer not configured")
)

type engineState interface {
	ArticleGet(id uint64) (*Article, bool, error)
	ArticlePut(article *Article) error
	ArticleCount() (uint64, error)
	SetArticleCount(count uint64) error
	ContributionGet(id uint64) (*Contribution, bool, error)
	ContributionPut(contribution *Contribution) error
	ContributionCount() (uint64, error)
	SetContributionCount(count uint64) error
	ArticleContributionsAppend(articleID, contributionID uint64) error
	ArticleContributions(articleID uint64) ([]uint64, error)
	UserContributionsAppend(addr [20]byte, contributionID uint64) error
	UserContributions(addr [20]byte) ([]uint64, error)
	HasContributed(articleID uint64, addr [20]byte) (bool, error)
	SetContributed(articleID uint64, addr [20]byte) error
	HasLiked(contributionID uint64, addr [20]byte) (bool, error)
	SetLiked(contributionID uint64, addr [20]byte) error
	HasRole(role string, addr [20]byte) bool
}

// RewardMinter pays approved contributions.
type RewardMinter interface {
	Mint(caller, to [20]byte, amount *big.Int) error
}

// CertificateIssuer mints the completion certificate of an article.
type CertificateIssuer interface {
	IssueCompletion(to [20]byte, title, contentHash string, categories []string) (uint64, error)
}

// Engine implements the contribution ledger.
type Engine struct {
	state         engineState
	emitter       events.Emitter
	nowFn         func() int64
	rewards       RewardMinter
	certificates  CertificateIssuer
	moduleAccount [20]byte
}

// NewEngine constructs an articles engine with default dependencies.
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

// SetRewardMinter wires the token ledger used for reward payouts. The module
// account is the caller presented to the minter and must hold the minter
// role.
func (e *Engine) SetRewardMinter(minter RewardMinter, moduleAccount [20]byte) {
	e.rewards = minter
	e.moduleAccount = moduleAccount
}

// SetCertificateIssuer wires the marketplace that mints completion
// certificates.
func (e *Engine) SetCertificateIssuer(issuer CertificateIssuer) { e.certificates = issuer }

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

func (e *Engine) loadArticle(id uint64) (*Article, error) {
	article, ok, err := e.state.ArticleGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || article == nil {
		return nil, errArticleNotFound
	}
	if article.TotalRewards == nil {
		article.TotalRewards = big.NewInt(0)
	}
	return article, nil
}

func (e *Engine) loadContribution(id uint64) (*Contribution, error) {
	contribution, ok, err := e.state.ContributionGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || contribution == nil {
		return nil, errContributionNotFound
	}
	if contribution.Rewards == nil {
		contribution.Rewards = big.NewInt(0)
	}
	return contribution, nil
}

// OpenArticle creates a new article owned by creator. Ids are sequential and
// start at 1. Empty titles are accepted.
func (e *Engine) OpenArticle(creator [20]byte, params OpenParams) (*Article, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	count, err := e.state.ArticleCount()
	if err != nil {
		return nil, err
	}
	article := &Article{
		ID:                    count + 1,
		Title:                 params.Title,
		MovieTitle:            params.MovieTitle,
		Genre:                 params.Genre,
		Creator:               creator,
		CreatedAt:             e.now(),
		TotalRewards:          big.NewInt(0),
		MinContributionLength: params.MinContributionLength,
		MaxContributors:       params.MaxContributors,
	}
	if err := e.state.ArticlePut(article); err != nil {
		return nil, err
	}
	if err := e.state.SetArticleCount(article.ID); err != nil {
		return nil, err
	}
	e.emit(ArticleCreatedEvent(article))
	return article.Clone(), nil
}

// AddContribution records contributor's submission to an article. Each
// account may contribute to a given article once.
func (e *Engine) AddContribution(contributor [20]byte, articleID uint64, content string) (*Contribution, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	article, err := e.loadArticle(articleID)
	if err != nil {
		return nil, err
	}
	if article.IsCompleted {
		return nil, errArticleCompleted
	}
	contributed, err := e.state.HasContributed(articleID, contributor)
	if err != nil {
		return nil, err
	}
	if contributed {
		return nil, errDuplicateContributor
	}
	if uint64(len(content)) < article.MinContributionLength {
		return nil, errContentTooShort
	}
	if article.MaxContributors > 0 && article.TotalContributions >= article.MaxContributors {
		return nil, errContributorLimit
	}
	count, err := e.state.ContributionCount()
	if err != nil {
		return nil, err
	}
	contribution := &Contribution{
		ID:          count + 1,
		ArticleID:   articleID,
		Contributor: contributor,
		Content:     content,
		Timestamp:   e.now(),
		Rewards:     big.NewInt(0),
	}
	article.TotalContributions++
	if err := e.state.ContributionPut(contribution); err != nil {
		return nil, err
	}
	if err := e.state.SetContributionCount(contribution.ID); err != nil {
		return nil, err
	}
	if err := e.state.SetContributed(articleID, contributor); err != nil {
		return nil, err
	}
	if err := e.state.ArticleContributionsAppend(articleID, contribution.ID); err != nil {
		return nil, err
	}
	if err := e.state.UserContributionsAppend(contributor, contribution.ID); err != nil {
		return nil, err
	}
	if err := e.state.ArticlePut(article); err != nil {
		return nil, err
	}
	e.emit(ContributionAddedEvent(contribution))
	return contribution.Clone(), nil
}

// LikeContribution counts one like from liker. Contributors cannot like
// their own work and each account likes a contribution at most once.
func (e *Engine) LikeContribution(liker [20]byte, contributionID uint64) (*Contribution, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	contribution, err := e.loadContribution(contributionID)
	if err != nil {
		return nil, err
	}
	if contribution.Contributor == liker {
		return nil, errSelfLike
	}
	liked, err := e.state.HasLiked(contributionID, liker)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, errDuplicateLike
	}
	contribution.Likes++
	if err := e.state.SetLiked(contributionID, liker); err != nil {
		return nil, err
	}
	if err := e.state.ContributionPut(contribution); err != nil {
		return nil, err
	}
	e.emit(ContributionLikedEvent(contributionID, liker))
	return contribution.Clone(), nil
}

// ApproveContribution marks a contribution approved and mints reward to its
// contributor. Only curators may approve and a contribution is approved at
// most once.
func (e *Engine) ApproveContribution(curator [20]byte, contributionID uint64, reward *big.Int) (*Contribution, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.RequireRole(e.state, ModuleName, common.RoleCurator, curator); err != nil {
		return nil, err
	}
	if reward == nil {
		reward = big.NewInt(0)
	}
	if reward.Sign() < 0 {
		return nil, errNegativeReward
	}
	contribution, err := e.loadContribution(contributionID)
	if err != nil {
		return nil, err
	}
	if contribution.IsApproved {
		return nil, errAlreadyApproved
	}
	article, err := e.loadArticle(contribution.ArticleID)
	if err != nil {
		return nil, err
	}
	if reward.Sign() > 0 {
		if e.rewards == nil {
			return nil, errRewardsNotConfigured
		}
		if err := e.rewards.Mint(e.moduleAccount, contribution.Contributor, reward); err != nil {
			return nil, err
		}
	}
	contribution.IsApproved = true
	contribution.Rewards = new(big.Int).Set(reward)
	article.TotalRewards = new(big.Int).Add(article.TotalRewards, reward)
	if err := e.state.ContributionPut(contribution); err != nil {
		return nil, err
	}
	if err := e.state.ArticlePut(article); err != nil {
		return nil, err
	}
	e.emit(ContributionApprovedEvent(contributionID, reward))
	return contribution.Clone(), nil
}

// CompleteArticle closes an article and issues its completion certificate to
// the creator. Completion is terminal.
func (e *Engine) CompleteArticle(curator [20]byte, articleID uint64) (*Article, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.RequireRole(e.state, ModuleName, common.RoleCurator, curator); err != nil {
		return nil, err
	}
	article, err := e.loadArticle(articleID)
	if err != nil {
		return nil, err
	}
	if article.IsCompleted {
		return nil, errAlreadyCompleted
	}
	if article.TotalContributions == 0 {
		return nil, errNoContributions
	}
	if e.certificates == nil {
		return nil, errIssuerNotConfigured
	}
	ids, err := e.state.ArticleContributions(articleID)
	if err != nil {
		return nil, err
	}
	hash, err := ContentHash(article, ids)
	if err != nil {
		return nil, err
	}
	certificateID, err := e.certificates.IssueCompletion(article.Creator, CompletionTitle(article), hash, completionCategories(article.Genre))
	if err != nil {
		return nil, err
	}
	article.IsCompleted = true
	article.CertificateID = certificateID
	if err := e.state.ArticlePut(article); err != nil {
		return nil, err
	}
	e.emit(ArticleCompletedEvent(article))
	return article.Clone(), nil
}

// Article returns the article with the supplied id.
func (e *Engine) Article(id uint64) (*Article, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.loadArticle(id)
}

// Contribution returns the contribution with the supplied id.
func (e *Engine) Contribution(id uint64) (*Contribution, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.loadContribution(id)
}

// TotalArticles returns the number of articles opened so far.
func (e *Engine) TotalArticles() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.ArticleCount()
}

// TotalContributions returns the number of contributions across all
// articles.
func (e *Engine) TotalContributions() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.ContributionCount()
}

// ArticleContributions lists contribution ids of an article in submission
// order.
func (e *Engine) ArticleContributions(articleID uint64) ([]uint64, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if _, err := e.loadArticle(articleID); err != nil {
		return nil, err
	}
	return e.state.ArticleContributions(articleID)
}

// UserContributions lists the contribution ids submitted by addr.
func (e *Engine) UserContributions(addr [20]byte) ([]uint64, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.UserContributions(addr)
}

// HasContributed reports whether addr contributed to the article.
func (e *Engine) HasContributed(articleID uint64, addr [20]byte) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.HasContributed(articleID, addr)
}

// HasLiked reports whether addr liked the contribution.
func (e *Engine) HasLiked(contributionID uint64, addr [20]byte) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.HasLiked(contributionID, addr)
}
