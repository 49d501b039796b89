package core

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/events"
	"moviewrite/core/genesis"
	"moviewrite/crypto"
	"moviewrite/native/articles"
	"moviewrite/native/certificate"
	"moviewrite/native/common"
	"moviewrite/storage"
)

var (
	adminAccount     = [20]byte{0xad}
	curatorAccount   = [20]byte{0xc0}
	treasuryAccount  = [20]byte{0xfe}
	authorAccount    = [20]byte{0x01}
	collectorAccount = [20]byte{0x02}
)

func testGenesis(t *testing.T) *genesis.Spec {
	t.Helper()
	spec := &genesis.Spec{
		GenesisTime: "2025-01-01T00:00:00Z",
		Token: genesis.TokenSpec{
			Name:          "MovieReward",
			Symbol:        "MRT",
			Decimals:      18,
			InitialSupply: "1000",
			InitialHolder: crypto.FormatAccount(adminAccount),
		},
		Marketplace: genesis.MarketplaceSpec{
			FeeRecipient:      crypto.FormatAccount(treasuryAccount),
			FeeBps:            250,
			DefaultRoyaltyBps: 750,
			MintFee:           "100",
		},
		Alloc: map[string]string{
			crypto.FormatAccount(authorAccount):    "1000",
			crypto.FormatAccount(collectorAccount): "20000",
		},
		Roles: map[string][]string{
			common.RoleAdministrator: {crypto.FormatAccount(adminAccount)},
			common.RoleCurator:       {crypto.FormatAccount(curatorAccount)},
		},
	}
	require.NoError(t, spec.Validate())
	return spec
}

func newTestNode(t *testing.T, db storage.Database) *Node {
	t.Helper()
	node, err := NewNode(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	node.SetNowFunc(func() int64 { return 1_000 })
	return node
}

func bootstrappedNode(t *testing.T) *Node {
	t.Helper()
	node := newTestNode(t, storage.NewMemDB())
	applied, err := node.Bootstrap(context.Background(), testGenesis(t))
	require.NoError(t, err)
	require.True(t, applied)
	return node
}

func requireBalance(t *testing.T, node *Node, addr [20]byte, want int64) {
	t.Helper()
	balance, err := node.BankBalance(addr)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(want).String(), balance.String())
}

func TestBootstrapIsIdempotent(t *testing.T) {
	db := storage.NewMemDB()
	node := newTestNode(t, db)
	ctx := context.Background()

	applied, err := node.Bootstrap(ctx, testGenesis(t))
	require.NoError(t, err)
	require.True(t, applied)

	supply, err := node.TokenSupply()
	require.NoError(t, err)
	require.Equal(t, "1000", supply.String())
	meta, err := node.TokenMetadata()
	require.NoError(t, err)
	require.Equal(t, "MRT", meta.Symbol)
	requireBalance(t, node, collectorAccount, 20_000)

	cfg, err := node.PlatformConfig()
	require.NoError(t, err)
	require.Equal(t, treasuryAccount, cfg.FeeRecipient)
	require.Equal(t, uint32(250), cfg.FeeBps)

	restarted := newTestNode(t, db)
	applied, err = restarted.Bootstrap(ctx, testGenesis(t))
	require.NoError(t, err)
	require.False(t, applied)
	supply, err = restarted.TokenSupply()
	require.NoError(t, err)
	require.Equal(t, "1000", supply.String())
}

func TestTokenFlows(t *testing.T) {
	node := bootstrappedNode(t)
	ctx := context.Background()

	require.NoError(t, node.TokenTransfer(ctx, adminAccount, authorAccount, big.NewInt(400)))
	require.NoError(t, node.TokenApprove(ctx, authorAccount, collectorAccount, big.NewInt(150)))
	require.NoError(t, node.TokenTransferFrom(ctx, collectorAccount, authorAccount, collectorAccount, big.NewInt(100)))

	balance, err := node.TokenBalance(authorAccount)
	require.NoError(t, err)
	require.Equal(t, "300", balance.String())
	allowance, err := node.TokenAllowance(authorAccount, collectorAccount)
	require.NoError(t, err)
	require.Equal(t, "50", allowance.String())

	require.NoError(t, node.TokenBurn(ctx, collectorAccount, big.NewInt(40)))
	supply, err := node.TokenSupply()
	require.NoError(t, err)
	require.Equal(t, "960", supply.String())

	err = node.TokenMint(ctx, adminAccount, adminAccount, big.NewInt(1))
	require.ErrorIs(t, err, ledgererr.ErrUnauthorized)
}

func TestArticleLifecycleIssuesCertificate(t *testing.T) {
	node := bootstrappedNode(t)
	ctx := context.Background()

	article, err := node.OpenArticle(ctx, authorAccount, articles.OpenParams{
		Title:                 "Notes on Solaris",
		MovieTitle:            "Solaris",
		Genre:                 "science fiction",
		MinContributionLength: 5,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), article.ID)

	contribution, err := node.AddContribution(ctx, collectorAccount, article.ID, "The ocean remembers.")
	require.NoError(t, err)
	_, err = node.AddContribution(ctx, collectorAccount, article.ID, "Again and again.")
	require.ErrorIs(t, err, ledgererr.ErrAlreadyExists)

	liked, err := node.LikeContribution(ctx, authorAccount, contribution.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(1), liked.Likes)

	_, err = node.ApproveContribution(ctx, authorAccount, contribution.ID, big.NewInt(50))
	require.ErrorIs(t, err, ledgererr.ErrUnauthorized)
	approved, err := node.ApproveContribution(ctx, curatorAccount, contribution.ID, big.NewInt(50))
	require.NoError(t, err)
	require.True(t, approved.IsApproved)

	reward, err := node.TokenBalance(collectorAccount)
	require.NoError(t, err)
	require.Equal(t, "50", reward.String())
	supply, err := node.TokenSupply()
	require.NoError(t, err)
	require.Equal(t, "1050", supply.String())

	completed, err := node.CompleteArticle(ctx, curatorAccount, article.ID)
	require.NoError(t, err)
	require.True(t, completed.IsCompleted)
	require.Equal(t, uint64(1), completed.CertificateID)
	require.Equal(t, "50", completed.TotalRewards.String())

	cert, err := node.Certificate(completed.CertificateID)
	require.NoError(t, err)
	require.Equal(t, authorAccount, cert.Owner)
	require.Equal(t, []string{"science fiction"}, cert.Categories)
	owned, err := node.AuthorCertificates(authorAccount)
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, owned)
	ok, err := node.VerifyContent(cert.ID, cert.ContentHash)
	require.NoError(t, err)
	require.True(t, ok)

	ids, err := node.ArticleContributions(article.ID)
	require.NoError(t, err)
	require.Equal(t, []uint64{contribution.ID}, ids)
	totalArticles, totalContributions, err := node.ArticleTotals()
	require.NoError(t, err)
	require.Equal(t, uint64(1), totalArticles)
	require.Equal(t, uint64(1), totalContributions)

	_, err = node.AddContribution(ctx, adminAccount, article.ID, "Too late to join.")
	require.ErrorIs(t, err, ledgererr.ErrInvalidParameter)
}

func TestCompletionHashCannotBeSquatted(t *testing.T) {
	node := bootstrappedNode(t)
	ctx := context.Background()

	article, err := node.OpenArticle(ctx, authorAccount, articles.OpenParams{Title: "  ", MovieTitle: "Mirror", Genre: " "})
	require.NoError(t, err)
	_, err = node.AddContribution(ctx, collectorAccount, article.ID, "Childhood, burning.")
	require.NoError(t, err)

	stored, err := node.Article(article.ID)
	require.NoError(t, err)
	ids, err := node.ArticleContributions(article.ID)
	require.NoError(t, err)
	hash, err := articles.ContentHash(stored, ids)
	require.NoError(t, err)

	_, err = node.MintCertificate(ctx, collectorAccount, certificate.MintRequest{
		To:          collectorAccount,
		Title:       "Squatted",
		ContentHash: hash,
	}, big.NewInt(100))
	require.ErrorIs(t, err, ledgererr.ErrUnauthorized)
	requireBalance(t, node, collectorAccount, 20_000)

	completed, err := node.CompleteArticle(ctx, curatorAccount, article.ID)
	require.NoError(t, err)
	cert, err := node.Certificate(completed.CertificateID)
	require.NoError(t, err)
	require.Equal(t, authorAccount, cert.Owner)
	require.Equal(t, hash, cert.ContentHash)
	require.Equal(t, "Article #1", cert.Title)
	require.Empty(t, cert.Categories)
}

func TestMarketplaceSale(t *testing.T) {
	node := bootstrappedNode(t)
	ctx := context.Background()

	cert, err := node.MintCertificate(ctx, authorAccount, certificate.MintRequest{
		To:          authorAccount,
		Title:       "Stalker, a reading",
		ContentHash: "QmStalker",
		Categories:  []string{"essay"},
	}, big.NewInt(100))
	require.NoError(t, err)
	requireBalance(t, node, authorAccount, 900)
	requireBalance(t, node, treasuryAccount, 100)

	_, err = node.ListForSale(ctx, authorAccount, cert.ID, big.NewInt(10_000), 2_000)
	require.NoError(t, err)
	receiver, royalty, err := node.RoyaltyInfo(cert.ID, big.NewInt(10_000))
	require.NoError(t, err)
	require.Equal(t, authorAccount, receiver)
	require.Equal(t, "750", royalty.String())

	sale, err := node.BuyCertificate(ctx, collectorAccount, cert.ID, big.NewInt(10_000))
	require.NoError(t, err)
	require.Equal(t, "250", sale.PlatformFee.String())
	require.Equal(t, "9000", sale.SellerProceeds.String())

	requireBalance(t, node, collectorAccount, 10_000)
	requireBalance(t, node, authorAccount, 900+750+9_000)
	requireBalance(t, node, treasuryAccount, 100+250)

	owned, err := node.Certificate(cert.ID)
	require.NoError(t, err)
	require.Equal(t, collectorAccount, owned.Owner)
	require.Equal(t, authorAccount, owned.Author)
	listing, err := node.SaleInfo(cert.ID)
	require.NoError(t, err)
	require.False(t, listing.IsForSale)
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	node := bootstrappedNode(t)
	ctx := context.Background()

	before, err := node.EventsList(1, 0)
	require.NoError(t, err)

	_, err = node.MintCertificateBatch(ctx, adminAccount, []certificate.MintRequest{
		{To: authorAccount, Title: "First", ContentHash: "QmDup"},
		{To: collectorAccount, Title: "Second", ContentHash: "QmDup"},
	})
	require.ErrorIs(t, err, ledgererr.ErrAlreadyExists)

	supply, err := node.CertificateSupply()
	require.NoError(t, err)
	require.Zero(t, supply)
	_, err = node.Certificate(1)
	require.ErrorIs(t, err, ledgererr.ErrNotFound)

	err = node.TokenTransfer(ctx, collectorAccount, authorAccount, big.NewInt(1))
	require.ErrorIs(t, err, ledgererr.ErrInsufficientFunds)

	after, err := node.EventsList(1, 0)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestEventLogChainsEntries(t *testing.T) {
	node := bootstrappedNode(t)
	ctx := context.Background()

	require.NoError(t, node.TokenTransfer(ctx, adminAccount, authorAccount, big.NewInt(5)))
	_, err := node.OpenArticle(ctx, authorAccount, articles.OpenParams{Title: "Alien"})
	require.NoError(t, err)

	entries, err := node.EventsList(0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, events.TypeTokenTransfer, entries[1].Type)
	require.Equal(t, articles.EventTypeArticleCreated, entries[2].Type)
	for i, entry := range entries {
		require.Equal(t, uint64(i+1), entry.Seq)
		require.NoError(t, entry.Verify())
		if i > 0 {
			require.Equal(t, entries[i-1].Hash, entry.PrevHash)
		}
	}

	page, err := node.EventsList(2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, uint64(2), page[0].Seq)
}

func TestEventsSubscribeBacklogAndLive(t *testing.T) {
	db := storage.NewMemDB()
	node := newTestNode(t, db)
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()
	_, err := node.Bootstrap(ctx, testGenesis(t))
	require.NoError(t, err)
	require.NoError(t, node.TokenTransfer(ctx, adminAccount, authorAccount, big.NewInt(5)))

	// A restarted node has no in-memory history; the backlog comes from disk.
	restarted := newTestNode(t, db)
	updates, cancel, backlog, err := restarted.EventsSubscribe(ctx, "1")
	require.NoError(t, err)
	defer cancel()
	require.Len(t, backlog, 1)
	require.Equal(t, uint64(2), backlog[0].Seq)

	require.NoError(t, restarted.TokenTransfer(ctx, authorAccount, collectorAccount, big.NewInt(2)))
	select {
	case entry := <-updates:
		require.Equal(t, uint64(3), entry.Seq)
		require.Equal(t, events.TypeTokenTransfer, entry.Type)
		value, ok := entry.Attr("amount")
		require.True(t, ok)
		require.Equal(t, "2", value)
	case <-time.After(time.Second):
		t.Fatal("expected live entry")
	}

	_, _, _, err = restarted.EventsSubscribe(ctx, "latest")
	require.Error(t, err)
}
