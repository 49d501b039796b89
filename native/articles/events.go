package articles

import (
	"math/big"
	"strconv"

	"moviewrite/core/events"
	"moviewrite/core/types"
	"moviewrite/crypto"
)

const (
	// EventTypeArticleCreated is emitted when a creator opens an article.
	EventTypeArticleCreated = "article.created"
	// EventTypeContributionAdded is emitted for every accepted contribution.
	EventTypeContributionAdded = "article.contribution.added"
	// EventTypeContributionLiked is emitted when a distinct account likes a contribution.
	EventTypeContributionLiked = "article.contribution.liked"
	// EventTypeContributionApproved is emitted when a curator approves a contribution.
	EventTypeContributionApproved = "article.contribution.approved"
	// EventTypeArticleCompleted is emitted once, when an article is completed.
	EventTypeArticleCompleted = "article.completed"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }

// ArticleCreatedEvent announces a newly opened article.
func ArticleCreatedEvent(article *Article) *types.Event {
	return &types.Event{
		Type: EventTypeArticleCreated,
		Attributes: map[string]string{
			"articleId": formatID(article.ID),
			"creator":   crypto.FormatAccount(article.Creator),
			"title":     article.Title,
		},
	}
}

// ContributionAddedEvent announces an accepted contribution.
func ContributionAddedEvent(c *Contribution) *types.Event {
	return &types.Event{
		Type: EventTypeContributionAdded,
		Attributes: map[string]string{
			"contributionId": formatID(c.ID),
			"articleId":      formatID(c.ArticleID),
			"contributor":    crypto.FormatAccount(c.Contributor),
		},
	}
}

// ContributionLikedEvent records a like.
func ContributionLikedEvent(contributionID uint64, liker [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeContributionLiked,
		Attributes: map[string]string{
			"contributionId": formatID(contributionID),
			"liker":          crypto.FormatAccount(liker),
		},
	}
}

// ContributionApprovedEvent records an approval and the reward paid for it.
func ContributionApprovedEvent(contributionID uint64, reward *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypeContributionApproved,
		Attributes: map[string]string{
			"contributionId": formatID(contributionID),
			"rewardAmount":   copyBig(reward).String(),
		},
	}
}

// ArticleCompletedEvent records completion and the issued certificate.
func ArticleCompletedEvent(article *Article) *types.Event {
	return &types.Event{
		Type: EventTypeArticleCompleted,
		Attributes: map[string]string{
			"articleId":     formatID(article.ID),
			"totalRewards":  copyBig(article.TotalRewards).String(),
			"certificateId": formatID(article.CertificateID),
		},
	}
}
