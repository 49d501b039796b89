package certificate

import (
	"strconv"

	"moviewrite/core/events"
	"moviewrite/core/types"
	"moviewrite/crypto"
)

const (
	// EventTypeCertificateMinted is emitted for every new certificate.
	EventTypeCertificateMinted = "certificate.minted"
	// EventTypeCertificateTransferred is emitted when ownership moves outside a sale.
	EventTypeCertificateTransferred = "certificate.transferred"
	// EventTypeCertificateLocked is emitted when the transfer lock changes.
	EventTypeCertificateLocked = "certificate.lock.updated"
	// EventTypeCertificateUpdated is emitted when descriptive metadata changes.
	EventTypeCertificateUpdated = "certificate.updated"
	// EventTypeCertificateListed is emitted when an owner lists a certificate.
	EventTypeCertificateListed = "certificate.listed"
	// EventTypeCertificateSaleCancelled is emitted when a listing is withdrawn.
	EventTypeCertificateSaleCancelled = "certificate.sale.cancelled"
	// EventTypeCertificateSold is emitted when a sale settles.
	EventTypeCertificateSold = "certificate.sold"
	// EventTypeRoyaltiesDistributed reports the split of a settled sale.
	EventTypeRoyaltiesDistributed = "certificate.royalties.distributed"
	// EventTypePlatformConfigUpdated is emitted on every administrative change.
	EventTypePlatformConfigUpdated = "certificate.config.updated"
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

func CertificateMintedEvent(cert *Certificate) *types.Event {
	return &types.Event{
		Type: EventTypeCertificateMinted,
		Attributes: map[string]string{
			"certificateId": formatID(cert.ID),
			"author":        crypto.FormatAccount(cert.Author),
			"owner":         crypto.FormatAccount(cert.Owner),
			"contentHash":   cert.ContentHash,
		},
	}
}

func CertificateTransferredEvent(id uint64, from, to [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeCertificateTransferred,
		Attributes: map[string]string{
			"certificateId": formatID(id),
			"from":          crypto.FormatAccount(from),
			"to":            crypto.FormatAccount(to),
		},
	}
}

func CertificateLockEvent(id uint64, locked bool) *types.Event {
	return &types.Event{
		Type: EventTypeCertificateLocked,
		Attributes: map[string]string{
			"certificateId": formatID(id),
			"locked":        strconv.FormatBool(locked),
		},
	}
}

func CertificateUpdatedEvent(cert *Certificate) *types.Event {
	return &types.Event{
		Type: EventTypeCertificateUpdated,
		Attributes: map[string]string{
			"certificateId": formatID(cert.ID),
			"title":         cert.Title,
			"status":        cert.Status.String(),
			"views":         strconv.FormatUint(cert.Views, 10),
			"likes":         strconv.FormatUint(cert.Likes, 10),
		},
	}
}

func CertificateListedEvent(listing *Listing) *types.Event {
	return &types.Event{
		Type: EventTypeCertificateListed,
		Attributes: map[string]string{
			"certificateId": formatID(listing.CertificateID),
			"seller":        crypto.FormatAccount(listing.Seller),
			"price":         copyBig(listing.Price).String(),
			"deadline":      strconv.FormatInt(listing.Deadline, 10),
		},
	}
}

func CertificateSaleCancelledEvent(id uint64) *types.Event {
	return &types.Event{
		Type: EventTypeCertificateSaleCancelled,
		Attributes: map[string]string{
			"certificateId": formatID(id),
		},
	}
}

func CertificateSoldEvent(sale *Sale) *types.Event {
	return &types.Event{
		Type: EventTypeCertificateSold,
		Attributes: map[string]string{
			"certificateId": formatID(sale.CertificateID),
			"seller":        crypto.FormatAccount(sale.Seller),
			"buyer":         crypto.FormatAccount(sale.Buyer),
			"price":         copyBig(sale.Price).String(),
		},
	}
}

func RoyaltiesDistributedEvent(sale *Sale) *types.Event {
	return &types.Event{
		Type: EventTypeRoyaltiesDistributed,
		Attributes: map[string]string{
			"certificateId":  formatID(sale.CertificateID),
			"price":          copyBig(sale.Price).String(),
			"platformFee":    copyBig(sale.PlatformFee).String(),
			"royalty":        copyBig(sale.Royalty).String(),
			"sellerProceeds": copyBig(sale.SellerProceeds).String(),
			"royaltyWaived":  strconv.FormatBool(sale.RoyaltyWaived),
		},
	}
}

func PlatformConfigUpdatedEvent(field, value string) *types.Event {
	return &types.Event{
		Type: EventTypePlatformConfigUpdated,
		Attributes: map[string]string{
			"field": field,
			"value": value,
		},
	}
}
