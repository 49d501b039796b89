package core

import (
	"context"
	"math/big"

	"moviewrite/native/certificate"
	"moviewrite/observability/metrics"
)

// MintCertificate mints a certificate, charging the mint fee to
// non-administrators.
func (n *Node) MintCertificate(ctx context.Context, caller [20]byte, req certificate.MintRequest, payment *big.Int) (*certificate.Certificate, error) {
	var out *certificate.Certificate
	err := n.apply(ctx, certificate.ModuleName, "mint", func(eng *engines) error {
		cert, err := eng.certificates.Mint(caller, req, payment)
		out = cert
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Marketplace().ObserveMint("mint", 1)
	return out, nil
}

// MintCertificateBatch mints every request or none of them.
func (n *Node) MintCertificateBatch(ctx context.Context, caller [20]byte, reqs []certificate.MintRequest) ([]*certificate.Certificate, error) {
	var out []*certificate.Certificate
	err := n.apply(ctx, certificate.ModuleName, "mintBatch", func(eng *engines) error {
		certs, err := eng.certificates.MintBatch(caller, reqs)
		out = certs
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Marketplace().ObserveMint("batch", len(out))
	return out, nil
}

// TransferCertificate moves a certificate outside the marketplace.
func (n *Node) TransferCertificate(ctx context.Context, caller, from, to [20]byte, id uint64) (*certificate.Certificate, error) {
	var out *certificate.Certificate
	err := n.apply(ctx, certificate.ModuleName, "transfer", func(eng *engines) error {
		cert, err := eng.certificates.Transfer(caller, from, to, id)
		out = cert
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetTransferLock freezes or unfreezes a certificate owned by caller.
func (n *Node) SetTransferLock(ctx context.Context, caller [20]byte, id uint64, locked bool) error {
	return n.apply(ctx, certificate.ModuleName, "setTransferLock", func(eng *engines) error {
		return eng.certificates.SetTransferLock(caller, id, locked)
	})
}

// EmergencyLockTransfers locks certificates on behalf of an administrator.
func (n *Node) EmergencyLockTransfers(ctx context.Context, caller [20]byte, ids []uint64) error {
	return n.apply(ctx, certificate.ModuleName, "emergencyLockTransfers", func(eng *engines) error {
		return eng.certificates.EmergencyLockTransfers(caller, ids)
	})
}

// UpdateCertificate changes the title and status of a certificate.
func (n *Node) UpdateCertificate(ctx context.Context, caller [20]byte, id uint64, title string, status certificate.Status) (*certificate.Certificate, error) {
	var out *certificate.Certificate
	err := n.apply(ctx, certificate.ModuleName, "updateCertificate", func(eng *engines) error {
		cert, err := eng.certificates.UpdateCertificate(caller, id, title, status)
		out = cert
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCertificateStats overwrites the view and like counters.
func (n *Node) UpdateCertificateStats(ctx context.Context, caller [20]byte, id uint64, views, likes uint64) (*certificate.Certificate, error) {
	var out *certificate.Certificate
	err := n.apply(ctx, certificate.ModuleName, "updateStats", func(eng *engines) error {
		cert, err := eng.certificates.UpdateStats(caller, id, views, likes)
		out = cert
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListForSale lists a certificate owned by caller.
func (n *Node) ListForSale(ctx context.Context, caller [20]byte, id uint64, price *big.Int, deadline int64) (*certificate.Listing, error) {
	var out *certificate.Listing
	err := n.apply(ctx, certificate.ModuleName, "listForSale", func(eng *engines) error {
		listing, err := eng.certificates.ListForSale(caller, id, price, deadline)
		out = listing
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CancelSale withdraws an active listing.
func (n *Node) CancelSale(ctx context.Context, caller [20]byte, id uint64) error {
	return n.apply(ctx, certificate.ModuleName, "cancelSale", func(eng *engines) error {
		return eng.certificates.CancelSale(caller, id)
	})
}

// BuyCertificate settles the listing of a certificate.
func (n *Node) BuyCertificate(ctx context.Context, buyer [20]byte, id uint64, payment *big.Int) (*certificate.Sale, error) {
	var out *certificate.Sale
	err := n.apply(ctx, certificate.ModuleName, "buy", func(eng *engines) error {
		sale, err := eng.certificates.Buy(buyer, id, payment)
		out = sale
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Marketplace().ObserveSale(out.Price, out.PlatformFee, out.Royalty, out.RoyaltyWaived)
	return out, nil
}

// SetPlatformFeeBps changes the platform fee.
func (n *Node) SetPlatformFeeBps(ctx context.Context, caller [20]byte, bps uint32) error {
	return n.apply(ctx, certificate.ModuleName, "setPlatformFeeBps", func(eng *engines) error {
		return eng.certificates.SetPlatformFeeBps(caller, bps)
	})
}

// SetDefaultRoyaltyBps changes the royalty applied to future mints.
func (n *Node) SetDefaultRoyaltyBps(ctx context.Context, caller [20]byte, bps uint32) error {
	return n.apply(ctx, certificate.ModuleName, "setDefaultRoyaltyBps", func(eng *engines) error {
		return eng.certificates.SetDefaultRoyaltyBps(caller, bps)
	})
}

// SetMintFee changes the public mint fee.
func (n *Node) SetMintFee(ctx context.Context, caller [20]byte, amount *big.Int) error {
	return n.apply(ctx, certificate.ModuleName, "setMintFee", func(eng *engines) error {
		return eng.certificates.SetMintFee(caller, amount)
	})
}

// SetPublicMintEnabled toggles public minting.
func (n *Node) SetPublicMintEnabled(ctx context.Context, caller [20]byte, enabled bool) error {
	return n.apply(ctx, certificate.ModuleName, "setPublicMintEnabled", func(eng *engines) error {
		return eng.certificates.SetPublicMintEnabled(caller, enabled)
	})
}

// SetFeeRecipient changes the account receiving fees.
func (n *Node) SetFeeRecipient(ctx context.Context, caller, recipient [20]byte) error {
	return n.apply(ctx, certificate.ModuleName, "setFeeRecipient", func(eng *engines) error {
		return eng.certificates.SetFeeRecipient(caller, recipient)
	})
}
