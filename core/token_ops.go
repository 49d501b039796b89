package core

import (
	"context"
	"math/big"

	"moviewrite/native/token"
)

// TokenMint mints reward tokens. The caller must hold the minter role.
func (n *Node) TokenMint(ctx context.Context, caller, to [20]byte, amount *big.Int) error {
	return n.apply(ctx, token.ModuleName, "mint", func(eng *engines) error {
		return eng.token.Mint(caller, to, amount)
	})
}

// TokenBurn destroys reward tokens held by caller.
func (n *Node) TokenBurn(ctx context.Context, caller [20]byte, amount *big.Int) error {
	return n.apply(ctx, token.ModuleName, "burn", func(eng *engines) error {
		return eng.token.Burn(caller, amount)
	})
}

// TokenTransfer moves reward tokens from caller to to.
func (n *Node) TokenTransfer(ctx context.Context, caller, to [20]byte, amount *big.Int) error {
	return n.apply(ctx, token.ModuleName, "transfer", func(eng *engines) error {
		return eng.token.Transfer(caller, to, amount)
	})
}

// TokenApprove sets the allowance caller grants to spender.
func (n *Node) TokenApprove(ctx context.Context, caller, spender [20]byte, amount *big.Int) error {
	return n.apply(ctx, token.ModuleName, "approve", func(eng *engines) error {
		return eng.token.Approve(caller, spender, amount)
	})
}

// TokenTransferFrom moves tokens from owner to to using spender's allowance.
func (n *Node) TokenTransferFrom(ctx context.Context, spender, owner, to [20]byte, amount *big.Int) error {
	return n.apply(ctx, token.ModuleName, "transferFrom", func(eng *engines) error {
		return eng.token.TransferFrom(spender, owner, to, amount)
	})
}
