package rpc

func (s *Server) registerMethods() map[string]method {
	read := func(h handlerFunc) method { return method{handle: h} }
	write := func(h handlerFunc) method { return method{handle: h, write: true} }
	return map[string]method{
		"token_metadata":     read(s.handleTokenMetadata),
		"token_balanceOf":    read(s.handleTokenBalanceOf),
		"token_allowance":    read(s.handleTokenAllowance),
		"token_totalSupply":  read(s.handleTokenTotalSupply),
		"token_mint":         write(s.handleTokenMint),
		"token_burn":         write(s.handleTokenBurn),
		"token_transfer":     write(s.handleTokenTransfer),
		"token_approve":      write(s.handleTokenApprove),
		"token_transferFrom": write(s.handleTokenTransferFrom),

		"article_open":           write(s.handleArticleOpen),
		"article_complete":       write(s.handleArticleComplete),
		"article_get":            read(s.handleArticleGet),
		"article_totals":         read(s.handleArticleTotals),
		"article_contributions":  read(s.handleArticleContributions),
		"article_hasContributed": read(s.handleArticleHasContributed),

		"contribution_add":      write(s.handleContributionAdd),
		"contribution_like":     write(s.handleContributionLike),
		"contribution_approve":  write(s.handleContributionApprove),
		"contribution_get":      read(s.handleContributionGet),
		"contribution_byUser":   read(s.handleContributionByUser),
		"contribution_hasLiked": read(s.handleContributionHasLiked),

		"certificate_mint":            write(s.handleCertificateMint),
		"certificate_mintBatch":       write(s.handleCertificateMintBatch),
		"certificate_transfer":        write(s.handleCertificateTransfer),
		"certificate_setTransferLock": write(s.handleCertificateSetTransferLock),
		"certificate_update":          write(s.handleCertificateUpdate),
		"certificate_updateStats":     write(s.handleCertificateUpdateStats),
		"certificate_get":             read(s.handleCertificateGet),
		"certificate_totalSupply":     read(s.handleCertificateTotalSupply),
		"certificate_byAuthor":        read(s.handleCertificateByAuthor),
		"certificate_verifyContent":   read(s.handleCertificateVerifyContent),
		"certificate_metadata":        read(s.handleCertificateMetadata),

		"market_list":        write(s.handleMarketList),
		"market_cancel":      write(s.handleMarketCancel),
		"market_buy":         write(s.handleMarketBuy),
		"market_royaltyInfo": read(s.handleMarketRoyaltyInfo),
		"market_saleInfo":    read(s.handleMarketSaleInfo),
		"market_config":      read(s.handleMarketConfig),

		"admin_setPlatformFee":    write(s.handleAdminSetPlatformFee),
		"admin_setDefaultRoyalty": write(s.handleAdminSetDefaultRoyalty),
		"admin_setMintFee":        write(s.handleAdminSetMintFee),
		"admin_setPublicMint":     write(s.handleAdminSetPublicMint),
		"admin_setFeeRecipient":   write(s.handleAdminSetFeeRecipient),
		"admin_emergencyLock":     write(s.handleAdminEmergencyLock),

		"bank_balance": read(s.handleBankBalance),
		"events_list":  read(s.handleEventsList),
	}
}
