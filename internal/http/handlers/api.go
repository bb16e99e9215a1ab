package handlers

import "gameslibrary/internal/services"

// API bundles the services behind the HTTP handlers.
type API struct {
	Games     services.GameService
	Reviews   services.ReviewService
	Purchases services.PurchaseService
	Receipts  services.ReceiptService
	Accounts  services.AccountService
	Recovery  services.RecoveryService
}
