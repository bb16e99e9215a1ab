package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/logger"
	"gameslibrary/internal/utils"

	"github.com/phpdave11/gofpdf"
)

type UserFinder interface {
	FindByID(ctx context.Context, id int64) (models.Identity, error)
}

// ReceiptService renders a one-page PDF receipt for a purchase.
type ReceiptService struct {
	Purchases PurchaseStore
	Games     GameStore
	Users     UserFinder
	Currency  string
	Loader    func(ctx context.Context, purchaseID int64) (receiptData, error)
}

type receiptData struct {
	Purchase models.Purchase
	Game     models.Game
	Buyer    string
}

// Generate returns the PDF bytes and a download file name.
func (s ReceiptService) Generate(ctx context.Context, purchaseID int64) ([]byte, string, error) {
	load := s.Loader
	if load == nil {
		load = s.load
	}
	data, err := load(ctx, purchaseID)
	if err != nil {
		return nil, "", err
	}
	logger.From(ctx).Info("receipt generated", logger.Op("receipt.generate"), logger.Count(1))
	return buildReceiptPDF(data, s.Currency)
}

func (s ReceiptService) load(ctx context.Context, purchaseID int64) (receiptData, error) {
	var out receiptData
	p, err := s.Purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if domain.IsNotFound(err) {
			return out, err
		}
		return out, domain.UpstreamError{Collaborator: "purchase store", Err: err}
	}
	out.Purchase = p

	g, err := s.Games.GetByID(ctx, p.GameID)
	switch {
	case err == nil:
		out.Game = g
	case domain.IsNotFound(err):
		out.Game = models.Game{ID: p.GameID, Title: fmt.Sprintf("Game #%d", p.GameID)}
	default:
		return out, domain.UpstreamError{Collaborator: "game store", Err: err}
	}

	out.Buyer = p.UserID
	if s.Users != nil {
		if id, err := strconv.ParseInt(p.UserID, 10, 64); err == nil {
			if u, err := s.Users.FindByID(ctx, id); err == nil {
				out.Buyer = fmt.Sprintf("%s <%s>", u.Username, u.Email)
			}
		}
	}
	return out, nil
}

func buildReceiptPDF(d receiptData, currency string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	number := fmt.Sprintf("RCP-%06d", d.Purchase.ID)
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Receipt no.   : " + number,
		"Purchase date : " + utils.FormatDateTime(d.Purchase.PurchaseDate),
		"Buyer         : " + safe(d.Buyer, "-"),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Item:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("%s (%s, %s) by %s",
		safe(d.Game.Title, "-"), safe(d.Game.Platform, "-"),
		safe(d.Game.Genre, "-"), safe(d.Game.Developer, "-"))
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatPrice(d.Game.Price, currency))
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render receipt", Err: err}
	}
	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", d.Purchase.ID, safeFilenamePart(d.Game.Title))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
