package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"dinedesk-pos-service/pkg/response"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

type receiptLine struct {
	Name     string
	Quantity int
	Price    float64
	Subtotal float64
}

type receiptData struct {
	ShopName  string
	OrderID   string
	KOTNumber int
	OrderType string
	TableName string
	Guest     string
	IssuedAt  string
	Lines     []receiptLine
	Total     float64
	Cashier   string
}

// OrderReceiptPDF renders a printable bill for an order in the working set.
func (h *Handler) OrderReceiptPDF(w http.ResponseWriter, r *http.Request) {
	workspace, sess, ok := h.workspace(w, r)
	if !ok {
		return
	}

	orderID := readPathString(r, "orderId")
	target := workspace.Snapshot().Find(orderID)
	if target == nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
		return
	}

	data := receiptData{
		OrderID:   target.ID,
		KOTNumber: target.KOTNum,
		OrderType: string(target.Type),
		IssuedAt:  time.Now().Format("02 Jan 2006 15:04"),
		Cashier:   sess.Name,
	}
	if target.Table != nil {
		data.TableName = target.Table.Name
	}
	if target.Customer != nil {
		data.Guest = target.Customer.Name
	}
	for _, line := range target.Lines {
		data.Lines = append(data.Lines, receiptLine{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
			Subtotal: line.Subtotal(),
		})
	}
	data.Total = target.Total()

	if menu, err := h.Upstream.PublicMenu(r.Context(), sess.ShopID); err == nil {
		data.ShopName = menu.Restaurant.ShopName
	}
	if data.ShopName == "" {
		data.ShopName = "Receipt"
	}

	buf, err := renderReceiptPDF(data)
	if err != nil {
		h.Logger.Error("receipt render failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", orderID))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func renderReceiptPDF(data receiptData) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, data.ShopName, "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Order %s", data.OrderID), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if data.KOTNumber > 0 {
		pdf.CellFormat(0, 5, fmt.Sprintf("KOT #%d", data.KOTNumber), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, data.OrderType, "", 1, "C", false, 0, "")
	if data.TableName != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Table %s", data.TableName), "", 1, "C", false, 0, "")
	}
	if data.Guest != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Guest: %s", data.Guest), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, data.IssuedAt, "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range data.Lines {
		pdf.CellFormat(130, 5, fmt.Sprintf("%dx %s", line.Quantity, line.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("%.2f", line.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 6, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", data.Total), "T", 1, "R", false, 0, "")

	if data.Cashier != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Cashier: %s", data.Cashier), "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
