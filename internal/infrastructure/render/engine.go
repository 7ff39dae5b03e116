package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// formatFee переводит копейки в строку с двумя знаками без потери точности.
func formatFee(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

const qrImageSize = 512

// engine — один экземпляр генератора сертификатов в пуле.
type engine struct {
	id int
}

func newEngine(id int) *engine {
	return &engine{id: id}
}

// Ping проверяет работоспособность движка пробной генерацией документа.
func (en *engine) Ping() error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("engine %d ping failed: %w", en.id, err)
	}

	return nil
}

// render генерирует PDF сертификата и QR-код ссылки верификации.
// Результат детерминирован по содержимому запроса.
func (en *engine) render(req *usecase.RenderCertificateReq) (*usecase.RenderedArtifacts, error) {
	qrPNG, err := qrcode.Encode(req.VerifyURL, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("qr encode failed: %w", err)
	}

	pdfBytes, err := en.renderPDF(req, qrPNG)
	if err != nil {
		return nil, err
	}

	return &usecase.RenderedArtifacts{
		PDF: pdfBytes,
		QR:  qrPNG,
	}, nil
}

func (en *engine) renderPDF(req *usecase.RenderCertificateReq, qrPNG []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Certificate %s", req.SealNumber), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 26)
	pdf.CellFormat(0, 18, "Certificate of Product Conformity", "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, "This certifies that the product", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, req.ProductName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("by %s", req.Brand), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("submitted by %s", req.HolderName), "", 1, "C", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Courier", "B", 16)
	pdf.CellFormat(0, 10, req.SealNumber, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Issued on %s", req.IssuedAt.Format("2 January 2006")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Certification fee: $%s", formatFee(req.FeeCents)), "", 1, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(qrPNG))
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions("verify-qr", (pageW-50)/2, 150, 50, 50, false, opts, 0, "")

	pdf.SetY(205)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, req.VerifyURL, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}

	return buf.Bytes(), nil
}
