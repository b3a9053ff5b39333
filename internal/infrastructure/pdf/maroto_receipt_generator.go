// Package pdf genera el comprobante PDF de un pedido de la tienda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda              │  Código de pedido + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ENVÍO: Destinatario / Teléfono / Dirección                  │
//	│  PAGO: Método + Estado                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Envío / TOTAL                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del pedido + notas                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

var _ ports.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 232, Green: 106, Blue: 35}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa ports.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	shopName string
	orderURL string // prefijo del enlace del QR; vacío = sin QR
}

// NewMarotoReceiptGenerator construye el generador. publicURL es la URL
// pública del storefront, usada para el QR que abre el pedido.
func NewMarotoReceiptGenerator(shopName, publicURL string) *MarotoReceiptGenerator {
	g := &MarotoReceiptGenerator{shopName: shopName}
	if publicURL != "" {
		g.orderURL = strings.TrimRight(publicURL, "/") + "/orders/"
	}
	return g
}

// OrderReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) OrderReceipt(_ context.Context, order *entity.Order) ([]byte, error) {
	if order == nil || order.OrderCode == "" {
		return nil, fmt.Errorf("pdf: pedido sin código")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(pdfText("Đơn hàng "+order.OrderCode), true).
		WithAuthor(pdfText(g.shopName), true).
		Build()

	m := maroto.New(cfg)
	p := message.NewPrinter(language.Vietnamese)

	m.AddRows(headerRow(g.shopName, order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(shippingRow(order.ShippingAddress))
	m.AddRows(paymentRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(p, order.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(p, order))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(g.orderURL, order)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(shop string, o *entity.Order) core.Row {
	fecha := "-"
	if !o.CreatedAt.IsZero() {
		fecha = o.CreatedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(pdfText(shop), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(pdfText("PHIẾU ĐƠN HÀNG"), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(o.OrderCode, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(pdfText("Ngày: ")+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func shippingRow(a *entity.Address) core.Row {
	name, detail := "-", "-"
	if a != nil {
		name = nonEmpty(a.ReceiverName, "-") + "   |   " + nonEmpty(a.ReceiverPhone, "-")
		detail = nonEmpty(a.FullAddress, joinNonEmpty(", ", a.StreetAddress, a.WardName, a.DistrictName, a.ProvinceName))
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New(pdfText("GIAO HÀNG"), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(pdfText(name), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(pdfText(nonEmpty(detail, "-")), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func paymentRow(o *entity.Order) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(pdfText("THANH TOÁN"), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(pdfText(fmt.Sprintf("%s   |   Trạng thái: %s",
				nonEmpty(o.PaymentMethod.Label(), string(o.PaymentMethod)),
				nonEmpty(o.Status, "-"),
			)), props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(pdfText(label), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SL", 1, align.Center),
		h("Sản phẩm", 6, align.Left),
		h("Đơn giá", 2, align.Right),
		h("Thành tiền", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableItemRows(p *message.Printer, items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		subtotal := it.Subtotal
		if subtotal.IsZero() {
			subtotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprint(it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				pdfText(it.ProductName),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatVND(p, it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatVND(p, subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(p *message.Printer, o *entity.Order) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(pdfText(s), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(pdfText(s), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	subtotal := o.TotalAmount.Sub(o.ShippingFee)
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Tạm tính:", 1),
			label("Phí vận chuyển:", 7),
			grand("TỔNG CỘNG:", 13),
		),
		col.New(3).Add(
			value(formatVND(p, subtotal), 1),
			value(formatVND(p, o.ShippingFee), 7),
			grand(formatVND(p, o.TotalAmount), 13),
		),
	)
}

func footerRows(orderURL string, o *entity.Order) []core.Row {
	var rows []core.Row
	if strings.TrimSpace(o.Notes) != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(pdfText("Ghi chú: "+o.Notes), props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}
	if orderURL != "" {
		rows = append(rows, row.New(40).Add(
			col.New(3).Add(code.NewQr(orderURL+o.OrderCode, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New(pdfText("Quét mã QR để xem trạng thái đơn hàng."), props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(pdfText("Cảm ơn bạn đã mua sắm!"), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary, Top: 2,
		}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatVND importe sin decimales con separador de miles vietnamita, p.ej. "300.000 d".
func formatVND(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("%d", d.Round(0).IntPart()) + " d"
}

// pdfText quita los diacríticos: las fuentes estándar del PDF solo cubren latin-1.
func pdfText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
