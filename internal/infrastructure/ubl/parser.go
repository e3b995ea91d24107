// Package ubl lee facturas electrónicas de proveedores en formato UBL 2.1 (DIAN), tanto el
// Invoice directo como el AttachedDocument que lo envuelve.
package ubl

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidadcq-api/internal/application/factura"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/pkg/dian"
)

const dateLayout = "2006-01-02"

var _ factura.UBLParser = (*Parser)(nil)

// Parser extrae factura.SupplierInvoice de un XML UBL.
type Parser struct{}

// NewParser construye el parser.
func NewParser() *Parser { return &Parser{} }

// Parse acepta un Invoice o un AttachedDocument. Los errores de formato envuelven domain.ErrInvalidInput.
func (p *Parser) Parse(data []byte) (*factura.SupplierInvoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: XML mal formado: %v", domain.ErrInvalidInput, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: documento XML vacío", domain.ErrInvalidInput)
	}
	switch root.Tag {
	case "Invoice":
		return parseInvoice(root)
	case "AttachedDocument":
		return p.parseAttached(root)
	}
	return nil, fmt.Errorf("%w: raíz %q no soportada (Invoice | AttachedDocument)", domain.ErrInvalidInput, root.Tag)
}

// parseAttached el Invoice viaja como texto (CDATA) dentro de Attachment/ExternalReference/Description.
func (p *Parser) parseAttached(root *etree.Element) (*factura.SupplierInvoice, error) {
	desc := root.FindElement("./Attachment/ExternalReference/Description")
	if desc == nil || strings.TrimSpace(desc.Text()) == "" {
		return nil, fmt.Errorf("%w: AttachedDocument sin factura embebida", domain.ErrInvalidInput)
	}
	inner := etree.NewDocument()
	if err := inner.ReadFromString(strings.TrimSpace(desc.Text())); err != nil {
		return nil, fmt.Errorf("%w: factura embebida mal formada: %v", domain.ErrInvalidInput, err)
	}
	if inner.Root() == nil || inner.Root().Tag != "Invoice" {
		return nil, fmt.Errorf("%w: el AttachedDocument no contiene un Invoice", domain.ErrInvalidInput)
	}
	return parseInvoice(inner.Root())
}

func parseInvoice(inv *etree.Element) (*factura.SupplierInvoice, error) {
	out := &factura.SupplierInvoice{
		Numero:          text(inv, "./ID"),
		InvoiceTypeCode: text(inv, "./InvoiceTypeCode"),
		CUFE:            text(inv, "./UUID"),
	}
	var errs []string

	if out.Numero == "" {
		errs = append(errs, "falta cbc:ID (número de factura)")
	}

	party := inv.FindElement("./AccountingSupplierParty/Party")
	if party == nil {
		errs = append(errs, "falta cac:AccountingSupplierParty")
	} else {
		out.Proveedor = firstText(party, "./PartyTaxScheme/RegistrationName", "./PartyLegalEntity/RegistrationName", "./PartyName/Name")
		if out.Proveedor == "" {
			errs = append(errs, "falta el nombre del proveedor")
		}
		if id := party.FindElement("./PartyTaxScheme/CompanyID"); id != nil {
			out.ProveedorNIT = strings.TrimSpace(id.Text())
			out.ProveedorDV = strings.TrimSpace(id.SelectAttrValue("schemeID", ""))
			if id.SelectAttrValue("schemeName", dian.IdentificationTypeNIT) == dian.IdentificationTypeNIT && out.ProveedorDV != "" {
				if err := dian.ValidateNITVerificationDigit(out.ProveedorNIT, out.ProveedorDV); err != nil {
					errs = append(errs, err.Error())
				}
			}
		}
	}

	if s := text(inv, "./IssueDate"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("IssueDate %q inválida", s))
		} else {
			out.FechaEmision = &t
		}
	}
	if s := firstText(inv, "./DueDate", "./PaymentMeans/PaymentDueDate"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("fecha de vencimiento %q inválida", s))
		} else {
			out.FechaVencimiento = &t
		}
	}

	total := firstText(inv, "./LegalMonetaryTotal/PayableAmount", "./LegalMonetaryTotal/TaxInclusiveAmount")
	if total == "" {
		errs = append(errs, "falta LegalMonetaryTotal/PayableAmount")
	} else if d, err := decimal.NewFromString(total); err != nil {
		errs = append(errs, fmt.Sprintf("total %q inválido", total))
	} else if !d.IsPositive() {
		errs = append(errs, "el total debe ser mayor que cero")
	} else {
		out.Total = d
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return out, nil
}

func text(e *etree.Element, path string) string {
	if el := e.FindElement(path); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

func firstText(e *etree.Element, paths ...string) string {
	for _, p := range paths {
		if s := text(e, p); s != "" {
			return s
		}
	}
	return ""
}
