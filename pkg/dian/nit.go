// Package dian utilidades para datos tributarios de la DIAN (Colombia) presentes en las
// facturas electrónicas de proveedores.
package dian

import (
	"fmt"
	"unicode"
)

// Códigos de tipo de documento de identificación (Tabla 13.2.1 del Anexo Técnico).
const (
	IdentificationTypeNIT    = "31"
	IdentificationTypeCedula = "13"
)

// Códigos de tipo de factura (InvoiceTypeCode) aceptados en la ingesta.
const (
	InvoiceTypeVenta        = "01"
	InvoiceTypeExportacion  = "02"
	InvoiceTypeContingencia = "03"
)

// pesos para el cálculo del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN).
// Se aplican a los dígitos del NIT alineados a la derecha (hasta 15 dígitos).
var nitWeights = []int{71, 67, 59, 53, 47, 43, 41, 37, 29, 23, 19, 17, 13, 7, 3}

// ComputeNITVerificationDigit calcula el dígito de verificación del NIT (sin DV, con o sin puntos).
func ComputeNITVerificationDigit(nit string) (byte, error) {
	digits := extractDigits(nit)
	if len(digits) == 0 || len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("dian: NIT con %d dígitos fuera de rango", len(digits))
	}
	offset := len(nitWeights) - len(digits)
	var sum int
	for i, d := range digits {
		sum += int(d-'0') * nitWeights[offset+i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder), nil
	}
	return byte('0' + (11 - remainder)), nil
}

// ValidateNITVerificationDigit valida que dv sea el dígito de verificación de nit.
func ValidateNITVerificationDigit(nit, dv string) error {
	d := extractDigits(dv)
	if len(d) != 1 {
		return fmt.Errorf("dian: dígito de verificación %q inválido", dv)
	}
	expected, err := ComputeNITVerificationDigit(nit)
	if err != nil {
		return err
	}
	if d[0] != expected {
		return fmt.Errorf("dian: dígito de verificación del NIT inválido: esperado %c, recibido %c", expected, d[0])
	}
	return nil
}

// FormatNIT devuelve "NIT-DV" solo con dígitos, p. ej. "900123456-8".
func FormatNIT(nit, dv string) string {
	base := string(extractDigits(nit))
	if d := extractDigits(dv); len(d) == 1 {
		return base + "-" + string(d)
	}
	return base
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
