// Package workflow casos de uso de las transiciones de la factura entre Facturación, el área
// responsable, Contabilidad y Tesorería.
package workflow

import (
	"context"
	"fmt"

	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
)

// AreaCodes códigos de las áreas fijas del flujo (configurables).
type AreaCodes struct {
	Facturacion  string
	Contabilidad string
	Tesoreria    string
}

// ResolveRefs busca en el catálogo los ids de las áreas fijas. Falla si alguna no existe.
func ResolveRefs(ctx context.Context, catalog repository.CatalogRepository, codes AreaCodes, facturacionUserID string) (domainwf.Refs, error) {
	refs := domainwf.Refs{FacturacionUserID: facturacionUserID}
	for _, item := range []struct {
		code string
		dst  *string
	}{
		{codes.Facturacion, &refs.FacturacionAreaID},
		{codes.Contabilidad, &refs.ContabilidadAreaID},
		{codes.Tesoreria, &refs.TesoreriaAreaID},
	} {
		area, err := catalog.GetAreaByCode(ctx, item.code)
		if err != nil {
			return refs, err
		}
		if area == nil {
			return refs, fmt.Errorf("área con código %q no existe en el catálogo", item.code)
		}
		*item.dst = area.ID
	}
	return refs, nil
}
