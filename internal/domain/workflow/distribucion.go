package workflow

import (
	"fmt"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ToleranciaDistribucion margen aceptado alrededor de 100 para la suma de porcentajes.
// La comparación es estricta: |Σ − 100| debe ser menor que este valor.
var ToleranciaDistribucion = decimal.RequireFromString("0.01")

// DecimalesPorcentaje precisión con la que se persiste cada porcentaje.
const DecimalesPorcentaje = 4

// CentroOwners relaciona id de centro de operación → id de su centro de costo.
type CentroOwners map[string]string

// ValidateDistribucion verifica el conjunto completo de líneas de una factura.
// Devuelve nil o un *domain.InvariantError con todas las razones encontradas.
// Un conjunto vacío es válido (se usa el CC/CO de la factura).
func ValidateDistribucion(lines []entity.DistribucionCCCO, owners CentroOwners) error {
	return domain.NewInvariantError(DistribucionReasons(lines, owners))
}

// DistribucionReasons evalúa porcentajes por línea, pertenencia CO→CC y la suma total.
func DistribucionReasons(lines []entity.DistribucionCCCO, owners CentroOwners) []string {
	if len(lines) == 0 {
		return nil
	}
	var reasons []string
	total := decimal.Zero
	for i, l := range lines {
		n := i + 1
		if !l.Porcentaje.IsPositive() || l.Porcentaje.GreaterThan(cien) {
			reasons = append(reasons, fmt.Sprintf("línea %d: el porcentaje %s debe ser mayor que 0 y a lo sumo 100", n, l.Porcentaje.String()))
		}
		if !l.Porcentaje.Equal(l.Porcentaje.Round(DecimalesPorcentaje)) {
			reasons = append(reasons, fmt.Sprintf("línea %d: el porcentaje %s admite a lo sumo %d decimales", n, l.Porcentaje.String(), DecimalesPorcentaje))
		}
		if l.CentroCostoID == "" || l.CentroOperacionID == "" {
			reasons = append(reasons, fmt.Sprintf("línea %d: centro de costo y centro de operación son obligatorios", n))
		} else if owners != nil {
			owner, ok := owners[l.CentroOperacionID]
			switch {
			case !ok:
				reasons = append(reasons, fmt.Sprintf("línea %d: el centro de operación %s no existe", n, l.CentroOperacionID))
			case owner != l.CentroCostoID:
				reasons = append(reasons, fmt.Sprintf("línea %d: el centro de operación %s no pertenece al centro de costo %s", n, l.CentroOperacionID, l.CentroCostoID))
			}
		}
		total = total.Add(l.Porcentaje)
	}
	if !SumaCompleta(total) {
		reasons = append(reasons, fmt.Sprintf("la suma de porcentajes es %s y debe ser 100", total.String()))
	}
	return reasons
}

// SumaCompleta indica si la suma está dentro de la tolerancia alrededor de 100.
func SumaCompleta(total decimal.Decimal) bool {
	return total.Sub(cien).Abs().LessThan(ToleranciaDistribucion)
}
