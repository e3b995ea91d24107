package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/factura"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	infrapdf "github.com/jhoicas/contabilidadcq-api/internal/infrastructure/pdf"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/postgres"
)

var validarCmd = &cobra.Command{
	Use:   "validar <factura-id> [transicion]",
	Short: "Evalúa las reglas de una transición sin modificar la factura",
	Example: `  cqctl validar 7f1c...
  cqctl validar 7f1c... cerrar_en_tesoreria`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := domainwf.TransitionEnviarAContabilidad
		if len(args) == 2 {
			var ok bool
			if t, ok = domainwf.ParseTransition(args[1]); !ok {
				return fmt.Errorf("transición desconocida: %s", args[1])
			}
		}
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		flow, err := e.workflow(ctx)
		if err != nil {
			return err
		}
		rep, err := flow.Validar(ctx, entity.SystemActor, args[0], t)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(dto.ReportFrom(rep)); err != nil {
			return err
		}
		if !rep.OK() {
			return fmt.Errorf("la factura no cumple %d regla(s)", len(rep.Violations))
		}
		return nil
	},
}

var hojaRutaCmd = &cobra.Command{
	Use:   "hoja-ruta <factura-id>",
	Short: "Genera la hoja de ruta en PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		flow, err := e.workflow(ctx)
		if err != nil {
			return err
		}
		uc := factura.NewUseCase(postgres.NewTxRunner(e.pool), flow, nil, infrapdf.NewMarotoPDFGenerator(), e.log)
		pdf, err := uc.HojaRuta(ctx, args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = "hoja-ruta-" + args[0] + ".pdf"
		}
		if err := os.WriteFile(out, pdf, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", out, err)
		}
		e.log.Info().Str("factura_id", args[0]).Str("archivo", out).Int("bytes", len(pdf)).Msg("hoja de ruta generada")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validarCmd, hojaRutaCmd)
	hojaRutaCmd.Flags().StringP("output", "o", "", "archivo de salida")
}
