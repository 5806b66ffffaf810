package mercadopago

import (
	"strings"
	"testing"

	mpxconfig "github.com/aqlanhadi/mpx/config"
)

func setupTestConfig(t *testing.T) config {
	t.Helper()
	if err := mpxconfig.UseDefaults(); err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loading %s config: %v", StatementType, err)
	}
	return cfg
}

// Synthetic statement text with fake data, laid out the way row extraction returns
// it: the description of the second movement wraps above and below its date row.
// Balance: 8.500,00 + 1.500,00 - 749,50 + 0,00 = 9.250,50
func getTestStatementText() string {
	return strings.Join([]string{
		"Mercado Pago",
		"RESUMEN DE CUENTA",
		"Jane Doe",
		"CVU: 0000003100000000000001",
		"CUIT/ CUIL: 27123456789",
		"Periodo: del 01-03-2024 al 31-03-2024",
		"Saldo inicial: $ 8.500,00",
		"Entradas: $ 1.500,00",
		"Salidas: $ -749,50",
		"Saldo final: $ 9.250,50",
		"DETALLE DE MOVIMIENTOS",
		"Fecha Descripción ID de la operación Valor Saldo",
		"01-03-2024 Transferencia recibida Juan Perez 111111111 $ 1.500,00 $ 10.000,00",
		"Pago en",
		"05-03-2024 222222222 $ -749,50 $ 9.250,50",
		"Supermercado Dia",
		"10-03-2024 Ajuste de saldo 333333333 $ 0,00 $ 9.250,50",
		"15-03-2024 Movimiento sin importe",
		"Página 1 de 1",
	}, "\n")
}
