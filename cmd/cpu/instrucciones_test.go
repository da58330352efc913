package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParsearScript(t *testing.T) {
	script := `
# reserva y usa una región
ALLOC 0 20
write 0 3 7

READ 0 3
FREE 0
`
	instrucciones, err := parsearScript(strings.NewReader(script))
	require.NoError(t, err)

	esperadas := []Instruccion{
		{Linea: 3, Operacion: OpAlloc, Args: []int{0, 20}},
		{Linea: 4, Operacion: OpWrite, Args: []int{0, 3, 7}},
		{Linea: 6, Operacion: OpRead, Args: []int{0, 3}},
		{Linea: 7, Operacion: OpFree, Args: []int{0}},
	}
	if diff := cmp.Diff(esperadas, instrucciones); diff != "" {
		t.Fatalf("instrucciones (-esperadas +obtenidas):\n%s", diff)
	}
	require.Equal(t, "WRITE 0 3 7", instrucciones[1].String())
}

func TestParsearScript_Errores(t *testing.T) {
	casos := map[string]string{
		"desconocida":  "JUMP 3",
		"pocos":        "ALLOC 1",
		"demasiados":   "FREE 1 2",
		"no es entero": "READ 0 x",
	}

	for nombre, script := range casos {
		script := script
		t.Run(nombre, func(t *testing.T) {
			_, err := parsearScript(strings.NewReader(script))
			require.Error(t, err)
			require.Contains(t, err.Error(), "línea 1")
		})
	}
}
