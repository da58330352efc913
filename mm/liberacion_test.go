package mm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLiberarMemoria_DevuelveMarcosYSlots(t *testing.T) {
	p, d := nuevoProcesoPrueba(t, configPrueba(), 2, 4)

	_, err := p.Asignar(64, 0)
	require.NoError(t, err)
	require.Equal(t, 0, d.ram.MarcosLibres())
	require.Equal(t, 2, d.swap.MarcosLibres())

	require.NoError(t, p.LiberarMemoria())
	require.Equal(t, 2, d.ram.MarcosLibres())
	require.Equal(t, 4, d.swap.MarcosLibres())

	inst := p.MM.Instantanea()
	require.True(t, inst.Liberado)
	require.Empty(t, inst.Tabla)
	require.Empty(t, inst.FIFO)
	require.Empty(t, inst.Simbolos)
	require.Empty(t, inst.Areas[0].Libres)
}

func TestLiberarMemoria_UnaSolaVez(t *testing.T) {
	p, _ := nuevoProcesoPrueba(t, configPrueba(), 2, 4)

	_, err := p.Asignar(16, 0)
	require.NoError(t, err)
	require.NoError(t, p.LiberarMemoria())

	require.True(t, errors.Is(p.LiberarMemoria(), ErrArgumentoInvalido))

	_, err = p.Asignar(16, 1)
	require.True(t, errors.Is(err, ErrArgumentoInvalido))
	_, err = p.LeerRegion(0, 0)
	require.True(t, errors.Is(err, ErrArgumentoInvalido))
	require.True(t, errors.Is(p.Liberar(0), ErrArgumentoInvalido))
	_, err = p.MM.ExtenderArea(0, 16, p.RAM, p.Swap)
	require.True(t, errors.Is(err, ErrArgumentoInvalido))

	var nulo *Proceso
	require.True(t, errors.Is(nulo.LiberarMemoria(), ErrArgumentoInvalido))
	require.True(t, errors.Is((&Proceso{}).LiberarMemoria(), ErrArgumentoInvalido))
}

func TestLiberarMemoria_SlotsSinReclamarQuedanTomados(t *testing.T) {
	p, d := nuevoProcesoPrueba(t, configPrueba(), 1, 4)

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	_, err = p.LeerRegion(0, 16)
	require.NoError(t, err)

	require.NoError(t, p.LiberarMemoria())
	require.Equal(t, 1, d.ram.MarcosLibres())
	// El slot del que se trajo la página 1 nunca vuelve
	require.Equal(t, 3, d.swap.MarcosLibres())
}

func TestLiberarMemoria_ConReclamoDevuelveTodo(t *testing.T) {
	cfg := configPrueba()
	cfg.ReclamarSlotSwap = true
	p, d := nuevoProcesoPrueba(t, cfg, 1, 4)

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	_, err = p.LeerRegion(0, 16)
	require.NoError(t, err)
	_, err = p.LeerRegion(0, 0)
	require.NoError(t, err)

	require.NoError(t, p.LiberarMemoria())
	require.Equal(t, 1, d.ram.MarcosLibres())
	require.Equal(t, 4, d.swap.MarcosLibres())
}
