package mm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEscribirLeer_IdaYVuelta(t *testing.T) {
	p, _ := nuevoProcesoPrueba(t, configPrueba(), 8, 8)

	_, err := p.Asignar(40, 0)
	require.NoError(t, err)

	for off := 0; off < 40; off++ {
		require.NoError(t, p.EscribirRegion(0, off, byte(off*3)))
		v, err := p.LeerRegion(0, off)
		require.NoError(t, err)
		require.Equal(t, byte(off*3), v)
	}

	// Lectura por dirección virtual
	v, err := p.LeerByte(17)
	require.NoError(t, err)
	require.Equal(t, byte(51), v)

	require.NoError(t, p.EscribirByte(17, 200))
	v, err = p.LeerRegion(0, 17)
	require.NoError(t, err)
	require.Equal(t, byte(200), v)
}

func TestEscribir_MarcaLaPaginaSucia(t *testing.T) {
	p, _ := nuevoProcesoPrueba(t, configPrueba(), 4, 4)

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	require.NoError(t, p.EscribirRegion(0, 20, 1))

	inst := p.MM.Instantanea()
	require.Len(t, inst.Tabla, 2)
	require.False(t, inst.Tabla[0].PTE.Sucia())
	require.True(t, inst.Tabla[1].PTE.Sucia())
}

func TestLeerRegion_OffsetFueraDeRango(t *testing.T) {
	p, _ := nuevoProcesoPrueba(t, configPrueba(), 4, 4)

	_, err := p.Asignar(10, 0)
	require.NoError(t, err)

	// La región ocupa 16 bytes alineados
	_, err = p.LeerRegion(0, 15)
	require.NoError(t, err)
	_, err = p.LeerRegion(0, 16)
	require.True(t, errors.Is(err, ErrArgumentoInvalido))
	_, err = p.LeerRegion(0, -1)
	require.True(t, errors.Is(err, ErrArgumentoInvalido))
	require.True(t, errors.Is(p.EscribirRegion(0, 16, 1), ErrArgumentoInvalido))
}

func TestLeerByte_PaginaNoMapeada(t *testing.T) {
	cfg := configPrueba()
	p, _ := nuevoProcesoPrueba(t, cfg, 4, 4)

	_, err := p.LeerByte(0)
	require.True(t, errors.Is(err, ErrArgumentoInvalido))
	_, err = p.LeerByte(cfg.TamanioEspacio())
	require.True(t, errors.Is(err, ErrArgumentoInvalido))
	_, err = p.LeerByte(-1)
	require.True(t, errors.Is(err, ErrArgumentoInvalido))
}

func TestFIFO_UnSoloMarco(t *testing.T) {
	p, d := nuevoProcesoPrueba(t, configPrueba(), 1, 4)

	// Página 0 en el único marco, página 1 en el slot 0
	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	require.Equal(t, []int{0}, p.MM.Instantanea().FIFO)

	require.NoError(t, p.EscribirRegion(0, 0, 'a'))
	requireFIFOConsistente(t, p.MM)

	// Fallo en B: se desaloja A
	require.NoError(t, p.EscribirRegion(0, 16, 'b'))
	require.Equal(t, []int{1}, p.MM.Instantanea().FIFO)
	requireFIFOConsistente(t, p.MM)

	// Volver a A desaloja B aunque B sea la última accedida
	v, err := p.LeerRegion(0, 0)
	require.NoError(t, err)
	require.Equal(t, byte('a'), v)
	require.Equal(t, []int{0}, p.MM.Instantanea().FIFO)
	requireFIFOConsistente(t, p.MM)

	v, err = p.LeerRegion(0, 16)
	require.NoError(t, err)
	require.Equal(t, byte('b'), v)

	esperados := []string{
		"RAM->SWAP 0->1", "SWAP->RAM 0->0",
		"RAM->SWAP 0->2", "SWAP->RAM 1->0",
		"RAM->SWAP 0->3", "SWAP->RAM 2->0",
	}
	if diff := cmp.Diff(esperados, d.intercambios); diff != "" {
		t.Fatalf("intercambios inesperados (-esperados +obtenidos):\n%s", diff)
	}

	// Sin reclamo cada slot de origen queda tomado: el swap se agota
	require.Equal(t, 0, d.swap.MarcosLibres())
	_, err = p.LeerRegion(0, 0)
	require.True(t, errors.Is(err, ErrFalloIO), "%v", err)
	requireFIFOConsistente(t, p.MM)
}

func TestFIFO_ReclamarSlotSwap(t *testing.T) {
	cfg := configPrueba()
	cfg.ReclamarSlotSwap = true
	p, d := nuevoProcesoPrueba(t, cfg, 1, 4)

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	require.Equal(t, 3, d.swap.MarcosLibres())

	for i := 0; i < 10; i++ {
		off := (i % 2) * 16
		require.NoError(t, p.EscribirRegion(0, off, byte(i)))
		require.Equal(t, 3, d.swap.MarcosLibres(), "acceso %d", i)
		requireFIFOConsistente(t, p.MM)
	}

	v, err := p.LeerRegion(0, 0)
	require.NoError(t, err)
	require.Equal(t, byte(8), v)
	v, err = p.LeerRegion(0, 16)
	require.NoError(t, err)
	require.Equal(t, byte(9), v)
}

func TestObtenerPagina_DesalojoLimpiaBitSucio(t *testing.T) {
	p, _ := nuevoProcesoPrueba(t, configPrueba(), 1, 4)

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	require.NoError(t, p.EscribirRegion(0, 0, 1))
	_, err = p.LeerRegion(0, 16)
	require.NoError(t, err)

	inst := p.MM.Instantanea()
	require.True(t, inst.Tabla[0].PTE.EnSwap())
	require.False(t, inst.Tabla[0].PTE.Sucia())
	require.True(t, inst.Tabla[1].PTE.Presente())
}

func TestObtenerPagina_FalloDeIntercambioNoModificaNada(t *testing.T) {
	p, d := nuevoProcesoPrueba(t, configPrueba(), 1, 4)

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	antes := p.MM.Instantanea()
	libres := d.swap.MarcosLibres()

	d.errIntercambio = errors.New("disco desconectado")
	_, err = p.LeerRegion(0, 16)
	require.True(t, errors.Is(err, ErrFalloIO), "%v", err)

	if diff := cmp.Diff(antes, p.MM.Instantanea()); diff != "" {
		t.Fatalf("el estado cambió tras el fallo (-antes +después):\n%s", diff)
	}
	require.Equal(t, libres, d.swap.MarcosLibres())

	d.errIntercambio = nil
	_, err = p.LeerRegion(0, 16)
	require.NoError(t, err)
}

func TestObtenerPagina_SinVictima(t *testing.T) {
	cfg := configPrueba()
	d := nuevosDispositivos(t, cfg.TamPagina, 1, 2)

	otro, err := NuevoProceso(2, cfg, d.ram, d.swap, d)
	require.NoError(t, err)
	_, err = otro.Asignar(16, 0)
	require.NoError(t, err)

	// El único marco es del otro proceso: la página arranca en swap
	p, err := NuevoProceso(1, cfg, d.ram, d.swap, d)
	require.NoError(t, err)
	_, err = p.Asignar(16, 0)
	require.NoError(t, err)
	require.Equal(t, 0, p.MM.LargoFIFO())

	_, err = p.LeerRegion(0, 0)
	require.True(t, errors.Is(err, ErrSinVictima), "%v", err)
}

func TestLeerFisica_FalloDelDespachador(t *testing.T) {
	p, d := nuevoProcesoPrueba(t, configPrueba(), 4, 4)

	_, err := p.Asignar(16, 0)
	require.NoError(t, err)

	d.errFisica = errors.New("bus")
	_, err = p.LeerRegion(0, 0)
	require.True(t, errors.Is(err, ErrFalloIO))
	require.True(t, errors.Is(p.EscribirRegion(0, 0, 1), ErrFalloIO))

	// Una escritura fallida no marca la página
	require.False(t, p.MM.Instantanea().Tabla[0].PTE.Sucia())
}
