package mm

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestListaLibre_PrimerAjuste(t *testing.T) {
	l := listaLibre{regiones: []Region{{0, 10}, {20, 50}}}

	r, ok := l.primerAjuste(5)
	require.True(t, ok)
	require.Equal(t, Region{0, 5}, r)
	if diff := cmp.Diff([]Region{{5, 10}, {20, 50}}, l.copia()); diff != "" {
		t.Fatalf("lista libre inesperada (-esperada +obtenida):\n%s", diff)
	}

	// Coincidencia exacta: el rango se desengancha
	r, ok = l.primerAjuste(5)
	require.True(t, ok)
	require.Equal(t, Region{5, 10}, r)
	if diff := cmp.Diff([]Region{{20, 50}}, l.copia()); diff != "" {
		t.Fatalf("lista libre inesperada (-esperada +obtenida):\n%s", diff)
	}

	_, ok = l.primerAjuste(31)
	require.False(t, ok)
	require.Equal(t, 30, l.total())
}

func TestListaLibre_SaltaRangosChicos(t *testing.T) {
	l := listaLibre{regiones: []Region{{0, 4}, {100, 108}, {20, 50}}}

	r, ok := l.primerAjuste(16)
	require.True(t, ok)
	require.Equal(t, Region{20, 36}, r)
	require.Equal(t, []Region{{0, 4}, {100, 108}, {36, 50}}, l.copia())
}

func TestListaLibre_EncolarEnLaCabezaSinFusionar(t *testing.T) {
	var l listaLibre
	l.encolar(Region{0, 16})
	l.encolar(Region{16, 32})

	require.Equal(t, []Region{{16, 32}, {0, 16}}, l.copia())

	// Los vecinos no se fusionan: 32 bytes contiguos no alcanzan para 32
	_, ok := l.primerAjuste(32)
	require.False(t, ok)
}

func TestListaLibre_CopiaIndependiente(t *testing.T) {
	l := listaLibre{regiones: []Region{{0, 16}}}
	c := l.copia()
	c[0].Inicio = 8

	require.Equal(t, Region{0, 16}, l.regiones[0])
}

func TestListaLibre_TamanioNoPositivo(t *testing.T) {
	l := listaLibre{regiones: []Region{{0, 16}}}

	for _, tam := range []int{0, -1, math.MinInt} {
		_, ok := l.primerAjuste(tam)
		require.False(t, ok, "tam %d", tam)
	}
	require.Equal(t, []Region{{0, 16}}, l.copia())
}

func TestEncolarLibre_RechazaRegionesMalFormadas(t *testing.T) {
	p, _ := nuevoProcesoPrueba(t, configPrueba(), 8, 8)
	_, err := p.Asignar(16, 0)
	require.NoError(t, err)
	require.NoError(t, p.Liberar(0))

	mm := p.MM
	mm.mu.Lock()
	defer mm.mu.Unlock()

	casos := []struct {
		nombre string
		area   int
		region Region
	}{
		{"vacía", 0, Region{16, 16}},
		{"invertida", 0, Region{32, 16}},
		{"área inexistente", 7, Region{16, 32}},
	}
	for _, c := range casos {
		c := c
		t.Run(c.nombre, func(t *testing.T) {
			err := mm.encolarLibre(c.area, c.region)
			require.True(t, errors.Is(err, ErrArgumentoInvalido), "%v", err)
			require.Equal(t, []Region{{0, 16}}, mm.areas[0].libres.copia())
		})
	}
}
