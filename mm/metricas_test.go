package mm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricas_PorProceso(t *testing.T) {
	p, _ := nuevoProcesoPrueba(t, configPrueba(), 1, 8)
	m := NuevasMetricas(prometheus.NewRegistry())
	p.Metricas = m

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)
	_, err = p.Asignar(1, 0)
	require.Error(t, err)

	require.NoError(t, p.EscribirRegion(0, 0, 1))
	require.NoError(t, p.EscribirRegion(0, 16, 2))
	_, err = p.LeerRegion(0, 0)
	require.NoError(t, err)

	require.Equal(t, 2.0, testutil.ToFloat64(m.fallosPagina.WithLabelValues("1")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.bajadasSwap.WithLabelValues("1")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.subidasMemoria.WithLabelValues("1")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.escrituras.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.lecturas.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.asignaciones.WithLabelValues("1", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.asignaciones.WithLabelValues("1", "ARGUMENTO_INVALIDO")))
	require.Equal(t, 32.0, testutil.ToFloat64(m.crecimientoHeap.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.paginasResidentes.WithLabelValues("1")))

	require.NoError(t, p.LiberarMemoria())
	require.Equal(t, 0, testutil.CollectAndCount(m.fallosPagina))
	require.Equal(t, 0, testutil.CollectAndCount(m.asignaciones))
}

func TestMetricas_SubidaFallida(t *testing.T) {
	p, d := nuevoProcesoPrueba(t, configPrueba(), 1, 8)
	m := NuevasMetricas(prometheus.NewRegistry())
	p.Metricas = m

	_, err := p.Asignar(32, 0)
	require.NoError(t, err)

	d.errSubida = errors.New("swap ilegible")
	require.True(t, errors.Is(p.EscribirRegion(0, 16, 1), ErrFalloIO))

	// La víctima llegó a copiarse; la página pedida no
	require.Equal(t, 1.0, testutil.ToFloat64(m.bajadasSwap.WithLabelValues("1")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.subidasMemoria.WithLabelValues("1")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.fallosPagina.WithLabelValues("1")))

	d.errSubida = nil
	require.NoError(t, p.EscribirRegion(0, 16, 1))
	require.Equal(t, 2.0, testutil.ToFloat64(m.bajadasSwap.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.subidasMemoria.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fallosPagina.WithLabelValues("1")))
}

func TestMetricas_NilNoRegistra(t *testing.T) {
	var m *Metricas
	m.falloPagina(1)
	m.bajada(1)
	m.subida(1)
	m.asignacion(1, nil)
	m.olvidar(1)
}
