package mm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validar(t *testing.T) {
	require.NoError(t, ConfigPorDefecto().Validar())

	for _, cfg := range []Config{
		{TamPagina: 0, MaxPaginas: 1, MaxSimbolos: 1},
		{TamPagina: 100, MaxPaginas: 1, MaxSimbolos: 1},
		{TamPagina: 16, MaxPaginas: 0, MaxSimbolos: 1},
		{TamPagina: 16, MaxPaginas: 1, MaxSimbolos: 0},
	} {
		require.True(t, errors.Is(cfg.Validar(), ErrArgumentoInvalido), "%+v", cfg)
	}
}

func TestConfig_Alinear(t *testing.T) {
	cfg := ConfigPorDefecto()

	require.Equal(t, 256, cfg.alinear(1))
	require.Equal(t, 256, cfg.alinear(100))
	require.Equal(t, 256, cfg.alinear(256))
	require.Equal(t, 512, cfg.alinear(257))
	require.Equal(t, 8, cfg.desplazamiento())
	require.Equal(t, 1<<22, cfg.TamanioEspacio())
}

func TestClase(t *testing.T) {
	require.Equal(t, "", Clase(nil))
	require.Equal(t, "ARGUMENTO_INVALIDO", Clase(errors.Wrap(ErrArgumentoInvalido, "x")))
	require.Equal(t, "SIN_ESPACIO", Clase(errors.Wrapf(errors.Wrap(ErrSinEspacio, "a"), "b")))
	require.Equal(t, "REGION_INVALIDA", Clase(ErrRegionInvalida))
	require.Equal(t, "SIN_VICTIMA", Clase(ErrSinVictima))
	require.Equal(t, "FALLO_IO", Clase(ErrFalloIO))
	require.Equal(t, "", Clase(errors.New("otro")))
}
