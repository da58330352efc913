package mm

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/memfisica"
)

// despachadorPrueba atiende los pedidos directamente contra los dispositivos
// y permite inyectar fallas.
type despachadorPrueba struct {
	mu   sync.Mutex
	ram  *memfisica.Memoria
	swap *memfisica.Memoria

	crecimientos []int
	otorgados    int
	intercambios []string

	// demoraCrecimiento se duerme luego de extender el área, antes de volver
	demoraCrecimiento time.Duration

	errCrecimiento error
	errIntercambio error
	errSubida      error
	errFisica      error
}

func (d *despachadorPrueba) ExtenderHeap(p *Proceso, vmaID, inc int) error {
	d.mu.Lock()
	d.crecimientos = append(d.crecimientos, inc)
	err := d.errCrecimiento
	d.mu.Unlock()
	if err != nil {
		return err
	}

	if _, err := p.MM.ExtenderArea(vmaID, inc, p.RAM, p.Swap); err != nil {
		return err
	}
	time.Sleep(d.demoraCrecimiento)

	d.mu.Lock()
	d.otorgados += inc
	d.mu.Unlock()
	return nil
}

func (d *despachadorPrueba) IntercambiarSwap(p *Proceso, origen, destino int, dir Direccion) error {
	d.mu.Lock()
	d.intercambios = append(d.intercambios, fmt.Sprintf("%s %d->%d", dir, origen, destino))
	err := d.errIntercambio
	if dir == DesdeSwap && d.errSubida != nil {
		err = d.errSubida
	}
	d.mu.Unlock()
	if err != nil {
		return err
	}

	if dir == HaciaSwap {
		return memfisica.CopiarMarco(d.ram, origen, d.swap, destino)
	}
	return memfisica.CopiarMarco(d.swap, origen, d.ram, destino)
}

func (d *despachadorPrueba) LeerFisica(p *Proceso, dir int) (byte, error) {
	if d.errFisica != nil {
		return 0, d.errFisica
	}
	return d.ram.Leer(dir)
}

func (d *despachadorPrueba) EscribirFisica(p *Proceso, dir int, valor byte) error {
	if d.errFisica != nil {
		return d.errFisica
	}
	return d.ram.Escribir(dir, valor)
}

func configPrueba() Config {
	return Config{TamPagina: 16, MaxPaginas: 64, MaxSimbolos: 8}
}

func nuevosDispositivos(t *testing.T, tamPagina, marcosRAM, slotsSwap int) *despachadorPrueba {
	t.Helper()

	ram, err := memfisica.NuevaRAM(marcosRAM*tamPagina, tamPagina)
	require.NoError(t, err)
	swap, err := memfisica.NuevaSwap(afero.NewMemMapFs(), "/swapfile", slotsSwap*tamPagina, tamPagina)
	require.NoError(t, err)
	t.Cleanup(func() { swap.Cerrar() })

	return &despachadorPrueba{ram: ram, swap: swap}
}

func nuevoProcesoPrueba(t *testing.T, cfg Config, marcosRAM, slotsSwap int) (*Proceso, *despachadorPrueba) {
	t.Helper()

	d := nuevosDispositivos(t, cfg.TamPagina, marcosRAM, slotsSwap)
	p, err := NuevoProceso(1, cfg, d.ram, d.swap, d)
	require.NoError(t, err)
	return p, d
}

// bytesContabilizados suma los rangos libres y las regiones activas
func bytesContabilizados(mm *MM) int {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	total := 0
	for _, a := range mm.areas {
		total += a.libres.total()
	}
	for _, s := range mm.simbolos {
		if s.activa {
			total += s.region.Tamanio()
		}
	}
	return total
}

func requireFIFOConsistente(t *testing.T, mm *MM) {
	t.Helper()
	require.Equal(t, mm.PaginasPresentes(), mm.LargoFIFO())
}
