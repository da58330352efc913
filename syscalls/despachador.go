package syscalls

import (
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/mm"
)

// Despachador traduce los pedidos de la biblioteca de memoria a memmap
type Despachador struct {
	tabla *Tabla
}

var _ mm.Despachador = (*Despachador)(nil)

func NuevoDespachador(t *Tabla) *Despachador {
	return &Despachador{tabla: t}
}

func (d *Despachador) ExtenderHeap(p *mm.Proceso, vmaID, inc int) error {
	return d.tabla.Invocar(p, SysMemmap, &Registros{A1: OpIncrementar, A2: vmaID, A3: inc})
}

func (d *Despachador) IntercambiarSwap(p *mm.Proceso, origen, destino int, dir mm.Direccion) error {
	return d.tabla.Invocar(p, SysMemmap, &Registros{A1: OpSwap, A2: origen, A3: destino, A4: int(dir)})
}

func (d *Despachador) LeerFisica(p *mm.Proceso, dir int) (byte, error) {
	regs := &Registros{A1: OpLeer, A2: dir}
	if err := d.tabla.Invocar(p, SysMemmap, regs); err != nil {
		return 0, err
	}
	return byte(regs.A3), nil
}

func (d *Despachador) EscribirFisica(p *mm.Proceso, dir int, valor byte) error {
	return d.tabla.Invocar(p, SysMemmap, &Registros{A1: OpEscribir, A2: dir, A3: int(valor)})
}
