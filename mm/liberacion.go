package mm

import (
	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// LiberarMemoria devuelve cada marco y cada slot referenciados por la tabla de
// páginas a su pool y deja el objeto de memoria inutilizable. Se puede llamar
// una sola vez por proceso.
func (p *Proceso) LiberarMemoria() error {
	if err := p.validar(); err != nil {
		return err
	}

	mm := p.MM
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if err := mm.vigente(); err != nil {
		return err
	}

	var primerError error
	marcos, slots := 0, 0
	for pgn, e := range mm.tabla.entradas {
		var err error
		switch {
		case e.Presente():
			err = p.RAM.DevolverMarco(e.Marco())
			marcos++
		case e.EnSwap():
			err = p.Swap.DevolverMarco(e.Slot())
			slots++
		default:
			continue
		}
		if err != nil && primerError == nil {
			primerError = errors.Wrapf(ErrFalloIO, "página %d: %v", pgn, err)
		}
	}

	mm.tabla.limpiar()
	mm.fifo.vaciar()
	clear(mm.simbolos)
	for _, a := range mm.areas {
		a.libres = listaLibre{}
	}
	mm.liberado = true

	p.Metricas.olvidar(p.PID)
	utils.InfoLog.Info("Memoria del proceso liberada", "pid", p.PID, "marcos_liberados", marcos, "slots_liberados", slots)

	return primerError
}
