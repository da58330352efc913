package mm

import (
	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// LeerByte lee el byte de la dirección virtual dir, trayendo la página si hace falta
func (p *Proceso) LeerByte(dir int) (byte, error) {
	if err := p.validar(); err != nil {
		return 0, err
	}
	p.MM.mu.Lock()
	defer p.MM.mu.Unlock()

	if err := p.MM.vigente(); err != nil {
		return 0, err
	}
	return p.leerByte(dir)
}

// EscribirByte escribe valor en la dirección virtual dir
func (p *Proceso) EscribirByte(dir int, valor byte) error {
	if err := p.validar(); err != nil {
		return err
	}
	p.MM.mu.Lock()
	defer p.MM.mu.Unlock()

	if err := p.MM.vigente(); err != nil {
		return err
	}
	return p.escribirByte(dir, valor)
}

// dividir separa una dirección virtual en número de página y offset
func (p *Proceso) dividir(dir int) (int, int, error) {
	if dir < 0 {
		return 0, 0, errors.Wrapf(ErrArgumentoInvalido, "dirección %d", dir)
	}
	cfg := p.MM.cfg
	return dir >> cfg.desplazamiento(), dir & (cfg.TamPagina - 1), nil
}

// leerByte: mm.mu debe estar tomado
func (p *Proceso) leerByte(dir int) (byte, error) {
	pgn, off, err := p.dividir(dir)
	if err != nil {
		return 0, err
	}

	marco, err := p.obtenerPagina(pgn)
	if err != nil {
		return 0, err
	}

	fisica := marco<<p.MM.cfg.desplazamiento() + off
	valor, err := p.Despachador.LeerFisica(p, fisica)
	if err != nil {
		return 0, errors.Wrapf(ErrFalloIO, "lectura física en %d: %v", fisica, err)
	}

	p.Metricas.lectura(p.PID)
	utils.InfoLog.Debug("Lectura", "pid", p.PID, "dir_logica", dir, "dir_fisica", fisica, "valor", valor)
	return valor, nil
}

// escribirByte: mm.mu debe estar tomado
func (p *Proceso) escribirByte(dir int, valor byte) error {
	pgn, off, err := p.dividir(dir)
	if err != nil {
		return err
	}

	marco, err := p.obtenerPagina(pgn)
	if err != nil {
		return err
	}

	fisica := marco<<p.MM.cfg.desplazamiento() + off
	if err := p.Despachador.EscribirFisica(p, fisica, valor); err != nil {
		return errors.Wrapf(ErrFalloIO, "escritura física en %d: %v", fisica, err)
	}
	p.MM.tabla.marcar(pgn, ptePresente|pteSucia)

	p.Metricas.escritura(p.PID)
	utils.InfoLog.Debug("Escritura", "pid", p.PID, "dir_logica", dir, "dir_fisica", fisica, "valor", valor)
	return nil
}

// obtenerPagina devuelve el marco de RAM de la página pgn. Si la página está
// en swap, desaloja a la residente más vieja y la trae a su marco.
// mm.mu debe estar tomado durante toda la secuencia.
func (p *Proceso) obtenerPagina(pgn int) (int, error) {
	mm := p.MM
	pte, err := mm.tabla.entrada(pgn)
	if err != nil {
		return -1, err
	}
	if pte.Presente() {
		return pte.Marco(), nil
	}
	if !pte.EnSwap() {
		return -1, errors.Wrapf(ErrArgumentoInvalido, "la página %d no está mapeada", pgn)
	}

	victima, ok := mm.fifo.primero()
	if !ok {
		return -1, errors.Wrapf(ErrSinVictima, "fallo en la página %d sin páginas residentes", pgn)
	}
	pteVictima := mm.tabla.entradas[victima]
	if !pteVictima.Presente() {
		return -1, errors.Wrapf(ErrSinVictima, "la víctima %d de la cola no está presente", victima)
	}
	marcoVictima := pteVictima.Marco()
	slotObjetivo := pte.Slot()

	slotNuevo, err := p.Swap.ObtenerMarcoLibre()
	if err != nil {
		return -1, errors.Wrapf(ErrFalloIO, "sin slot de swap para la víctima %d: %v", victima, err)
	}

	// Primero las dos copias; la tabla y la cola se tocan sólo si ambas salen bien.
	if err := p.Despachador.IntercambiarSwap(p, marcoVictima, slotNuevo, HaciaSwap); err != nil {
		p.devolverSlot(slotNuevo)
		return -1, errors.Wrapf(ErrFalloIO, "bajando la página %d a swap: %v", victima, err)
	}
	p.Metricas.bajada(p.PID)
	if err := p.Despachador.IntercambiarSwap(p, slotObjetivo, marcoVictima, DesdeSwap); err != nil {
		p.devolverSlot(slotNuevo)
		return -1, errors.Wrapf(ErrFalloIO, "subiendo la página %d desde swap: %v", pgn, err)
	}
	p.Metricas.subida(p.PID)

	mm.fifo.desencolar()
	mm.tabla.fijar(victima, pteEnSwap(slotNuevo))
	mm.tabla.fijar(pgn, pteEnMarco(marcoVictima))
	mm.fifo.encolar(pgn)

	if mm.cfg.ReclamarSlotSwap {
		p.devolverSlot(slotObjetivo)
	}

	p.Metricas.falloPagina(p.PID)
	p.Metricas.residentes(p.PID, mm.fifo.largo())
	utils.InfoLog.Info("Reemplazo de página",
		"pid", p.PID,
		"pagina", pgn,
		"victima", victima,
		"marco", marcoVictima,
		"slot_victima", slotNuevo,
		"slot_origen", slotObjetivo)

	return marcoVictima, nil
}

func (p *Proceso) devolverSlot(slot int) {
	if err := p.Swap.DevolverMarco(slot); err != nil {
		utils.ErrorLog.Error("Error devolviendo slot de swap", "pid", p.PID, "slot", slot, "error", err)
	}
}
