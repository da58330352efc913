package mm

import (
	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// Asignar reserva tam bytes en el área 0 y los asocia al id de región rgid.
// Devuelve la dirección virtual de inicio.
func (p *Proceso) Asignar(tam, rgid int) (int, error) {
	dir, err := p.asignarEnArea(0, rgid, tam)
	if p != nil {
		p.Metricas.asignacion(p.PID, err)
		p.notificar(Observacion{Evento: EventoAsignacion, Region: rgid, Direccion: dir, Tamanio: tam, Err: err})
	}
	return dir, err
}

// Liberar devuelve la región rgid a la lista libre y deja su id inválido
func (p *Proceso) Liberar(rgid int) error {
	err := p.liberarEnArea(rgid)
	if p != nil {
		p.notificar(Observacion{Evento: EventoLiberacion, Region: rgid, Err: err})
	}
	return err
}

func (p *Proceso) asignarEnArea(vmaID, rgid, tam int) (int, error) {
	if err := p.validar(); err != nil {
		return -1, err
	}
	if tam <= 0 {
		return -1, errors.Wrapf(ErrArgumentoInvalido, "tamaño %d", tam)
	}
	if tam > p.MM.cfg.TamanioEspacio() {
		return -1, errors.Wrapf(ErrSinEspacio, "tamaño %d mayor que el espacio de direcciones (%d)", tam, p.MM.cfg.TamanioEspacio())
	}

	p.MM.asignando.Lock()
	defer p.MM.asignando.Unlock()

	alineado := p.MM.cfg.alinear(tam)

	r, err := p.reservar(vmaID, rgid, alineado)
	if err == nil {
		return r.Inicio, nil
	}
	if !errors.Is(err, ErrSinEspacio) {
		return -1, err
	}

	// No hay rango libre: se pide crecer el heap exactamente lo alineado y se
	// reintenta una única vez. Con asignando tomado nadie más puede llevarse el
	// rango nuevo entre el crecimiento y el reintento.
	utils.InfoLog.Info("Sin espacio libre, pidiendo crecimiento del heap",
		"pid", p.PID, "area", vmaID, "rgid", rgid, "incremento", alineado)

	if err := p.Despachador.ExtenderHeap(p, vmaID, alineado); err != nil {
		if errors.Is(err, ErrSinEspacio) || errors.Is(err, ErrArgumentoInvalido) {
			return -1, errors.Wrapf(err, "crecimiento del heap denegado")
		}
		return -1, errors.Wrapf(ErrFalloIO, "crecimiento del heap: %v", err)
	}
	p.Metricas.crecimiento(p.PID, alineado)

	r, err = p.reservar(vmaID, rgid, alineado)
	if err != nil {
		return -1, errors.Wrap(err, "reintento luego de crecer el heap")
	}
	return r.Inicio, nil
}

// reservar busca el rango, lo registra en la tabla de símbolos y avanza el
// break, todo en la misma sección crítica. Si falla no modifica nada.
func (p *Proceso) reservar(vmaID, rgid, alineado int) (Region, error) {
	mm := p.MM
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if err := mm.vigente(); err != nil {
		return Region{}, err
	}
	slot, err := mm.ranura(rgid)
	if err != nil {
		return Region{}, err
	}
	if slot.activa {
		return Region{}, errors.Wrapf(ErrArgumentoInvalido, "el id de región %d ya tiene asignada %s", rgid, slot.region)
	}
	a, err := mm.area(vmaID)
	if err != nil {
		return Region{}, err
	}

	r, err := mm.buscarAreaLibre(vmaID, alineado)
	if err != nil {
		return Region{}, err
	}

	*slot = ranura{region: r, area: vmaID, activa: true}
	if r.Inicio == a.Break {
		a.Break += alineado
	}

	utils.InfoLog.Info("Región asignada",
		"pid", p.PID, "rgid", rgid, "inicio", r.Inicio, "fin", r.Fin, "break", a.Break)
	return r, nil
}

func (p *Proceso) liberarEnArea(rgid int) error {
	if err := p.validar(); err != nil {
		return err
	}

	mm := p.MM
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if err := mm.vigente(); err != nil {
		return err
	}
	slot, err := mm.ranura(rgid)
	if err != nil {
		return err
	}
	if !slot.activa || !slot.region.valida() {
		return errors.Wrapf(ErrRegionInvalida, "el id de región %d no está asignado", rgid)
	}
	if _, err := mm.area(slot.area); err != nil {
		return errors.Wrapf(ErrRegionInvalida, "región %d: %v", rgid, err)
	}

	copia := slot.region
	if err := mm.encolarLibre(slot.area, copia); err != nil {
		return err
	}
	*slot = ranura{}

	utils.InfoLog.Info("Región liberada", "pid", p.PID, "rgid", rgid, "inicio", copia.Inicio, "fin", copia.Fin)
	return nil
}
