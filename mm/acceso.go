package mm

import (
	"github.com/pkg/errors"
)

// LeerRegion lee el byte en offset dentro de la región rgid
func (p *Proceso) LeerRegion(rgid, offset int) (byte, error) {
	if err := p.validar(); err != nil {
		return 0, err
	}
	p.MM.mu.Lock()
	defer p.MM.mu.Unlock()

	dir, err := p.direccionEnRegion(rgid, offset)
	if err != nil {
		return 0, err
	}
	return p.leerByte(dir)
}

// EscribirRegion escribe valor en offset dentro de la región rgid
func (p *Proceso) EscribirRegion(rgid, offset int, valor byte) error {
	if err := p.validar(); err != nil {
		return err
	}

	err := p.escribirRegion(rgid, offset, valor)
	p.notificar(Observacion{Evento: EventoEscritura, Region: rgid, Offset: offset, Valor: valor, Err: err})
	return err
}

func (p *Proceso) escribirRegion(rgid, offset int, valor byte) error {
	p.MM.mu.Lock()
	defer p.MM.mu.Unlock()

	dir, err := p.direccionEnRegion(rgid, offset)
	if err != nil {
		return err
	}
	return p.escribirByte(dir, valor)
}

// direccionEnRegion resuelve rgid + offset a una dirección virtual.
// mm.mu debe estar tomado.
func (p *Proceso) direccionEnRegion(rgid, offset int) (int, error) {
	mm := p.MM
	if err := mm.vigente(); err != nil {
		return -1, err
	}
	slot, err := mm.ranura(rgid)
	if err != nil {
		return -1, err
	}
	if !slot.activa || !slot.region.valida() {
		return -1, errors.Wrapf(ErrRegionInvalida, "el id de región %d no está asignado", rgid)
	}
	if _, err := mm.area(slot.area); err != nil {
		return -1, errors.Wrapf(ErrRegionInvalida, "región %d: %v", rgid, err)
	}
	if offset < 0 || offset >= slot.region.Tamanio() {
		return -1, errors.Wrapf(ErrArgumentoInvalido, "offset %d fuera de la región %d %s", offset, rgid, slot.region)
	}
	return slot.region.Inicio + offset, nil
}
