// Package mm es la biblioteca de memoria de cada proceso simulado: asigna y
// libera regiones del heap dentro de un espacio de direcciones, resuelve
// fallos de página contra una tabla de un nivel y reemplaza páginas en orden
// FIFO intercambiándolas con el swap.
//
// Toda la estructura de un proceso (listas libres, tabla de símbolos, tabla de
// páginas y cola FIFO) vive en un MM protegido por un único mutex, que se
// mantiene tomado durante toda la secuencia de decisión y modificación de
// cada operación. Las asignaciones además se serializan entre sí, de modo que
// el crecimiento del heap y su reintento no pueden perder el rango nuevo.
package mm

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// MM es el objeto de memoria de un proceso
type MM struct {
	mu sync.Mutex

	// asignando serializa las asignaciones completas, crecimiento incluido.
	// Se toma antes que mu y nunca al revés.
	asignando sync.Mutex

	cfg      Config
	areas    map[int]*AreaMemoria
	simbolos []ranura
	tabla    *TablaPaginas
	fifo     colaFIFO
	liberado bool
}

// NuevoMM crea un objeto de memoria con el área 0 empezando en la dirección 0
func NuevoMM(cfg Config) (*MM, error) {
	if err := cfg.Validar(); err != nil {
		return nil, err
	}

	return &MM{
		cfg:      cfg,
		areas:    map[int]*AreaMemoria{0: nuevaArea(0, 0)},
		simbolos: make([]ranura, cfg.MaxSimbolos),
		tabla:    nuevaTablaPaginas(cfg.MaxPaginas),
	}, nil
}

// Config devuelve la geometría con la que se creó el objeto
func (mm *MM) Config() Config {
	return mm.cfg
}

// CrearArea agrega un área vacía que empieza en inicio (alineado a página)
func (mm *MM) CrearArea(id, inicio int) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if err := mm.vigente(); err != nil {
		return err
	}
	if _, existe := mm.areas[id]; existe {
		return errors.Wrapf(ErrArgumentoInvalido, "el área %d ya existe", id)
	}
	if inicio < 0 || inicio%mm.cfg.TamPagina != 0 || inicio >= mm.cfg.TamanioEspacio() {
		return errors.Wrapf(ErrArgumentoInvalido, "inicio de área %d inválido", inicio)
	}
	for _, a := range mm.areas {
		if inicio >= a.Inicio && inicio < a.Fin {
			return errors.Wrapf(ErrArgumentoInvalido, "el inicio %d cae dentro del área %d", inicio, a.ID)
		}
	}

	mm.areas[id] = nuevaArea(id, inicio)
	return nil
}

// vigente falla si el objeto ya fue liberado. mm.mu debe estar tomado.
func (mm *MM) vigente() error {
	if mm.liberado {
		return errors.Wrap(ErrArgumentoInvalido, "la memoria del proceso ya fue liberada")
	}
	return nil
}

// area busca un área por id. mm.mu debe estar tomado.
func (mm *MM) area(id int) (*AreaMemoria, error) {
	a, existe := mm.areas[id]
	if !existe {
		return nil, errors.Wrapf(ErrArgumentoInvalido, "no existe el área %d", id)
	}
	return a, nil
}

// ranura valida el id de región. mm.mu debe estar tomado.
func (mm *MM) ranura(rgid int) (*ranura, error) {
	if rgid < 0 || rgid >= len(mm.simbolos) {
		return nil, errors.Wrapf(ErrArgumentoInvalido, "id de región %d fuera de la tabla de símbolos (%d)", rgid, len(mm.simbolos))
	}
	return &mm.simbolos[rgid], nil
}

// encolarLibre devuelve una región a la cabeza de la lista libre de su área.
// mm.mu debe estar tomado.
func (mm *MM) encolarLibre(vmaID int, r Region) error {
	if r.Inicio >= r.Fin {
		return errors.Wrapf(ErrArgumentoInvalido, "región mal formada %s", r)
	}
	a, err := mm.area(vmaID)
	if err != nil {
		return err
	}
	a.libres.encolar(r)
	return nil
}

// buscarAreaLibre toma por primer ajuste tam bytes (ya alineados) de la lista
// libre del área. mm.mu debe estar tomado.
func (mm *MM) buscarAreaLibre(vmaID, tam int) (Region, error) {
	a, err := mm.area(vmaID)
	if err != nil {
		return Region{}, err
	}
	r, ok := a.libres.primerAjuste(tam)
	if !ok {
		return Region{}, errors.Wrapf(ErrSinEspacio, "ningún rango libre del área %d alcanza %d bytes", vmaID, tam)
	}
	return r, nil
}

// ExtenderArea agranda el área inc bytes (múltiplo de página): mapea cada
// página nueva a un marco libre de RAM o, si la RAM está llena, a un slot de
// swap, y encola el rango nuevo en la lista libre. Es la mitad local del
// pedido de crecimiento del heap. Si algo falla no queda nada modificado.
func (mm *MM) ExtenderArea(vmaID, inc int, ram, swap Pool) (Region, error) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if err := mm.vigente(); err != nil {
		return Region{}, err
	}
	if inc <= 0 || inc%mm.cfg.TamPagina != 0 {
		return Region{}, errors.Wrapf(ErrArgumentoInvalido, "incremento %d no alineado a página", inc)
	}
	a, err := mm.area(vmaID)
	if err != nil {
		return Region{}, err
	}

	nueva := Region{Inicio: a.Fin, Fin: a.Fin + inc}
	if nueva.Fin > mm.cfg.TamanioEspacio() {
		return Region{}, errors.Wrapf(ErrSinEspacio, "el área %d no puede crecer hasta %d (tope %d)", vmaID, nueva.Fin, mm.cfg.TamanioEspacio())
	}
	for _, otra := range mm.areas {
		if otra.ID != vmaID && nueva.Inicio < otra.Fin && otra.Inicio < nueva.Fin {
			return Region{}, errors.Wrapf(ErrSinEspacio, "el área %d chocaría con el área %d", vmaID, otra.ID)
		}
	}

	desp := mm.cfg.desplazamiento()
	primera, ultima := nueva.Inicio>>desp, (nueva.Fin-1)>>desp
	mapeo := make(map[int]PTE, ultima-primera+1)
	for pgn := primera; pgn <= ultima; pgn++ {
		e, err := mapearPagina(ram, swap)
		if err != nil {
			deshacerMapeo(mapeo, ram, swap)
			return Region{}, errors.Wrapf(err, "mapeando la página %d", pgn)
		}
		mapeo[pgn] = e
	}

	for pgn := primera; pgn <= ultima; pgn++ {
		e := mapeo[pgn]
		mm.tabla.fijar(pgn, e)
		if e.Presente() {
			mm.fifo.encolar(pgn)
		}
	}
	a.libres.encolar(nueva)
	a.Fin = nueva.Fin

	return nueva, nil
}

func mapearPagina(ram, swap Pool) (PTE, error) {
	if marco, err := ram.ObtenerMarcoLibre(); err == nil {
		return pteEnMarco(marco), nil
	}
	slot, err := swap.ObtenerMarcoLibre()
	if err != nil {
		return 0, errors.Wrap(ErrSinEspacio, "no quedan marcos en RAM ni slots en swap")
	}
	return pteEnSwap(slot), nil
}

func deshacerMapeo(mapeo map[int]PTE, ram, swap Pool) {
	for _, e := range mapeo {
		if e.Presente() {
			ram.DevolverMarco(e.Marco())
		} else {
			swap.DevolverMarco(e.Slot())
		}
	}
}

// EntradaTabla es una PTE no vacía junto a su número de página
type EntradaTabla struct {
	Pagina int `json:"pagina"`
	PTE    PTE `json:"pte"`
}

// EstadoArea describe un área y su lista libre
type EstadoArea struct {
	ID     int      `json:"id"`
	Inicio int      `json:"inicio"`
	Fin    int      `json:"fin"`
	Break  int      `json:"break"`
	Libres []Region `json:"libres"`
}

// Instantanea es una copia consistente del estado de un MM
type Instantanea struct {
	Areas    []EstadoArea   `json:"areas"`
	Simbolos map[int]Region `json:"simbolos"`
	Tabla    []EntradaTabla `json:"tabla"`
	FIFO     []int          `json:"fifo"`
	Liberado bool           `json:"liberado"`
}

// Instantanea copia el estado actual bajo el lock
func (mm *MM) Instantanea() Instantanea {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	inst := Instantanea{
		Simbolos: make(map[int]Region),
		FIFO:     mm.fifo.copia(),
		Liberado: mm.liberado,
	}
	for _, a := range mm.areas {
		inst.Areas = append(inst.Areas, EstadoArea{
			ID:     a.ID,
			Inicio: a.Inicio,
			Fin:    a.Fin,
			Break:  a.Break,
			Libres: a.libres.copia(),
		})
	}
	sort.Slice(inst.Areas, func(i, j int) bool { return inst.Areas[i].ID < inst.Areas[j].ID })

	for id, r := range mm.simbolos {
		if r.activa {
			inst.Simbolos[id] = r.region
		}
	}
	for pgn, e := range mm.tabla.entradas {
		if !e.Vacia() {
			inst.Tabla = append(inst.Tabla, EntradaTabla{Pagina: pgn, PTE: e})
		}
	}
	return inst
}

// RecorrerPaginas llama a fn con cada PTE no vacía, en orden de página y con
// el lock tomado. fn no puede volver a entrar al MM.
func (mm *MM) RecorrerPaginas(fn func(pgn int, e PTE) error) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	for pgn, e := range mm.tabla.entradas {
		if e.Vacia() {
			continue
		}
		if err := fn(pgn, e); err != nil {
			return err
		}
	}
	return nil
}

// PaginasPresentes cuenta las PTEs presentes
func (mm *MM) PaginasPresentes() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.tabla.presentes()
}

// LargoFIFO devuelve la cantidad de páginas en la cola de reemplazo
func (mm *MM) LargoFIFO() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.fifo.largo()
}
