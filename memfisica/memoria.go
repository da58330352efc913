// Package memfisica modela los dispositivos de memoria física del simulador:
// la RAM y el área de swap. Cada dispositivo es un arreglo de marcos de
// tamaño fijo con su propia lista de marcos libres, compartido por todos los
// procesos y sincronizado internamente.
package memfisica

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

var (
	ErrSinMarcos           = errors.New("no hay marcos libres disponibles")
	ErrMarcoInvalido       = errors.New("marco inválido")
	ErrDireccionInvalida   = errors.New("dirección física fuera de rango")
	ErrTamanioIncompatible = errors.New("tamaño de memoria incompatible con el tamaño de página")
)

type almacen interface {
	io.ReaderAt
	io.WriterAt
}

// Memoria es un dispositivo de marcos (RAM o swap)
type Memoria struct {
	mu        sync.Mutex
	Nombre    string
	tamPagina int
	tamanio   int
	datos     almacen
	cerrar    func() error
	libres    []int  // pila: el próximo marco a entregar está al final
	ocupados  []bool // true = entregado
}

// NuevaRAM crea una memoria principal respaldada por un slice de bytes
func NuevaRAM(tamanio, tamPagina int) (*Memoria, error) {
	if err := validarTamanios(tamanio, tamPagina); err != nil {
		return nil, err
	}
	m := nuevaMemoria("RAM", make(buffer, tamanio), tamanio, tamPagina)
	utils.InfoLog.Info("Memoria principal inicializada", "tamaño_bytes", tamanio, "total_marcos", len(m.ocupados))
	return m, nil
}

// NuevaSwap crea un área de swap respaldada por un archivo del filesystem dado
func NuevaSwap(fs afero.Fs, ruta string, tamanio, tamPagina int) (*Memoria, error) {
	if err := validarTamanios(tamanio, tamPagina); err != nil {
		return nil, err
	}

	archivo, err := fs.OpenFile(ruta, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "error al crear archivo SWAP %s", ruta)
	}
	if err := archivo.Truncate(int64(tamanio)); err != nil {
		archivo.Close()
		return nil, errors.Wrapf(err, "error al dimensionar archivo SWAP %s", ruta)
	}

	m := nuevaMemoria("SWAP", archivo, tamanio, tamPagina)
	m.cerrar = archivo.Close
	utils.InfoLog.Info("Área de SWAP inicializada", "archivo", ruta, "tamaño_bytes", tamanio, "total_slots", len(m.ocupados))
	return m, nil
}

func validarTamanios(tamanio, tamPagina int) error {
	if tamPagina <= 0 || tamanio <= 0 || tamanio%tamPagina != 0 {
		return errors.Wrapf(ErrTamanioIncompatible, "memoria=%d página=%d", tamanio, tamPagina)
	}
	return nil
}

func nuevaMemoria(nombre string, datos almacen, tamanio, tamPagina int) *Memoria {
	totalMarcos := tamanio / tamPagina
	m := &Memoria{
		Nombre:    nombre,
		tamPagina: tamPagina,
		tamanio:   tamanio,
		datos:     datos,
		libres:    make([]int, 0, totalMarcos),
		ocupados:  make([]bool, totalMarcos),
	}
	// Se cargan al revés para entregar primero el marco 0
	for i := totalMarcos - 1; i >= 0; i-- {
		m.libres = append(m.libres, i)
	}
	return m
}

// ObtenerMarcoLibre entrega un marco libre y lo marca como ocupado
func (m *Memoria) ObtenerMarcoLibre() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.libres) == 0 {
		return -1, errors.Wrapf(ErrSinMarcos, "%s", m.Nombre)
	}

	marco := m.libres[len(m.libres)-1]
	m.libres = m.libres[:len(m.libres)-1]
	m.ocupados[marco] = true
	return marco, nil
}

// DevolverMarco devuelve un marco a la lista de libres
func (m *Memoria) DevolverMarco(marco int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if marco < 0 || marco >= len(m.ocupados) {
		return errors.Wrapf(ErrMarcoInvalido, "%s: marco %d fuera de rango", m.Nombre, marco)
	}
	if !m.ocupados[marco] {
		return errors.Wrapf(ErrMarcoInvalido, "%s: marco %d ya estaba libre", m.Nombre, marco)
	}

	m.ocupados[marco] = false
	m.libres = append(m.libres, marco)
	return nil
}

// Leer devuelve el byte en la dirección física dada
func (m *Memoria) Leer(dir int) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dir < 0 || dir >= m.tamanio {
		return 0, errors.Wrapf(ErrDireccionInvalida, "%s: %d", m.Nombre, dir)
	}

	var b [1]byte
	if _, err := m.datos.ReadAt(b[:], int64(dir)); err != nil {
		return 0, errors.Wrapf(err, "%s: lectura en %d", m.Nombre, dir)
	}
	return b[0], nil
}

// Escribir guarda un byte en la dirección física dada
func (m *Memoria) Escribir(dir int, valor byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dir < 0 || dir >= m.tamanio {
		return errors.Wrapf(ErrDireccionInvalida, "%s: %d", m.Nombre, dir)
	}

	if _, err := m.datos.WriteAt([]byte{valor}, int64(dir)); err != nil {
		return errors.Wrapf(err, "%s: escritura en %d", m.Nombre, dir)
	}
	return nil
}

// LeerMarco devuelve una copia del contenido completo de un marco
func (m *Memoria) LeerMarco(marco int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if marco < 0 || marco >= len(m.ocupados) {
		return nil, errors.Wrapf(ErrMarcoInvalido, "%s: marco %d", m.Nombre, marco)
	}

	datos := make([]byte, m.tamPagina)
	if _, err := m.datos.ReadAt(datos, int64(marco*m.tamPagina)); err != nil {
		return nil, errors.Wrapf(err, "%s: lectura del marco %d", m.Nombre, marco)
	}
	return datos, nil
}

// EscribirMarco reemplaza el contenido completo de un marco
func (m *Memoria) EscribirMarco(marco int, datos []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if marco < 0 || marco >= len(m.ocupados) {
		return errors.Wrapf(ErrMarcoInvalido, "%s: marco %d", m.Nombre, marco)
	}
	if len(datos) != m.tamPagina {
		return errors.Errorf("%s: se esperaban %d bytes, llegaron %d", m.Nombre, m.tamPagina, len(datos))
	}

	if _, err := m.datos.WriteAt(datos, int64(marco*m.tamPagina)); err != nil {
		return errors.Wrapf(err, "%s: escritura del marco %d", m.Nombre, marco)
	}
	return nil
}

// CopiarMarco copia un marco de un dispositivo a otro. Los locks se toman de a
// uno, nunca los dos a la vez.
func CopiarMarco(origen *Memoria, marcoOrigen int, destino *Memoria, marcoDestino int) error {
	datos, err := origen.LeerMarco(marcoOrigen)
	if err != nil {
		return err
	}
	return destino.EscribirMarco(marcoDestino, datos)
}

// TamPagina devuelve el tamaño de marco del dispositivo
func (m *Memoria) TamPagina() int { return m.tamPagina }

// CantidadMarcos devuelve la cantidad total de marcos
func (m *Memoria) CantidadMarcos() int { return len(m.ocupados) }

// MarcosLibres cuenta los marcos disponibles
func (m *Memoria) MarcosLibres() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.libres)
}

// Cerrar libera el archivo de respaldo, si lo hay
func (m *Memoria) Cerrar() error {
	if m.cerrar == nil {
		return nil
	}
	return m.cerrar()
}
