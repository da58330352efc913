package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/mm"
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// crearMemoryDump vuelca la imagen virtual del proceso a DUMP_PATH/<pid>-<timestamp>.dmp.
// Cada página mapeada se escribe en su desplazamiento virtual, se lea de la RAM
// o del swap; los huecos quedan en cero. No provoca fallos de página.
func (m *Memoria) crearMemoryDump(pid int) (string, error) {
	p, err := m.proceso(pid)
	if err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102-150405")
	nombreArchivo := fmt.Sprintf("%d-%s.dmp", pid, timestamp)
	rutaCompleta := filepath.Join(m.config.DumpPath, nombreArchivo)

	if m.config.DumpPath != "" {
		if err := m.fs.MkdirAll(m.config.DumpPath, 0755); err != nil {
			return "", errors.Wrap(err, "error al crear directorio para dumps")
		}
	}

	dumpFile, err := m.fs.OpenFile(rutaCompleta, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Wrap(err, "error al crear archivo de dump")
	}
	defer dumpFile.Close()

	tamPagina := m.geometria.TamPagina
	paginas := 0
	err = p.MM.RecorrerPaginas(func(pgn int, e mm.PTE) error {
		var contenido []byte
		var err error
		if e.Presente() {
			contenido, err = m.ram.LeerMarco(e.Marco())
		} else {
			contenido, err = m.swap.LeerMarco(e.Slot())
		}
		if err != nil {
			return errors.Wrapf(err, "página %d (%s)", pgn, e)
		}

		if _, err := dumpFile.WriteAt(contenido, int64(pgn*tamPagina)); err != nil {
			return errors.Wrapf(err, "escribiendo la página %d", pgn)
		}
		paginas++
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "error al escribir en archivo de dump")
	}

	info, err := dumpFile.Stat()
	if err != nil {
		return "", errors.Wrap(err, "error al consultar el archivo de dump")
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Memory Dump solicitado", pid))
	utils.InfoLog.Info("Memory dump completado",
		"pid", pid,
		"archivo", rutaCompleta,
		"paginas", paginas,
		"tamaño", humanize.Bytes(uint64(info.Size())))

	return rutaCompleta, nil
}
