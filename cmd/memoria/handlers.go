package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/mm"
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

func (m *Memoria) registrarHandlers(modulo *utils.Modulo) {
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeHandshake), "default", m.handlerHandshake)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeInicializarProceso), "default", m.handlerInicializarProceso)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeFinalizarProceso), "default", m.handlerFinalizarProceso)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeAsignar), "default", m.handlerAsignar)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeLiberar), "default", m.handlerLiberar)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeLeer), "default", m.handlerLeer)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeEscribir), "default", m.handlerEscribir)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeEspacioLibre), "default", m.handlerEspacioLibre)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeMemoryDump), "default", m.handlerMemoryDump)

	utils.InfoLog.Info("Handlers registrados correctamente")
}

// respuestaError arma la respuesta de una operación fallida. El código permite
// al cliente distinguir la clase de error sin parsear el mensaje.
func respuestaError(err error) map[string]interface{} {
	codigo := mm.Clase(err)
	switch {
	case errors.Is(err, errProcesoInexistente):
		codigo = "PROCESO_INEXISTENTE"
	case errors.Is(err, errProcesoDuplicado):
		codigo = "PROCESO_DUPLICADO"
	case codigo == "":
		codigo = "ERROR"
	}

	return map[string]interface{}{
		"status": "ERROR",
		"codigo": codigo,
		"error":  err.Error(),
	}
}

func (m *Memoria) handlerHandshake(msg *utils.Mensaje) (interface{}, error) {
	utils.InfoLog.Info("Handshake recibido", "origen", msg.Origen)

	utils.AplicarRetardo("handshake", m.config.MemoryDelay)

	return map[string]interface{}{
		"status":       "OK",
		"tam_pagina":   m.geometria.TamPagina,
		"max_paginas":  m.geometria.MaxPaginas,
		"max_simbolos": m.geometria.MaxSimbolos,
	}, nil
}

func (m *Memoria) handlerInicializarProceso(msg *utils.Mensaje) (interface{}, error) {
	pid, err := utils.ExtraerEntero(msg, "pid")
	if err != nil {
		utils.ErrorLog.Error("PID no proporcionado", "datos", msg.Datos, "error", err)
		return map[string]interface{}{"error": err.Error()}, nil
	}

	if _, err := m.inicializarProceso(pid); err != nil {
		utils.ErrorLog.Error("Error inicializando proceso", "pid", pid, "error", err)
		return respuestaError(err), nil
	}

	return map[string]interface{}{"status": "OK"}, nil
}

func (m *Memoria) handlerFinalizarProceso(msg *utils.Mensaje) (interface{}, error) {
	pid, err := utils.ExtraerEntero(msg, "pid")
	if err != nil {
		utils.ErrorLog.Error("PID no proporcionado", "datos", msg.Datos, "error", err)
		return map[string]interface{}{"error": err.Error()}, nil
	}

	if err := m.finalizarProceso(pid); err != nil {
		utils.ErrorLog.Error("Error finalizando proceso", "pid", pid, "error", err)
		return respuestaError(err), nil
	}

	return map[string]interface{}{"status": "OK"}, nil
}

func (m *Memoria) handlerAsignar(msg *utils.Mensaje) (interface{}, error) {
	valores, err := utils.ExtraerEnteros(msg, "pid", "rgid", "tam")
	if err != nil {
		return map[string]interface{}{"error": err.Error()}, nil
	}
	pid, rgid, tam := valores[0], valores[1], valores[2]

	p, err := m.proceso(pid)
	if err != nil {
		return respuestaError(err), nil
	}

	dir, err := p.Asignar(tam, rgid)
	if err != nil {
		utils.ErrorLog.Error("Error asignando región", "pid", pid, "rgid", rgid, "tam", tam, "error", err)
		return respuestaError(err), nil
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - ALLOC - Región: %d - Dirección: %d - Tamaño: %d", pid, rgid, dir, tam))
	return map[string]interface{}{
		"status":    "OK",
		"direccion": dir,
	}, nil
}

func (m *Memoria) handlerLiberar(msg *utils.Mensaje) (interface{}, error) {
	valores, err := utils.ExtraerEnteros(msg, "pid", "rgid")
	if err != nil {
		return map[string]interface{}{"error": err.Error()}, nil
	}
	pid, rgid := valores[0], valores[1]

	p, err := m.proceso(pid)
	if err != nil {
		return respuestaError(err), nil
	}

	if err := p.Liberar(rgid); err != nil {
		utils.ErrorLog.Error("Error liberando región", "pid", pid, "rgid", rgid, "error", err)
		return respuestaError(err), nil
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - FREE - Región: %d", pid, rgid))
	return map[string]interface{}{"status": "OK"}, nil
}

func (m *Memoria) handlerLeer(msg *utils.Mensaje) (interface{}, error) {
	valores, err := utils.ExtraerEnteros(msg, "pid", "rgid", "offset")
	if err != nil {
		return map[string]interface{}{"error": err.Error()}, nil
	}
	pid, rgid, offset := valores[0], valores[1], valores[2]

	p, err := m.proceso(pid)
	if err != nil {
		return respuestaError(err), nil
	}

	valor, err := p.LeerRegion(rgid, offset)
	if err != nil {
		utils.ErrorLog.Error("Error leyendo región", "pid", pid, "rgid", rgid, "offset", offset, "error", err)
		return respuestaError(err), nil
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Lectura - Región: %d - Offset: %d - Valor: %d", pid, rgid, offset, valor))
	return map[string]interface{}{
		"status": "OK",
		"valor":  int(valor),
	}, nil
}

func (m *Memoria) handlerEscribir(msg *utils.Mensaje) (interface{}, error) {
	valores, err := utils.ExtraerEnteros(msg, "pid", "rgid", "offset", "valor")
	if err != nil {
		return map[string]interface{}{"error": err.Error()}, nil
	}
	pid, rgid, offset, valor := valores[0], valores[1], valores[2], valores[3]

	if valor < 0 || valor > 255 {
		return respuestaError(errors.Wrapf(mm.ErrArgumentoInvalido, "valor %d no entra en un byte", valor)), nil
	}

	p, err := m.proceso(pid)
	if err != nil {
		return respuestaError(err), nil
	}

	if err := p.EscribirRegion(rgid, offset, byte(valor)); err != nil {
		utils.ErrorLog.Error("Error escribiendo región", "pid", pid, "rgid", rgid, "offset", offset, "error", err)
		return respuestaError(err), nil
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Escritura - Región: %d - Offset: %d - Valor: %d", pid, rgid, offset, valor))
	return map[string]interface{}{"status": "OK"}, nil
}

func (m *Memoria) handlerEspacioLibre(msg *utils.Mensaje) (interface{}, error) {
	marcos := m.ram.MarcosLibres()
	slots := m.swap.MarcosLibres()
	bytesLibres := marcos * m.geometria.TamPagina

	utils.InfoLog.Info("Espacio libre consultado",
		"marcos_libres", marcos,
		"slots_libres", slots,
		"espacio_libre", humanize.Bytes(uint64(bytesLibres)))

	return map[string]interface{}{
		"status":        "OK",
		"espacio_libre": bytesLibres,
		"marcos_libres": marcos,
		"slots_libres":  slots,
	}, nil
}

func (m *Memoria) handlerMemoryDump(msg *utils.Mensaje) (interface{}, error) {
	pid, err := utils.ExtraerEntero(msg, "pid")
	if err != nil {
		utils.ErrorLog.Error("PID no proporcionado o formato incorrecto", "datos", msg.Datos)
		return map[string]interface{}{"error": err.Error()}, nil
	}

	utils.InfoLog.Info("Solicitud de memory dump recibida", "pid", pid)

	ruta, err := m.crearMemoryDump(pid)
	if err != nil {
		utils.ErrorLog.Error("Error al crear memory dump", "pid", pid, "error", err)
		return respuestaError(err), nil
	}

	utils.AplicarRetardo("memory", m.config.MemoryDelay)

	return map[string]interface{}{
		"status":  "OK",
		"archivo": ruta,
	}, nil
}
