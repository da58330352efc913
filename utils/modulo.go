package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Modulo representa un módulo genérico del sistema
type Modulo struct {
	Nombre      string
	Server      *HTTPServer
	Clientes    map[string]*HTTPClient
	ConfigPath  string
	HandlerFunc map[string]map[string]HTTPHandlerFunc
}

// NuevoModulo crea una nueva instancia de un módulo
func NuevoModulo(nombre string, configPath string) *Modulo {
	return &Modulo{
		Nombre:      nombre,
		Clientes:    make(map[string]*HTTPClient),
		ConfigPath:  configPath,
		HandlerFunc: make(map[string]map[string]HTTPHandlerFunc),
	}
}

// RegistrarHandler registra un handler para un tipo de mensaje y operación específicos
func (m *Modulo) RegistrarHandler(tipo string, operacion string, handler HTTPHandlerFunc) {
	if _, existe := m.HandlerFunc[tipo]; !existe {
		m.HandlerFunc[tipo] = make(map[string]HTTPHandlerFunc)
	}
	m.HandlerFunc[tipo][operacion] = handler
}

// CrearServidor arma el servidor HTTP del módulo con todos los handlers registrados,
// sin ponerlo a escuchar.
func (m *Modulo) CrearServidor(ip string, puerto int) *HTTPServer {
	m.Server = NewHTTPServer(ip, puerto, m.Nombre)

	for tipoStr, handlersPorOperacion := range m.HandlerFunc {
		tipo, err := strconv.Atoi(tipoStr)
		if err != nil {
			slog.Error("Error al convertir tipo de mensaje a entero", "tipo", tipoStr, "error", err)
			continue
		}

		m.Server.RegisterHTTPHandler(tipo, despacharPorOperacion(tipo, handlersPorOperacion))
	}

	return m.Server
}

func despacharPorOperacion(tipo int, handlersPorOperacion map[string]HTTPHandlerFunc) HTTPHandlerFunc {
	return func(msg *Mensaje) (interface{}, error) {
		operacion := msg.Operacion
		if operacion == "" {
			operacion = "default"
		}

		handler, existe := handlersPorOperacion[operacion]
		if !existe {
			handler, existe = handlersPorOperacion["default"]
			if !existe {
				slog.Error("No hay handler para operación", "tipo", tipo, "operacion", operacion)
				return nil, fmt.Errorf("no hay handler para operación %s", operacion)
			}
		}

		return handler(msg)
	}
}

// LeerConfiguracion decodifica un archivo JSON o YAML (según la extensión) en T
func LeerConfiguracion[T any](ruta string) (*T, error) {
	absPath, err := filepath.Abs(ruta)
	if err != nil {
		return nil, errors.Wrapf(err, "ruta inválida %s", ruta)
	}

	contenido, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error abriendo archivo de configuración %s", absPath)
	}

	var config T
	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(contenido))
		decoder.KnownFields(true)
		err = decoder.Decode(&config)
	default:
		err = json.Unmarshal(contenido, &config)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error decodificando configuración %s", absPath)
	}

	return &config, nil
}

// CargarConfiguracion carga la configuración o termina el proceso si no puede
func CargarConfiguracion[T any](ruta string) *T {
	slog.Info("Cargando configuración", "ruta", ruta)

	config, err := LeerConfiguracion[T](ruta)
	if err != nil {
		slog.Error("Error cargando configuración", "error", err, "ruta", ruta)
		os.Exit(1)
	}

	slog.Info("Configuración cargada correctamente")
	return config
}

// ============================================================================
// Constantes para tipos de mensajes entre módulos
// ============================================================================
const (
	// === COMUNICACIÓN BÁSICA (1-9) ===
	MensajeHandshake = 1 // Conexión inicial

	// === OPERACIONES DE MEMORIA (10-19) ===
	MensajeLeer         = 10 // Leer un byte de una región
	MensajeEscribir     = 11 // Escribir un byte en una región
	MensajeAsignar      = 12 // ALLOC
	MensajeLiberar      = 13 // FREE
	MensajeEspacioLibre = 14 // Consultar marcos libres
	MensajeMemoryDump   = 15 // Volcado memoria

	// === GESTIÓN DE PROCESOS (20-29) ===
	MensajeInicializarProceso = 20 // Crear espacio de direcciones
	MensajeFinalizarProceso   = 21 // Liberar toda la memoria del proceso
)
