package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"
)

// HTTPHandlerFunc es el tipo para los manejadores de mensajes HTTP
type HTTPHandlerFunc func(*Mensaje) (interface{}, error)

// HTTPServer representa un servidor HTTP para cualquier módulo
type HTTPServer struct {
	IP       string
	Puerto   int
	Nombre   string
	server   *http.Server
	handlers map[int]HTTPHandlerFunc
	extras   map[string]http.Handler
	Listener net.Listener
}

// NewHTTPServer crea un nuevo servidor HTTP
func NewHTTPServer(ip string, puerto int, nombre string) *HTTPServer {
	return &HTTPServer{
		IP:       ip,
		Puerto:   puerto,
		Nombre:   nombre,
		handlers: make(map[int]HTTPHandlerFunc),
		extras:   make(map[string]http.Handler),
	}
}

// RegisterHTTPHandler registra un manejador para un tipo específico de mensaje
func (s *HTTPServer) RegisterHTTPHandler(tipoMensaje int, handler HTTPHandlerFunc) {
	s.handlers[tipoMensaje] = handler
}

// Handle monta un http.Handler adicional (por ejemplo /metrics)
func (s *HTTPServer) Handle(ruta string, handler http.Handler) {
	s.extras[ruta] = handler
}

// Router arma el router con el endpoint de mensajes, el healthcheck y los extras
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/mensaje", s.recibirMensaje).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "module": s.Nombre})
	}).Methods(http.MethodGet)

	for ruta, handler := range s.extras {
		r.Handle(ruta, handler)
	}

	return r
}

func (s *HTTPServer) recibirMensaje(w http.ResponseWriter, r *http.Request) {
	var mensaje Mensaje
	err := json.NewDecoder(r.Body).Decode(&mensaje)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error decodificando mensaje: %v", err), http.StatusBadRequest)
		return
	}

	handler, exists := s.handlers[mensaje.Tipo]
	if !exists {
		http.Error(w, fmt.Sprintf("No hay manejador para el tipo de mensaje %d", mensaje.Tipo), http.StatusBadRequest)
		return
	}

	respuesta, err := handler(&mensaje)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error en el manejador: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(respuesta)
}

// Start inicia el servidor HTTP y bloquea hasta que se detenga
func (s *HTTPServer) Start() error {
	router := s.Router()

	// Si ya tiene Listener asignado
	if s.Listener != nil {
		slog.Info("Servidor HTTP escuchando", "módulo", s.Nombre, "dirección", s.Listener.Addr().String())
		s.server = &http.Server{Handler: router}
		return s.server.Serve(s.Listener)
	}

	address := fmt.Sprintf("%s:%d", s.IP, s.Puerto)
	s.server = &http.Server{
		Addr:    address,
		Handler: router,
	}

	slog.Info("Servidor HTTP escuchando", "módulo", s.Nombre, "dirección", address)
	return s.server.ListenAndServe()
}

// Stop detiene el servidor si está corriendo
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
